package system

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitCloner fetches the project source with go-git
type GitCloner struct {
	Progress io.Writer
}

// Clone makes a shallow single-branch clone of url into dir
func (g GitCloner) Clone(ctx context.Context, url, branch, dir string) error {
	opts := &git.CloneOptions{
		URL:          url,
		Progress:     g.Progress,
		Depth:        1,
		SingleBranch: true,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return nil
}
