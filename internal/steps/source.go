package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nixopus/installer/internal/ui"
)

// Cloner fetches a git repository into a directory
type Cloner interface {
	Clone(ctx context.Context, url, branch, dir string) error
}

// SourceFetcher makes sure the project source, and with it the compose
// files, exists under the project root.
type SourceFetcher struct {
	cloner      Cloner
	ui          *ui.UI
	root        string
	composeFile string
	repoURL     string
	branch      string
}

// NewSourceFetcher creates a new SourceFetcher instance
func NewSourceFetcher(cloner Cloner, ui *ui.UI, root, composeFile, repoURL, branch string) *SourceFetcher {
	return &SourceFetcher{
		cloner:      cloner,
		ui:          ui,
		root:        root,
		composeFile: composeFile,
		repoURL:     repoURL,
		branch:      branch,
	}
}

// Run clones the repository when the compose file is missing. It reports
// whether a clone happened.
func (s *SourceFetcher) Run(ctx context.Context) (bool, error) {
	composePath := filepath.Join(s.root, s.composeFile)
	if _, err := os.Stat(composePath); err == nil {
		s.ui.Infof("Using existing project source at %s", s.root)
		return false, nil
	}

	if s.repoURL == "" {
		s.ui.Errorf("Compose file not found: %s", composePath)
		return false, fmt.Errorf("compose file %s not found and no repository configured", composePath)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to inspect project root: %w", err)
	}
	if len(entries) > 0 {
		s.ui.Errorf("%s is not empty but has no %s", s.root, s.composeFile)
		return false, fmt.Errorf("project root %s is not empty and has no %s", s.root, s.composeFile)
	}

	s.ui.Infof("Fetching Nixopus source from %s (%s)...", s.repoURL, s.branch)
	if err := s.cloner.Clone(ctx, s.repoURL, s.branch, s.root); err != nil {
		return false, err
	}

	if _, err := os.Stat(composePath); err != nil {
		return true, fmt.Errorf("repository does not contain %s", s.composeFile)
	}

	s.ui.Success("Source fetched")
	return true, nil
}
