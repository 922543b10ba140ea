package system

import (
	"context"
	"fmt"
)

type fakeResult struct {
	out string
	err error
}

// fakeRunner answers commands by their rendered command line and records
// every call.
type fakeRunner struct {
	results map[string]fakeResult
	calls   []Command
}

func (f *fakeRunner) Run(ctx context.Context, c Command) (string, error) {
	f.calls = append(f.calls, c)
	if r, ok := f.results[c.String()]; ok {
		return r.out, r.err
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", c.Name)
}
