package steps

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

func newTestUI() (*ui.UI, *bytes.Buffer) {
	var buf bytes.Buffer
	return ui.NewWithWriter(&buf), &buf
}

type fakeHost struct {
	os       string
	root     bool
	commands map[string]bool
}

func (h fakeHost) OS() string { return h.os }

func (h fakeHost) IsRoot() bool { return h.root }

func (h fakeHost) CommandExists(cmd string) bool { return h.commands[cmd] }

type runResult struct {
	out string
	err error
}

type fakeRunner struct {
	results map[string]runResult
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, c system.Command) (string, error) {
	f.calls = append(f.calls, c.String())
	if r, ok := f.results[c.String()]; ok {
		return r.out, r.err
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", c.Name)
}

type fakeDaemon struct {
	err error
}

func (d fakeDaemon) Ping(ctx context.Context) error { return d.err }

type fakeCompose struct {
	pullErr error
	upErr   error
	calls   []string
}

func (c *fakeCompose) Pull(ctx context.Context) (string, error) {
	c.calls = append(c.calls, "pull")
	if c.pullErr != nil {
		return "pull access denied", c.pullErr
	}
	return "", nil
}

func (c *fakeCompose) Up(ctx context.Context, build bool) (string, error) {
	if build {
		c.calls = append(c.calls, "up --build")
	} else {
		c.calls = append(c.calls, "up")
	}
	if c.upErr != nil {
		return "port is already allocated", c.upErr
	}
	return "", nil
}

type fakeLister struct {
	containers []system.ContainerStatus
	err        error
}

func (l fakeLister) ListRunning(ctx context.Context) ([]system.ContainerStatus, error) {
	return l.containers, l.err
}

type fakeRegistrar struct {
	err   error
	calls []config.Admin
}

func (r *fakeRegistrar) RegisterAdmin(ctx context.Context, admin config.Admin) error {
	r.calls = append(r.calls, admin)
	return r.err
}

type fakeChecker struct {
	results []bool
	calls   int
}

func (c *fakeChecker) Healthy(ctx context.Context) bool {
	c.calls++
	if c.calls <= len(c.results) {
		return c.results[c.calls-1]
	}
	return false
}

type fakeClock struct {
	slept []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	return nil
}
