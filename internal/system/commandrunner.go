package system

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/nixopus/installer/internal/log"
)

// Command describes one child process. Env entries are appended to the
// installer's own environment for that child only.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// String renders the command line for messages
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandRunner defines an interface for running system commands.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// ExecCommandRunner executes commands on the local host.
type ExecCommandRunner struct{}

// NewCommandRunner returns a default command runner implementation.
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and returns its combined output.
func (r *ExecCommandRunner) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	log.Debug("Running command", "cmd", c.String(), "dir", c.Dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Debug("Command failed", "cmd", c.String(), "error", err)
	}
	return string(output), err
}
