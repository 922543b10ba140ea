// Package system wraps everything the installer does against the local host:
// running child processes, probing the OS, talking to the Docker daemon,
// driving docker compose and fetching the project source.
package system

import (
	"os"
	"os/exec"
	"runtime"
)

// LocalHost answers questions about the machine the installer runs on
type LocalHost struct{}

// OS returns the operating system family, e.g. "linux"
func (LocalHost) OS() string {
	return runtime.GOOS
}

// IsRoot reports whether the effective user is root
func (LocalHost) IsRoot() bool {
	return os.Geteuid() == 0
}

// CommandExists checks if a command is available in PATH
func (LocalHost) CommandExists(command string) bool {
	return CommandExists(command)
}

// CommandExists checks if a command is available in PATH
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
