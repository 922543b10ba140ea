// Package ui renders installer progress for the operator and asks for the
// answers the installer needs.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const lineWidth = 70

// UI writes tagged, colored messages to one writer
type UI struct {
	output         io.Writer
	nonInteractive bool

	colorInfo    *color.Color
	colorSuccess *color.Color
	colorWarning *color.Color
	colorError   *color.Color
	colorBold    *color.Color
	colorCyan    *color.Color
}

// New creates a UI that writes to stderr, leaving stdout for command output
func New() *UI {
	return &UI{
		output:       os.Stderr,
		colorInfo:    color.New(color.FgBlue),
		colorSuccess: color.New(color.FgGreen),
		colorWarning: color.New(color.FgYellow),
		colorError:   color.New(color.FgRed),
		colorBold:    color.New(color.Bold),
		colorCyan:    color.New(color.FgCyan, color.Bold),
	}
}

// NewWithWriter creates a UI with custom output writer (useful for testing)
func NewWithWriter(w io.Writer) *UI {
	u := New()
	u.output = w
	return u
}

// SetNonInteractive disables prompting
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

// IsNonInteractive returns true if non-interactive mode is enabled
func (u *UI) IsNonInteractive() bool {
	return u.nonInteractive
}

// Writer returns the writer messages go to
func (u *UI) Writer() io.Writer {
	return u.output
}

func (u *UI) tagged(c *color.Color, tag, msg string) {
	c.Fprintf(u.output, "[%s] %s\n", tag, msg)
}

// Info prints an info message
func (u *UI) Info(msg string) {
	u.tagged(u.colorInfo, "INFO", msg)
}

// Infof prints a formatted info message
func (u *UI) Infof(format string, args ...any) {
	u.Info(fmt.Sprintf(format, args...))
}

// Success prints a success message
func (u *UI) Success(msg string) {
	u.tagged(u.colorSuccess, "✓", msg)
}

// Successf prints a formatted success message
func (u *UI) Successf(format string, args ...any) {
	u.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (u *UI) Warning(msg string) {
	u.tagged(u.colorWarning, "WARNING", msg)
}

// Warningf prints a formatted warning message
func (u *UI) Warningf(format string, args ...any) {
	u.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message
func (u *UI) Error(msg string) {
	u.tagged(u.colorError, "ERROR", msg)
}

// Errorf prints a formatted error message
func (u *UI) Errorf(format string, args ...any) {
	u.Error(fmt.Sprintf(format, args...))
}

// Step announces the start of an installation step
func (u *UI) Step(msg string) {
	fmt.Fprintln(u.output)
	u.colorCyan.Fprintf(u.output, "==> %s\n", msg)
}

// Header prints a title between two rules
func (u *UI) Header(title string) {
	border := strings.Repeat("=", lineWidth)

	fmt.Fprintln(u.output)
	u.colorCyan.Fprintln(u.output, border)
	u.colorCyan.Fprintf(u.output, "  %s\n", title)
	u.colorCyan.Fprintln(u.output, border)
	fmt.Fprintln(u.output)
}

// Separator prints a separator line
func (u *UI) Separator() {
	u.colorCyan.Fprintln(u.output, strings.Repeat("-", lineWidth))
}

// Print prints a plain message without formatting
func (u *UI) Print(msg string) {
	fmt.Fprintln(u.output, msg)
}

// Printf prints a formatted plain message
func (u *UI) Printf(format string, args ...any) {
	fmt.Fprintf(u.output, format+"\n", args...)
}

// Bold prints bold text
func (u *UI) Bold(msg string) {
	u.colorBold.Fprintln(u.output, msg)
}
