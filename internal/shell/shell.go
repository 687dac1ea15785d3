// Package shell runs snippet content through a command interpreter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// DefaultShell is used when neither the config nor $SHELL names a shell.
const DefaultShell = "/bin/sh"

// Runner executes text with `<Shell> -c`.
type Runner struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a runner attached to the process terminal.
func New(shell string) *Runner {
	return &Runner{Shell: Resolve(shell), Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Resolve picks the configured shell, then $SHELL, then DefaultShell.
func Resolve(configured string) string {
	if configured != "" {
		return configured
	}
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return DefaultShell
}

// Run executes text and returns its exit status. A command that runs and
// fails is not an error; failing to start the shell is.
func (r *Runner) Run(ctx context.Context, text string) (int, error) {
	sh := r.Shell
	if sh == "" {
		sh = DefaultShell
	}
	cmd := exec.CommandContext(ctx, sh, "-c", text)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = r.Stdin, r.Stdout, r.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("shell: run %s: %w", sh, err)
	}
}
