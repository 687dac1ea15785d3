// Package editor edits snippet fields in the user's text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/parser"
)

// DefaultCommand is used when neither the config nor $EDITOR names an editor.
const DefaultCommand = "vi"

// Launcher writes the fields to a temporary document, opens it in an
// external editor and parses the saved result.
type Launcher struct {
	// Command is the editor command line; arguments are split on spaces
	// and the document path is appended.
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns a launcher attached to the process terminal.
func New(command string) *Launcher {
	return &Launcher{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Resolve picks the editor command: configured value, then $VISUAL, then
// $EDITOR, then DefaultCommand.
func Resolve(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return DefaultCommand
}

// Edit opens f in the editor. A non-zero exit or an unreadable document is an error.
func (l *Launcher) Edit(ctx context.Context, f models.Fields) (models.Fields, error) {
	doc, err := parser.Render(f)
	if err != nil {
		return models.Fields{}, err
	}

	tmp, err := os.CreateTemp("", "markit-*.md")
	if err != nil {
		return models.Fields{}, fmt.Errorf("editor: create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return models.Fields{}, fmt.Errorf("editor: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return models.Fields{}, fmt.Errorf("editor: close temp file: %w", err)
	}

	argv := strings.Fields(l.Command)
	if len(argv) == 0 {
		argv = []string{DefaultCommand}
	}
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.Stdin, l.Stdout, l.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return models.Fields{}, fmt.Errorf("editor: %s exited with status %d", argv[0], exitErr.ExitCode())
		}
		return models.Fields{}, fmt.Errorf("editor: launch %s: %w", argv[0], err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return models.Fields{}, fmt.Errorf("editor: read edited file: %w", err)
	}
	return parser.Parse(edited)
}
