// Package clipboard copies text to and reads text from the system clipboard.
// The native provider is tried first; when it is unavailable the first
// clipboard utility found in PATH is used.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard mechanism works.
var ErrUnavailable = errors.New("clipboard: no clipboard provider available")

// Tool is an external clipboard utility invocation.
type Tool struct {
	Name string
	Args []string
}

func (t Tool) String() string {
	return strings.Join(append([]string{t.Name}, t.Args...), " ")
}

// CopyTools is the fallback chain for writes, in order of preference.
var CopyTools = []Tool{
	{Name: "wl-copy"},
	{Name: "xclip", Args: []string{"-selection", "clipboard"}},
	{Name: "xsel", Args: []string{"--clipboard", "--input"}},
	{Name: "pbcopy"},
	{Name: "clip.exe"},
}

// PasteTools is the fallback chain for reads.
var PasteTools = []Tool{
	{Name: "wl-paste", Args: []string{"--no-newline"}},
	{Name: "xclip", Args: []string{"-selection", "clipboard", "-o"}},
	{Name: "xsel", Args: []string{"--clipboard", "--output"}},
	{Name: "pbpaste"},
	{Name: "powershell.exe", Args: []string{"-NoProfile", "-Command", "Get-Clipboard"}},
}

// Provider is the clipboard used by markit.
type Provider struct {
	logger *slog.Logger

	writeNative func(string) error
	readNative  func() (string, error)
	lookPath    func(string) (string, error)
	exec        func(path string, args []string, stdin string) (string, error)
}

// New returns a provider backed by the native clipboard and the system PATH.
func New(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{
		logger:   logger,
		lookPath: exec.LookPath,
		exec:     runTool,
	}
	if !clipboard.Unsupported {
		p.writeNative = clipboard.WriteAll
		p.readNative = clipboard.ReadAll
	}
	return p
}

// SetText copies text to the clipboard.
func (p *Provider) SetText(text string) error {
	if p.writeNative != nil {
		err := p.writeNative(text)
		if err == nil {
			return nil
		}
		p.logger.Debug("native clipboard write failed", slog.String("error", err.Error()))
	}

	for _, tool := range CopyTools {
		path, err := p.lookPath(tool.Name)
		if err != nil {
			continue
		}
		if _, err := p.exec(path, tool.Args, text); err != nil {
			return fmt.Errorf("clipboard: %s: %w", tool, err)
		}
		p.logger.Debug("copied with fallback tool", slog.String("tool", tool.Name))
		return nil
	}
	return ErrUnavailable
}

// ReadAll returns the clipboard text.
func (p *Provider) ReadAll() (string, error) {
	if p.readNative != nil {
		text, err := p.readNative()
		if err == nil {
			return text, nil
		}
		p.logger.Debug("native clipboard read failed", slog.String("error", err.Error()))
	}

	for _, tool := range PasteTools {
		path, err := p.lookPath(tool.Name)
		if err != nil {
			continue
		}
		out, err := p.exec(path, tool.Args, "")
		if err != nil {
			return "", fmt.Errorf("clipboard: %s: %w", tool, err)
		}
		return out, nil
	}
	return "", ErrUnavailable
}

func runTool(path string, args []string, stdin string) (string, error) {
	cmd := exec.Command(path, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return out.String(), nil
}
