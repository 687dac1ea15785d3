package internal

import (
	"io"

	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/snippetservice"
)

// Prompter asks every interactive question markit needs.
type Prompter interface {
	resolve.Selector
	snippetservice.Confirmer
	snippetservice.SaveInput
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	SetText(text string) error
	ReadAll() (string, error)
}

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	version   string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	prompter  Prompter
	clipboard Clipboard
}

// WithConfig sets the application configuration. It takes precedence
// over the config file and command line flags.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported by --version and the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithIO replaces the process streams. Nil values keep the default.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *application) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// WithPrompter replaces the terminal forms.
func WithPrompter(p Prompter) Option {
	return func(a *application) {
		a.prompter = p
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(a *application) {
		a.clipboard = c
	}
}
