package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/storage"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Index   IndexConfig       `yaml:"index"`
	Resolve ResolveConfig     `yaml:"resolve"`
	Editor  EditorConfig      `yaml:"editor"`
	Shell   ShellConfig       `yaml:"shell"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if err := c.Resolve.Validate(); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// StoreConfig locates the snippet store. Backups live in Dir/backups.
type StoreConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.File, validation.By(func(v interface{}) error {
			name, _ := v.(string)
			if name != "" && filepath.Base(name) != name {
				return fmt.Errorf("must be a file name, not a path")
			}
			return nil
		})),
	)
}

// IndexConfig holds the search index configuration.
type IndexConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

// ResolveConfig selects how name queries are matched.
type ResolveConfig struct {
	Matcher string `yaml:"matcher"`
}

// Validate validates the resolve configuration.
func (c *ResolveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Matcher, validation.In(resolve.MatcherSubstring, resolve.MatcherFuzzy)),
	)
}

// EditorConfig names the editor command. Empty falls back to $VISUAL and $EDITOR.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// ShellConfig names the shell used to run snippets. Empty falls back to $SHELL.
type ShellConfig struct {
	Command string `yaml:"command"`
}

// NewDefaultConfig returns a Config rooted at dir.
func NewDefaultConfig(dir string) *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelWarn,
			LogFormat: LogFormatText,
		},
		Store: StoreConfig{
			Dir:  dir,
			File: storage.DefaultFileName,
		},
		Index: IndexConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "index.db"),
		},
		Resolve: ResolveConfig{
			Matcher: resolve.MatcherSubstring,
		},
	}
}
