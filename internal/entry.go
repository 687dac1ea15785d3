// Package internal wires configuration, storage and the collaborators into
// the markit command line and MCP server.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/markit/internal/clipboard"
	"github.com/starford/markit/internal/editor"
	"github.com/starford/markit/internal/index"
	"github.com/starford/markit/internal/mcpserver"
	"github.com/starford/markit/internal/prompt"
	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/shell"
	"github.com/starford/markit/internal/snippetservice"
	"github.com/starford/markit/internal/storage"
)

// ErrIndexDisabled is returned by Search when the index is turned off.
var ErrIndexDisabled = errors.New("search index is disabled")

// App is one markit invocation.
type App struct {
	cfg       *Config
	version   string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
	store     *storage.FS
	matcher   resolve.Matcher
	clipboard Clipboard
	svc       *snippetservice.Service
}

// NewApp builds the application from opts. A config is required.
func NewApp(opts ...Option) (*App, error) {
	a := &application{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := newLogger(cfg.App, a.stderr)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded",
		slog.String("store_dir", cfg.Store.Dir),
		slog.Bool("index_enabled", cfg.Index.Enabled),
		slog.String("index_path", cfg.Index.Path),
		slog.String("matcher", cfg.Resolve.Matcher))

	store, err := storage.NewFS(cfg.Store.Dir,
		storage.WithFileName(cfg.Store.File),
		storage.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	matcher, err := resolve.NewMatcher(cfg.Resolve.Matcher)
	if err != nil {
		return nil, err
	}

	prompter := a.prompter
	if prompter == nil {
		prompter = &prompt.Huh{Accessible: os.Getenv("ACCESSIBLE") != ""}
	}
	clip := a.clipboard
	if clip == nil {
		clip = clipboard.New(logger)
	}

	runner := shell.New(cfg.Shell.Command)
	runner.Stdin, runner.Stdout, runner.Stderr = a.stdin, a.stdout, a.stderr

	ed := editor.New(editor.Resolve(cfg.Editor.Command))
	ed.Stdin, ed.Stdout, ed.Stderr = a.stdin, a.stdout, a.stderr

	files := storage.YAMLFile{}
	svc := snippetservice.New(store,
		snippetservice.WithResolver(resolve.New(matcher, prompter)),
		snippetservice.WithConfirmer(prompter),
		snippetservice.WithSaveInput(prompter),
		snippetservice.WithEditor(ed),
		snippetservice.WithRunner(runner),
		snippetservice.WithClipboard(clip),
		snippetservice.WithFiles(files, files),
		snippetservice.WithLogger(logger),
	)

	return &App{
		cfg:       cfg,
		version:   a.version,
		stdin:     a.stdin,
		stdout:    a.stdout,
		stderr:    a.stderr,
		logger:    logger,
		store:     store,
		matcher:   matcher,
		clipboard: clip,
		svc:       svc,
	}, nil
}

// newLogger writes to w so stdout stays free for command output and the
// MCP transport. Every record carries the invocation id.
func newLogger(cfg ApplicationConfig, w io.Writer) (*slog.Logger, error) {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler
	switch cfg.LogFormat {
	case LogFormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	default:
		h = slog.NewTextHandler(w, hopts)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("invocation id: %w", err)
	}
	return slog.New(h).With(slog.String("invocation", id.String())), nil
}

func (a *App) openIndex() (*index.DB, error) {
	if !a.cfg.Index.Enabled {
		return nil, ErrIndexDisabled
	}
	db, err := index.Open(a.cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	return db, nil
}

// Search brings the index up to date and queries it.
func (a *App) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	db, err := a.openIndex()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := index.Sync(db, a.store, a.logger); err != nil {
		return nil, err
	}
	return db.Search(query, limit)
}

// ServeMCP serves the MCP tools over the app's stdin and stdout until ctx
// is cancelled or stdin is closed. With the index enabled, a watcher keeps
// it in sync with edits made by other processes.
func (a *App) ServeMCP(ctx context.Context) error {
	var (
		db  *index.DB
		idx index.SnippetIndex
	)
	if a.cfg.Index.Enabled {
		var err error
		if db, err = a.openIndex(); err != nil {
			return err
		}
		defer db.Close()
		if _, err := index.Sync(db, a.store, a.logger); err != nil {
			a.logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		idx = db
	}

	// Nobody is there to pick among several matches.
	svc := snippetservice.New(a.store,
		snippetservice.WithResolver(resolve.New(a.matcher, nil)),
		snippetservice.WithLogger(a.logger),
	)
	srv := mcpserver.New(svc, idx, a.store, a.version, a.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if db != nil {
		g.Go(func() error {
			return index.Watch(gCtx, db, a.store, a.store.Path(), a.logger, nil)
		})
	}

	g.Go(func() error {
		defer cancel()
		a.logger.Info("MCP server listening on stdio")
		err := srv.Listen(gCtx, a.stdin, a.stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("mcp server stopped", slog.String("error", err.Error()))
		return err
	}
	a.logger.Info("MCP server stopped")
	return nil
}
