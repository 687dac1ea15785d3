// Package snippetservice runs every markit command against the store:
// load, resolve or validate, back up, write, report. A failure before the
// write leaves the store and its backups untouched.
package snippetservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/storage"
)

var errMissingCollaborator = errors.New("collaborator not configured")

// Service coordinates storage, resolution and the external collaborators.
type Service struct {
	store     storage.Provider
	resolver  *resolve.Resolver
	confirm   Confirmer
	editor    Editor
	runner    Runner
	clipboard Clipboard
	reader    StoreReader
	writer    StoreWriter
	input     SaveInput
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithResolver sets the name resolver. The default resolves by substring
// and reports ambiguity as an error.
func WithResolver(r *resolve.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithConfirmer sets the delete confirmation prompt.
func WithConfirmer(c Confirmer) Option { return func(s *Service) { s.confirm = c } }

// WithEditor sets the editor used by Edit.
func WithEditor(e Editor) Option { return func(s *Service) { s.editor = e } }

// WithRunner sets the command runner used by Run.
func WithRunner(r Runner) Option { return func(s *Service) { s.runner = r } }

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(c Clipboard) Option { return func(s *Service) { s.clipboard = c } }

// WithFiles sets the import reader and export writer.
func WithFiles(r StoreReader, w StoreWriter) Option {
	return func(s *Service) {
		s.reader = r
		s.writer = w
	}
}

// WithSaveInput sets the prompts used by Fill.
func WithSaveInput(in SaveInput) Option { return func(s *Service) { s.input = in } }

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a service over store.
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: resolve.New(nil, nil),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the loaded store. Load failures are returned as is: a
// corrupt file is never treated as empty.
func (s *Service) Store(_ context.Context) (*models.Store, error) {
	return s.store.Load()
}

// Path returns the backing file path.
func (s *Service) Path() string {
	return s.store.Path()
}

// persist replaces the whole store.
func (s *Service) persist(ctx context.Context, op string, store *models.Store) error {
	return s.commit(ctx, op, store.Len(), func() error { return s.store.SaveAll(store) })
}

// commit runs one provider write and logs its outcome. size is the
// snippet count after the write.
func (s *Service) commit(ctx context.Context, op string, size int, write func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := write(); err != nil {
		s.logger.Error("persist failed", slog.String("op", op), slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("store updated", slog.String("op", op), slog.Int("snippets", size))
	return nil
}

func missing(what string) error {
	return fmt.Errorf("snippetservice: %s: %w", what, errMissingCollaborator)
}
