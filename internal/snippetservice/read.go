package snippetservice

import (
	"context"
	"fmt"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/storage"
)

// ListOptions narrows List. Empty fields do not filter.
type ListOptions struct {
	Tag   string
	Where string
}

// List returns snippets in store order. A tag with no matching snippet is
// apperr.ErrNotFound; an empty store is an empty list.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Snippet, error) {
	var filter *resolve.Filter
	if opts.Where != "" {
		f, err := resolve.CompileFilter(opts.Where)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}

	out := store.Snippets
	if opts.Tag != "" {
		out = resolve.ByTag(store, opts.Tag)
		if len(out) == 0 {
			return nil, fmt.Errorf("tag %q: %w", opts.Tag, apperr.ErrNotFound)
		}
	}
	if filter != nil {
		if out, err = filter.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Find returns every snippet whose name matches query.
func (s *Service) Find(ctx context.Context, query string) ([]models.Snippet, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	out := s.resolver.Find(store, query)
	if len(out) == 0 {
		return nil, fmt.Errorf("%q: %w", query, apperr.ErrNotFound)
	}
	return out, nil
}

// Show resolves query to a single snippet.
func (s *Service) Show(ctx context.Context, query string) (models.Snippet, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return models.Snippet{}, err
	}
	return s.resolver.Get(ctx, store, query)
}

// Run resolves query and executes its content. Only snippets flagged
// executable run. The exit status of the command is returned.
func (s *Service) Run(ctx context.Context, query string) (models.Snippet, int, error) {
	if s.runner == nil {
		return models.Snippet{}, 0, missing("runner")
	}
	sn, err := s.Show(ctx, query)
	if err != nil {
		return models.Snippet{}, 0, err
	}
	if !sn.Executable {
		return sn, 0, fmt.Errorf("%q: %w", sn.Name, apperr.ErrNotExecutable)
	}
	code, err := s.runner.Run(ctx, sn.Content)
	if err != nil {
		return sn, code, fmt.Errorf("run %q: %w", sn.Name, err)
	}
	return sn, code, nil
}

// Copy resolves query and puts its content on the clipboard.
func (s *Service) Copy(ctx context.Context, query string) (models.Snippet, error) {
	if s.clipboard == nil {
		return models.Snippet{}, missing("clipboard")
	}
	sn, err := s.Show(ctx, query)
	if err != nil {
		return models.Snippet{}, err
	}
	if err := s.clipboard.SetText(sn.Content); err != nil {
		return sn, fmt.Errorf("copy %q: %w", sn.Name, err)
	}
	return sn, nil
}

// Export writes the store, unmodified, to path and returns the number of snippets.
func (s *Service) Export(ctx context.Context, path string) (int, error) {
	if s.writer == nil {
		return 0, missing("export writer")
	}
	store, err := s.Store(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.writer.WriteStore(path, store); err != nil {
		return 0, err
	}
	return store.Len(), nil
}

// Backups lists backups, most recent first.
func (s *Service) Backups(_ context.Context) ([]storage.Backup, error) {
	return s.store.Backups()
}
