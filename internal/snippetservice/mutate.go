package snippetservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

// ImportResult lists the names appended and skipped by an import.
type ImportResult struct {
	Added   []string
	Skipped []string
}

// CheckName fails with apperr.ErrDuplicateName when name is taken, ignoring case.
// It lets callers reject a duplicate before prompting for the other fields.
func (s *Service) CheckName(ctx context.Context, name string) error {
	store, err := s.Store(ctx)
	if err != nil {
		return err
	}
	if store.HasName(strings.TrimSpace(name)) {
		return fmt.Errorf("%q: %w", name, apperr.ErrDuplicateName)
	}
	return nil
}

// Fill prompts for every field not marked in given.
func (s *Service) Fill(ctx context.Context, f models.Fields, given Given) (models.Fields, error) {
	if given.Has(GivenDescription | GivenContent | GivenExecutable | GivenTags) {
		return f, nil
	}
	if s.input == nil {
		return f, missing("save input")
	}

	var err error
	if !given.Has(GivenDescription) {
		if f.Description, err = s.input.Description(ctx); err != nil {
			return f, err
		}
	}
	if !given.Has(GivenContent) {
		if f.Content, err = s.input.Content(ctx); err != nil {
			return f, err
		}
	}
	if !given.Has(GivenExecutable) {
		if f.Executable, err = s.input.Executable(ctx); err != nil {
			return f, err
		}
	}
	if !given.Has(GivenTags) {
		if f.Tags, err = s.input.Tags(ctx); err != nil {
			return f, err
		}
	}
	return f, nil
}

// Save validates f and appends it as a new snippet.
func (s *Service) Save(ctx context.Context, f models.Fields) (models.Snippet, error) {
	if err := f.Validate(); err != nil {
		return models.Snippet{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	store, err := s.Store(ctx)
	if err != nil {
		return models.Snippet{}, err
	}
	sn := models.New(f, s.now())
	if store.HasName(sn.Name) {
		return models.Snippet{}, fmt.Errorf("%q: %w", sn.Name, apperr.ErrDuplicateName)
	}
	if err := s.commit(ctx, "save", store.Len()+1, func() error { return s.store.Save(sn) }); err != nil {
		return models.Snippet{}, err
	}
	return sn, nil
}

// Edit resolves query, lets the editor change the snippet and replaces it
// in place. A new name colliding with another snippet is rejected.
func (s *Service) Edit(ctx context.Context, query string) (models.Snippet, error) {
	if s.editor == nil {
		return models.Snippet{}, missing("editor")
	}
	store, err := s.Store(ctx)
	if err != nil {
		return models.Snippet{}, err
	}
	target, err := s.resolver.Get(ctx, store, query)
	if err != nil {
		return models.Snippet{}, err
	}

	edited, err := s.editor.Edit(ctx, target.Fields())
	if err != nil {
		return models.Snippet{}, fmt.Errorf("edit %q: %w", target.Name, err)
	}
	if err := edited.Validate(); err != nil {
		return models.Snippet{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	updated := target.Apply(edited, s.now())
	if store.HasNameExcept(updated.Name, target.Name) {
		return models.Snippet{}, fmt.Errorf("%q: %w", updated.Name, apperr.ErrDuplicateName)
	}

	next := store.Clone()
	next.Snippets[next.IndexOf(target.Name)] = updated
	if err := s.persist(ctx, "edit", next); err != nil {
		return models.Snippet{}, err
	}
	return updated, nil
}

// Delete resolves query and removes it. Without force the Confirmer is
// asked first; declining is apperr.ErrSelectionCancelled.
func (s *Service) Delete(ctx context.Context, query string, force bool) (models.Snippet, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return models.Snippet{}, err
	}
	target, err := s.resolver.Get(ctx, store, query)
	if err != nil {
		return models.Snippet{}, err
	}

	if !force {
		if s.confirm == nil {
			return models.Snippet{}, missing("confirmer")
		}
		ok, err := s.confirm.Ask(ctx, fmt.Sprintf("Delete snippet %q?", target.Name))
		if err != nil {
			return models.Snippet{}, err
		}
		if !ok {
			return models.Snippet{}, fmt.Errorf("delete %q: %w", target.Name, apperr.ErrSelectionCancelled)
		}
	}

	next := store.Clone()
	next.Remove(target.Name)
	if err := s.persist(ctx, "delete", next); err != nil {
		return models.Snippet{}, err
	}
	return target, nil
}

// Import appends the snippets of the store file at path whose names are
// not present yet, ignoring case. Existing snippets are never modified.
// When nothing is new the store is not rewritten.
func (s *Service) Import(ctx context.Context, path string) (ImportResult, error) {
	res := ImportResult{Added: []string{}, Skipped: []string{}}
	if s.reader == nil {
		return res, missing("import reader")
	}
	incoming, err := s.reader.ReadStore(path)
	if err != nil {
		return res, err
	}
	store, err := s.Store(ctx)
	if err != nil {
		return res, err
	}

	next := store.Clone()
	for _, sn := range incoming.Snippets {
		sn.Name = strings.TrimSpace(sn.Name)
		if err := sn.Fields().Validate(); err != nil || next.HasName(sn.Name) {
			res.Skipped = append(res.Skipped, sn.Name)
			continue
		}
		sn.Tags = models.NormalizeTags(sn.Tags)
		next.Append(sn)
		res.Added = append(res.Added, sn.Name)
	}
	next.Normalize(s.now())

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := s.persist(ctx, "import", next); err != nil {
		return ImportResult{Added: []string{}, Skipped: []string{}}, err
	}
	return res, nil
}

// Restore replaces the store with the backup id. An empty id lets the
// resolver's Selector choose among the existing backups.
func (s *Service) Restore(ctx context.Context, id string) (string, error) {
	if id == "" {
		backups, err := s.store.Backups()
		if err != nil {
			return "", err
		}
		if len(backups) == 0 {
			return "", fmt.Errorf("backups: %w", apperr.ErrNotFound)
		}
		if s.resolver.Selector == nil {
			return "", fmt.Errorf("restore needs a backup id: %w", apperr.ErrAmbiguous)
		}
		labels := make([]string, len(backups))
		for i, b := range backups {
			labels[i] = b.ID
		}
		idx, err := s.resolver.Selector.ChooseIndex(ctx, "Restore which backup?", labels)
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(backups) {
			return "", fmt.Errorf("backup index %d: %w", idx, apperr.ErrNotFound)
		}
		id = backups[idx].ID
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.store.RestoreBackup(id); err != nil {
		return "", err
	}
	s.logger.Info("backup restored", slog.String("id", id))
	return id, nil
}
