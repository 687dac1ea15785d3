// Package resolve turns user queries into snippets: tag filters, name
// matchers, expression filters and disambiguation of several candidates.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

// Selector asks the user to pick one of several candidates.
// Implementations return apperr.ErrSelectionCancelled when the user declines.
type Selector interface {
	ChooseOne(ctx context.Context, candidates []models.Snippet) (models.Snippet, error)
	ChooseIndex(ctx context.Context, title string, labels []string) (int, error)
}

// ByTag returns every snippet carrying tag, compared case-insensitively, in store order.
func ByTag(store *models.Store, tag string) []models.Snippet {
	out := []models.Snippet{}
	if store == nil {
		return out
	}
	for _, sn := range store.Snippets {
		if sn.HasTag(tag) {
			out = append(out, sn)
		}
	}
	return out
}

// Resolver maps a name query to exactly one snippet.
type Resolver struct {
	Matcher  Matcher
	Selector Selector
}

// New returns a resolver using m, or the substring matcher when m is nil.
func New(m Matcher, sel Selector) *Resolver {
	if m == nil {
		m = Substring{}
	}
	return &Resolver{Matcher: m, Selector: sel}
}

// Find returns every snippet whose name matches query.
func (r *Resolver) Find(store *models.Store, query string) []models.Snippet {
	if store == nil {
		return []models.Snippet{}
	}
	return r.matcher().Match(query, store.Snippets)
}

// Get resolves query to one snippet. No match is apperr.ErrNotFound; a
// single match is returned without interaction; several go to the
// Selector, or fail with apperr.ErrAmbiguous when there is none.
func (r *Resolver) Get(ctx context.Context, store *models.Store, query string) (models.Snippet, error) {
	matches := r.Find(store, query)
	switch len(matches) {
	case 0:
		return models.Snippet{}, fmt.Errorf("%q: %w", query, apperr.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	if r.Selector == nil {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return models.Snippet{}, fmt.Errorf("%q matches %s: %w", query, strings.Join(names, ", "), apperr.ErrAmbiguous)
	}
	return r.Selector.ChooseOne(ctx, matches)
}

func (r *Resolver) matcher() Matcher {
	if r.Matcher == nil {
		return Substring{}
	}
	return r.Matcher
}
