package resolve

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/starford/markit/internal/models"
)

// Matcher selects the snippets whose names match a query.
type Matcher interface {
	Match(query string, snippets []models.Snippet) []models.Snippet
}

// Matcher names accepted by NewMatcher.
const (
	MatcherSubstring = "substring"
	MatcherFuzzy     = "fuzzy"
)

// NewMatcher returns the matcher registered under name. Empty selects substring.
func NewMatcher(name string) (Matcher, error) {
	switch strings.ToLower(name) {
	case "", MatcherSubstring:
		return Substring{}, nil
	case MatcherFuzzy:
		return Fuzzy{}, nil
	default:
		return nil, fmt.Errorf("resolve: unknown matcher %q", name)
	}
}

// Substring matches names containing the query, ignoring case, in store
// order. A full name still matches every longer name containing it.
type Substring struct{}

func (Substring) Match(query string, snippets []models.Snippet) []models.Snippet {
	q := strings.ToLower(query)
	out := []models.Snippet{}
	for _, sn := range snippets {
		if strings.Contains(strings.ToLower(sn.Name), q) {
			out = append(out, sn)
		}
	}
	return out
}

// Fuzzy ranks names by subsequence match quality, best first.
type Fuzzy struct{}

func (Fuzzy) Match(query string, snippets []models.Snippet) []models.Snippet {
	names := make([]string, len(snippets))
	for i, sn := range snippets {
		names[i] = sn.Name
	}
	out := []models.Snippet{}
	if query == "" {
		return append(out, snippets...)
	}
	for _, m := range fuzzy.Find(query, names) {
		out = append(out, snippets[m.Index])
	}
	return out
}

var (
	_ Matcher = Substring{}
	_ Matcher = Fuzzy{}
)
