package index

import "github.com/starford/markit/internal/models"

// SnippetIndex is the search side of the index. Consumers depend on it
// rather than on *DB.
type SnippetIndex interface {
	Rebuild(snippets []models.Snippet, storeChecksum string) error
	StoreChecksum() (string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Count() (int, error)
	Close() error
}

var _ SnippetIndex = (*DB)(nil)
