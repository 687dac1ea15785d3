//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/markit/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the snippets table.
	return nil
}

func ftsReset(_ *sql.Tx) error { return nil }

func ftsInsert(_ *sql.Tx, _ models.Snippet) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
// Every whitespace-separated term must appear in one of the text columns.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}

	var (
		where []string
		args  []any
	)
	for _, t := range terms {
		like := "%" + escapeLike(t) + "%"
		where = append(where, `(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}
	args = append(args, limit)

	rows, err := db.conn.Query(`
		SELECT name, description, substr(content, 1, 120)
		FROM snippets
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY name COLLATE NOCASE
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Name, &r.Description, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
