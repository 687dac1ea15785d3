package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/markit/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
}

// Rebuild replaces the indexed snippets and records the checksum of the
// store they came from, all in one transaction.
func (db *DB) Rebuild(snippets []models.Snippet, storeChecksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM snippets`); err != nil {
		return fmt.Errorf("index: clear snippets: %w", err)
	}
	if err := ftsReset(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snippets (name, description, content, tags, executable, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sn := range snippets {
		tagsJSON, _ := json.Marshal(sn.Tags)
		if _, err := stmt.Exec(sn.Name, sn.Description, sn.Content, string(tagsJSON), sn.Executable, sn.CreatedAt, sn.UpdatedAt); err != nil {
			return fmt.Errorf("index: insert %q: %w", sn.Name, err)
		}
		if err := ftsInsert(tx, sn); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaStoreChecksum, storeChecksum); err != nil {
		return fmt.Errorf("index: store checksum: %w", err)
	}

	return tx.Commit()
}

// StoreChecksum returns the checksum recorded by the last Rebuild, or "" for a fresh index.
func (db *DB) StoreChecksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaStoreChecksum).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: read checksum: %w", err)
	}
	return cs, nil
}

// Count returns the number of indexed snippets.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM snippets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
