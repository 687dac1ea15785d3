//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM snippets_fts`).Scan(&count); err != nil {
		t.Fatalf("snippets_fts table missing: %v", err)
	}
}

func TestFTS5_SnippetHighlight(t *testing.T) {
	db := testDB(t)
	if err := db.Rebuild(sample(), "x"); err != nil {
		t.Fatal(err)
	}
	results, err := db.Search("postgres", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Name != "backup-db" {
		t.Fatalf("results = %+v", results)
	}
	if !strings.Contains(results[0].Snippet, "pg_dump") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestFTS5_QueryIsQuoted(t *testing.T) {
	if got := ftsQuery(`a-b "c"`); got != `"a-b" """c"""` {
		t.Errorf("ftsQuery = %s", got)
	}
	db := testDB(t)
	if _, err := db.Search(`AND OR (`, 10); err != nil {
		t.Errorf("operators in user input should not fail: %v", err)
	}
}
