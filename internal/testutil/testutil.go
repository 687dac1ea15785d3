// Package testutil provides shared test helpers for stores, clocks and index databases.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/markit/internal/index"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/storage"
)

// Epoch is the first instant handed out by NewClock.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a deterministic time source that advances one second per call.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

// NewClock returns a clock starting at Epoch.
func NewClock() *Clock {
	return &Clock{cur: Epoch}
}

// Now advances the clock and returns the new instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// TestDB creates a temporary SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a store in a temporary directory, seeded with snippets.
func TestStore(t *testing.T, clock *Clock, seed ...models.Snippet) *storage.FS {
	t.Helper()
	if clock == nil {
		clock = NewClock()
	}
	fs, err := storage.NewFS(t.TempDir(), storage.WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	if len(seed) > 0 {
		data, err := storage.Encode(&models.Store{Snippets: seed})
		if err != nil {
			t.Fatal(err)
		}
		// Seeded directly so the fixture starts without backups.
		if err := os.WriteFile(fs.Path(), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// Snippet builds a snippet stamped at Epoch.
func Snippet(name string, tags ...string) models.Snippet {
	return models.New(models.Fields{
		Name:        name,
		Description: "about " + name,
		Content:     "echo " + name,
		Tags:        tags,
	}, Epoch)
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
