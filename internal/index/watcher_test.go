package index

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/storage"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ResyncsOnStoreWrite(t *testing.T) {
	db := testDB(t)
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var syncs int
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, db, fs, fs.Path(), quietLogger(), func(changed bool, err error) {
			mu.Lock()
			defer mu.Unlock()
			if changed && err == nil {
				syncs++
			}
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := fs.Save(models.New(models.Fields{Name: "watched", Content: "uniqueword"}, at)); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		res, _ := db.Search("uniqueword", 5)
		return len(res) == 1
	}, "store write not picked up by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return syncs >= 1
	}, "expected a sync callback")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	db := testDB(t)
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	go Watch(ctx, db, fs, fs.Path(), quietLogger(), func(bool, error) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	// A backup snapshot lands in a subdirectory and the temp file is renamed
	// away; neither is the store file itself.
	if _, err := fs.BackupManager().Snapshot([]byte("snippets: []\n")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * debounce)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("unexpected syncs: %d", calls)
	}
}
