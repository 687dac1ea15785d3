package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/markit/internal/apperr"
)

const (
	backupExt = ".yml"
	// backupLayout keeps lexical and chronological order identical:
	// fixed width, most significant field first, always UTC.
	backupLayout = "2006-01-02T15-04-05.000000000Z"
)

// BackupManager owns the backups directory. Every snapshot is a full copy
// of the serialized store taken before a mutating write. Nothing is pruned.
type BackupManager struct {
	dir string
	now func() time.Time
}

// NewBackupManager creates a manager for dir. The directory is created on
// the first snapshot.
func NewBackupManager(dir string, now func() time.Time) *BackupManager {
	if now == nil {
		now = time.Now
	}
	return &BackupManager{dir: dir, now: now}
}

// Dir returns the backups directory.
func (m *BackupManager) Dir() string {
	return m.dir
}

// Snapshot writes data to a new backup file named after the current time.
// When the name is taken the timestamp advances by a nanosecond, so every
// call produces exactly one new file and names never go backwards.
func (m *BackupManager) Snapshot(data []byte) (Backup, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Backup{}, apperr.IO("storage: create backup dir", err)
	}

	ts := m.now().UTC()
	for {
		id := ts.Format(backupLayout) + backupExt
		path := filepath.Join(m.dir, id)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			ts = ts.Add(time.Nanosecond)
			continue
		}
		if err != nil {
			return Backup{}, apperr.IO("storage: create backup", err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return Backup{}, apperr.IO("storage: write backup", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return Backup{}, apperr.IO("storage: close backup", err)
		}
		return Backup{ID: id, Path: path, CreatedAt: ts, Size: int64(len(data))}, nil
	}
}

// List returns backups sorted most recent first. A missing directory means
// no backups; a directory that cannot be listed is an error.
func (m *BackupManager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Backup{}, nil
	}
	if err != nil {
		return nil, apperr.IO("storage: list backups", err)
	}

	out := make([]Backup, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != backupExt {
			continue
		}
		// Only snapshot names; other files in the directory are not backups.
		ts, err := parseBackupTime(e.Name())
		if err != nil {
			continue
		}
		b := Backup{ID: e.Name(), Path: filepath.Join(m.dir, e.Name()), CreatedAt: ts}
		if info, err := e.Info(); err == nil {
			b.Size = info.Size()
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Read returns the bytes of the backup identified by id.
func (m *BackupManager) Read(id string) ([]byte, error) {
	path, err := m.resolve(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("backup %q: %w", id, apperr.ErrNotFound)
		}
		return nil, apperr.IO("storage: read backup", err)
	}
	return data, nil
}

// resolve maps a backup id to its path, rejecting anything that is not a
// plain backup file name inside the backups directory.
func (m *BackupManager) resolve(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("storage: invalid backup id %q", id)
	}
	if filepath.Ext(id) != backupExt {
		return "", fmt.Errorf("storage: invalid backup id %q", id)
	}
	if _, err := parseBackupTime(id); err != nil {
		return "", fmt.Errorf("storage: invalid backup id %q", id)
	}
	return filepath.Join(m.dir, id), nil
}

func parseBackupTime(name string) (time.Time, error) {
	return time.Parse(backupLayout, strings.TrimSuffix(name, backupExt))
}
