package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

// DefaultFileName is the backing file name inside the store directory.
const DefaultFileName = "bookmarks.yml"

// FS implements Provider with a single YAML file and a sibling backups directory.
type FS struct {
	dir     string
	file    string
	now     func() time.Time
	logger  *slog.Logger
	backups *BackupManager
}

// FSOption configures an FS provider.
type FSOption func(*FS)

// WithClock overrides the clock used for backup names and timestamp defaults.
func WithClock(now func() time.Time) FSOption {
	return func(f *FS) {
		if now != nil {
			f.now = now
		}
	}
}

// WithFileName overrides the backing file name.
func WithFileName(name string) FSOption {
	return func(f *FS) {
		if name != "" {
			f.file = name
		}
	}
}

// WithLogger sets the logger used for write diagnostics.
func WithLogger(logger *slog.Logger) FSOption {
	return func(f *FS) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFS creates a provider rooted at dir. The directory is created when missing.
func NewFS(dir string, opts ...FSOption) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperr.IO("storage: create dir", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperr.IO("storage: stat dir", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: not a directory: %s", abs)
	}

	f := &FS{
		dir:    abs,
		file:   DefaultFileName,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.backups = NewBackupManager(filepath.Join(abs, "backups"), f.now)
	return f, nil
}

// Path returns the backing file path.
func (f *FS) Path() string {
	return filepath.Join(f.dir, f.file)
}

// Dir returns the store directory.
func (f *FS) Dir() string {
	return f.dir
}

// BackupManager exposes the backup manager owned by f.
func (f *FS) BackupManager() *BackupManager {
	return f.backups
}

// Load reads and decodes the backing file.
func (f *FS) Load() (*models.Store, error) {
	data, err := f.readCurrent()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &models.Store{Snippets: []models.Snippet{}}, nil
	}
	return Decode(data, f.now())
}

// Save appends snippet to the persisted store.
func (f *FS) Save(snippet models.Snippet) error {
	store, err := f.Load()
	if err != nil {
		return err
	}
	store.Append(snippet)
	return f.SaveAll(store)
}

// SaveAll snapshots the current file, then atomically replaces it with store.
func (f *FS) SaveAll(store *models.Store) error {
	encoded, err := Encode(store)
	if err != nil {
		return err
	}
	return f.replace(encoded, "save")
}

// Backups lists the snapshots, most recent first.
func (f *FS) Backups() ([]Backup, error) {
	return f.backups.List()
}

// RestoreBackup copies a backup verbatim over the backing file. The state
// being replaced is snapshotted first, so a restore can itself be undone.
func (f *FS) RestoreBackup(id string) error {
	data, err := f.backups.Read(id)
	if err != nil {
		return err
	}
	return f.replace(data, "restore "+id)
}

// replace is the single write path: backup of the current bytes, then an
// atomic write of content. A failed backup leaves the file untouched.
func (f *FS) replace(content []byte, op string) error {
	current, err := f.readCurrent()
	if err != nil {
		return err
	}
	if current == nil {
		if current, err = Encode(nil); err != nil {
			return err
		}
	}

	b, err := f.backups.Snapshot(current)
	if err != nil {
		return err
	}
	if err := writeAtomic(f.Path(), content); err != nil {
		f.logger.Error("store write failed",
			slog.String("op", op),
			slog.String("path", f.Path()),
			slog.String("error", err.Error()))
		return apperr.IO("storage: write store", err)
	}
	f.logger.Debug("store written",
		slog.String("op", op),
		slog.String("path", f.Path()),
		slog.String("backup", b.ID))
	return nil
}

// readCurrent returns the raw backing file, or nil when it does not exist.
func (f *FS) readCurrent() ([]byte, error) {
	data, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.IO("storage: read store", err)
	}
	return data, nil
}
