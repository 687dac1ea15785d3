// Package storage persists the snippet store and its backups on the local file system.
package storage

import (
	"time"

	"github.com/starford/markit/internal/models"
)

// Provider is the interface for store persistence.
type Provider interface {
	// Load reads the backing file. A missing file yields an empty store.
	Load() (*models.Store, error)
	// Save appends snippet to the persisted store.
	Save(snippet models.Snippet) error
	// SaveAll backs up the current file and replaces it with store.
	SaveAll(store *models.Store) error
	// Backups lists backups, most recent first.
	Backups() ([]Backup, error)
	// RestoreBackup copies the backup identified by id over the backing file.
	RestoreBackup(id string) error
	// Path returns the backing file path.
	Path() string
}

// Backup describes one snapshot file.
type Backup struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

var _ Provider = (*FS)(nil)
