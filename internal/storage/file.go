package storage

import (
	"os"
	"time"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

// YAMLFile reads and writes standalone store files for import and export.
type YAMLFile struct {
	Now func() time.Time
}

// ReadStore decodes the store file at path.
func (y YAMLFile) ReadStore(path string) (*models.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.IO("read "+path, err)
	}
	now := time.Now
	if y.Now != nil {
		now = y.Now
	}
	return Decode(data, now())
}

// WriteStore encodes store to path, creating parent directories.
func (y YAMLFile) WriteStore(path string, store *models.Store) error {
	data, err := Encode(store)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return apperr.IO("write "+path, err)
	}
	return nil
}
