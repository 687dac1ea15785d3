package storage

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

// Encode serializes store as YAML.
func Encode(store *models.Store) ([]byte, error) {
	if store == nil {
		store = &models.Store{}
	}
	if store.Snippets == nil {
		store = &models.Store{Snippets: []models.Snippet{}}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(store); err != nil {
		return nil, apperr.Parse("encode store", err)
	}
	if err := enc.Close(); err != nil {
		return nil, apperr.Parse("encode store", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML store and fills timestamps missing from older
// records with now. An empty document is an empty store.
func Decode(data []byte, now time.Time) (*models.Store, error) {
	store := &models.Store{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, store); err != nil {
			return nil, apperr.Parse("decode store", err)
		}
	}
	if store.Snippets == nil {
		store.Snippets = []models.Snippet{}
	}
	store.Normalize(now)
	return store, nil
}
