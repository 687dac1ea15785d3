package index

import (
	"log/slog"

	"github.com/starford/markit/internal/checksum"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/storage"
)

// Loader is the part of the store the index reads from.
type Loader interface {
	Load() (*models.Store, error)
}

// Sync brings the index up to date with the store. The index is rebuilt
// only when the checksum of the encoded store differs from the recorded
// one. It reports whether a rebuild happened.
func Sync(db SnippetIndex, store Loader, logger *slog.Logger) (bool, error) {
	st, err := store.Load()
	if err != nil {
		return false, err
	}
	encoded, err := storage.Encode(st)
	if err != nil {
		return false, err
	}
	sum := checksum.Sum(encoded)

	prev, err := db.StoreChecksum()
	if err != nil {
		return false, err
	}
	if prev == sum {
		logger.Debug("sync: up to date", slog.String("checksum", checksum.Short(sum)))
		return false, nil
	}

	if err := db.Rebuild(st.Snippets, sum); err != nil {
		logger.Warn("sync: rebuild failed", slog.String("error", err.Error()))
		return false, err
	}
	logger.Debug("sync: rebuilt",
		slog.Int("snippets", st.Len()),
		slog.String("checksum", checksum.Short(sum)))
	return true, nil
}
