package snippetservice

import (
	"context"

	"github.com/starford/markit/internal/models"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Ask(ctx context.Context, message string) (bool, error)
}

// Editor lets the user change a snippet's editable fields.
type Editor interface {
	Edit(ctx context.Context, f models.Fields) (models.Fields, error)
}

// Runner executes snippet content as a shell command and returns its exit status.
type Runner interface {
	Run(ctx context.Context, text string) (int, error)
}

// Clipboard receives copied content.
type Clipboard interface {
	SetText(text string) error
}

// StoreReader reads a standalone store file for import.
type StoreReader interface {
	ReadStore(path string) (*models.Store, error)
}

// StoreWriter writes a standalone store file for export.
type StoreWriter interface {
	WriteStore(path string, store *models.Store) error
}

// SaveInput prompts for the fields of a new snippet that were not supplied up front.
type SaveInput interface {
	Description(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	Executable(ctx context.Context) (bool, error)
	Tags(ctx context.Context) ([]string, error)
}

// Given marks which save fields the caller already supplied.
type Given uint8

const (
	GivenDescription Given = 1 << iota
	GivenContent
	GivenExecutable
	GivenTags
)

// Has reports whether every field in mask is set in g.
func (g Given) Has(mask Given) bool {
	return g&mask == mask
}
