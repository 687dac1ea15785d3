package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		sn   models.Snippet
		want string
	}{
		{models.Snippet{Name: "a"}, "a"},
		{models.Snippet{Name: "a", Description: "does a"}, "a - does a"},
		{models.Snippet{Name: "a", Tags: []string{"x", "y"}}, "a [x, y]"},
		{models.Snippet{Name: "a", Description: "d", Tags: []string{"x"}}, "a - d [x]"},
	}
	for _, tt := range tests {
		if got := Label(tt.sn); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.sn, got, tt.want)
		}
	}
}

func TestMapErr(t *testing.T) {
	if err := mapErr(huh.ErrUserAborted); !errors.Is(err, apperr.ErrSelectionCancelled) {
		t.Errorf("aborted: %v", err)
	}
	other := errors.New("tty")
	if err := mapErr(other); err != other {
		t.Errorf("other: %v", err)
	}
	if err := mapErr(nil); err != nil {
		t.Errorf("nil: %v", err)
	}
}

func TestChooseIndexEmpty(t *testing.T) {
	h := &Huh{}
	if _, err := h.ChooseIndex(context.Background(), "pick", nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
