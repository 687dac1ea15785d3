// Package prompt implements the interactive collaborators on charmbracelet/huh.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/snippetservice"
)

// Huh asks questions with terminal forms. Accessible switches to plain
// line-based prompts for screen readers and dumb terminals.
type Huh struct {
	Accessible bool
}

var (
	_ resolve.Selector         = (*Huh)(nil)
	_ snippetservice.Confirmer = (*Huh)(nil)
	_ snippetservice.SaveInput = (*Huh)(nil)
)

func (h *Huh) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(h.Accessible)
	return mapErr(form.RunWithContext(ctx))
}

// mapErr turns an aborted form into apperr.ErrSelectionCancelled.
func mapErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("prompt: %w", apperr.ErrSelectionCancelled)
	}
	return err
}

// ChooseOne lets the user pick a snippet.
func (h *Huh) ChooseOne(ctx context.Context, candidates []models.Snippet) (models.Snippet, error) {
	labels := make([]string, len(candidates))
	for i, sn := range candidates {
		labels[i] = Label(sn)
	}
	idx, err := h.ChooseIndex(ctx, fmt.Sprintf("%d snippets match, pick one", len(candidates)), labels)
	if err != nil {
		return models.Snippet{}, err
	}
	return candidates[idx], nil
}

// ChooseIndex lets the user pick one of labels and returns its position.
func (h *Huh) ChooseIndex(ctx context.Context, title string, labels []string) (int, error) {
	if len(labels) == 0 {
		return -1, fmt.Errorf("prompt: nothing to choose from: %w", apperr.ErrNotFound)
	}
	opts := make([]huh.Option[int], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, i)
	}
	idx := 0
	sel := huh.NewSelect[int]().Title(title).Options(opts...).Value(&idx)
	if err := h.run(ctx, sel); err != nil {
		return -1, err
	}
	return idx, nil
}

// Ask asks a yes/no question. The default answer is no.
func (h *Huh) Ask(ctx context.Context, message string) (bool, error) {
	ok := false
	c := huh.NewConfirm().Title(message).Affirmative("Yes").Negative("No").Value(&ok)
	if err := h.run(ctx, c); err != nil {
		return false, err
	}
	return ok, nil
}

// Description prompts for a one-line description.
func (h *Huh) Description(ctx context.Context) (string, error) {
	var s string
	if err := h.run(ctx, huh.NewInput().Title("Description").Value(&s)); err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Content prompts for the snippet body.
func (h *Huh) Content(ctx context.Context) (string, error) {
	var s string
	field := huh.NewText().
		Title("Content").
		Description("The command or text to store").
		Lines(8).
		Value(&s)
	if err := h.run(ctx, field); err != nil {
		return "", err
	}
	return s, nil
}

// Executable asks whether the snippet is a runnable command.
func (h *Huh) Executable(ctx context.Context) (bool, error) {
	return h.Ask(ctx, "Executable?")
}

// Tags prompts for a comma-separated tag list.
func (h *Huh) Tags(ctx context.Context) ([]string, error) {
	var s string
	if err := h.run(ctx, huh.NewInput().Title("Tags").Placeholder("comma-separated, optional").Value(&s)); err != nil {
		return nil, err
	}
	return models.ParseTags(s), nil
}

// Label is the one-line representation of a snippet in pickers.
func Label(sn models.Snippet) string {
	var b strings.Builder
	b.WriteString(sn.Name)
	if sn.Description != "" {
		b.WriteString(" - ")
		b.WriteString(sn.Description)
	}
	if len(sn.Tags) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(sn.Tags, ", "))
	}
	return b.String()
}
