package snippetservice

import (
	"context"
	"errors"

	"github.com/starford/markit/internal/models"
)

type fakeConfirmer struct {
	answer bool
	calls  int
}

func (f *fakeConfirmer) Ask(context.Context, string) (bool, error) {
	f.calls++
	return f.answer, nil
}

type fakeEditor struct {
	edit func(models.Fields) (models.Fields, error)
	seen models.Fields
}

func (f *fakeEditor) Edit(_ context.Context, in models.Fields) (models.Fields, error) {
	f.seen = in
	return f.edit(in)
}

type fakeRunner struct {
	code int
	ran  []string
}

func (f *fakeRunner) Run(_ context.Context, text string) (int, error) {
	f.ran = append(f.ran, text)
	return f.code, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) SetText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeSelector struct {
	pick  int
	err   error
	calls int
}

func (f *fakeSelector) ChooseOne(_ context.Context, c []models.Snippet) (models.Snippet, error) {
	f.calls++
	if f.err != nil {
		return models.Snippet{}, f.err
	}
	return c[f.pick], nil
}

func (f *fakeSelector) ChooseIndex(context.Context, string, []string) (int, error) {
	f.calls++
	return f.pick, f.err
}

type fakeInput struct {
	asked []string
}

func (f *fakeInput) Description(context.Context) (string, error) {
	f.asked = append(f.asked, "description")
	return "typed description", nil
}

func (f *fakeInput) Content(context.Context) (string, error) {
	f.asked = append(f.asked, "content")
	return "typed content", nil
}

func (f *fakeInput) Executable(context.Context) (bool, error) {
	f.asked = append(f.asked, "executable")
	return true, nil
}

func (f *fakeInput) Tags(context.Context) ([]string, error) {
	f.asked = append(f.asked, "tags")
	return []string{"typed"}, nil
}

type memFiles struct {
	stores  map[string]*models.Store
	readErr error
}

func (m *memFiles) ReadStore(path string) (*models.Store, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	st, ok := m.stores[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return st.Clone(), nil
}

func (m *memFiles) WriteStore(path string, st *models.Store) error {
	if m.stores == nil {
		m.stores = map[string]*models.Store{}
	}
	m.stores[path] = st.Clone()
	return nil
}
