package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

var created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func store(names ...string) *models.Store {
	st := &models.Store{Snippets: []models.Snippet{}}
	for _, n := range names {
		st.Append(models.New(models.Fields{Name: n, Content: n}, created))
	}
	return st
}

type fakeSelector struct {
	pick   int
	err    error
	called int
	seen   []string
}

func (f *fakeSelector) ChooseOne(_ context.Context, c []models.Snippet) (models.Snippet, error) {
	f.called++
	for _, sn := range c {
		f.seen = append(f.seen, sn.Name)
	}
	if f.err != nil {
		return models.Snippet{}, f.err
	}
	return c[f.pick], nil
}

func (f *fakeSelector) ChooseIndex(context.Context, string, []string) (int, error) {
	f.called++
	return f.pick, f.err
}

func TestByTag(t *testing.T) {
	st := &models.Store{Snippets: []models.Snippet{
		models.New(models.Fields{Name: "a", Tags: []string{"Prod"}}, created),
		models.New(models.Fields{Name: "b", Tags: []string{"dev"}}, created),
		models.New(models.Fields{Name: "c", Tags: []string{"dev", "prod"}}, created),
	}}

	got := ByTag(st, "prod")
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("ByTag(prod) = %v", names(got))
	}
	if got := ByTag(st, "missing"); len(got) != 0 {
		t.Errorf("ByTag(missing) = %v", names(got))
	}
	if got := ByTag(nil, "x"); got == nil || len(got) != 0 {
		t.Errorf("ByTag(nil) = %v", got)
	}
}

func TestSubstring(t *testing.T) {
	st := store("deploy", "deploy-staging", "Backup-DB", "restore-db")
	tests := []struct {
		query string
		want  []string
	}{
		{"db", []string{"Backup-DB", "restore-db"}},
		{"DEPLOY", []string{"deploy", "deploy-staging"}},
		{"deploy-s", []string{"deploy-staging"}},
		{"ploy", []string{"deploy", "deploy-staging"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := names(Substring{}.Match(tt.query, st.Snippets))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFuzzyRanksBestFirst(t *testing.T) {
	st := store("git-status", "grep-todo", "gst")
	got := names(Fuzzy{}.Match("gst", st.Snippets))
	if len(got) != 2 || got[0] != "gst" || got[1] != "git-status" {
		t.Fatalf("full name should rank first among all matches, got %v", got)
	}

	got = names(Fuzzy{}.Match("gsts", st.Snippets))
	if len(got) != 1 || got[0] != "git-status" {
		t.Errorf("got %v, want [git-status]", got)
	}

	got = names(Fuzzy{}.Match("gt", st.Snippets))
	if len(got) < 2 {
		t.Errorf("expected several subsequence matches, got %v", got)
	}
}

func TestNewMatcher(t *testing.T) {
	for _, name := range []string{"", "substring", "Fuzzy"} {
		if _, err := NewMatcher(name); err != nil {
			t.Errorf("NewMatcher(%q): %v", name, err)
		}
	}
	if _, err := NewMatcher("regex"); err == nil {
		t.Error("expected error for unknown matcher")
	}
}

func TestGetNoMatch(t *testing.T) {
	sel := &fakeSelector{}
	_, err := New(nil, sel).Get(context.Background(), store("a"), "zzz")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if sel.called != 0 {
		t.Error("selector must not be consulted")
	}
}

func TestGetSingleMatchSkipsSelector(t *testing.T) {
	sel := &fakeSelector{}
	got, err := New(nil, sel).Get(context.Background(), store("deploy", "backup"), "dep")
	if err != nil || got.Name != "deploy" {
		t.Fatalf("got %q, %v", got.Name, err)
	}
	if sel.called != 0 {
		t.Error("selector must not be consulted for a single match")
	}
}

func TestGetSeveralMatchesDelegates(t *testing.T) {
	sel := &fakeSelector{pick: 1}
	got, err := New(nil, sel).Get(context.Background(), store("db-backup", "db-restore", "other"), "db")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "db-restore" {
		t.Errorf("got %q, want db-restore", got.Name)
	}
	if strings.Join(sel.seen, ",") != "db-backup,db-restore" {
		t.Errorf("selector saw %v", sel.seen)
	}
}

func TestGetFullNameStillOffersLongerNames(t *testing.T) {
	sel := &fakeSelector{pick: 1}
	st := store("deploy", "deploy-prod")

	if got := names(New(nil, sel).Find(st, "deploy")); strings.Join(got, ",") != "deploy,deploy-prod" {
		t.Fatalf("Find = %v", got)
	}
	got, err := New(nil, sel).Get(context.Background(), st, "deploy")
	if err != nil {
		t.Fatal(err)
	}
	if sel.called != 1 || strings.Join(sel.seen, ",") != "deploy,deploy-prod" {
		t.Errorf("selector called %d times with %v", sel.called, sel.seen)
	}
	if got.Name != "deploy-prod" {
		t.Errorf("got %q, want the selected deploy-prod", got.Name)
	}

	if _, err := New(Fuzzy{}, nil).Get(context.Background(), st, "DEPLOY"); !errors.Is(err, apperr.ErrAmbiguous) {
		t.Errorf("fuzzy without selector: err = %v, want ErrAmbiguous", err)
	}
}

func TestGetSelectionCancelled(t *testing.T) {
	sel := &fakeSelector{err: apperr.ErrSelectionCancelled}
	_, err := New(nil, sel).Get(context.Background(), store("db-a", "db-b"), "db")
	if !errors.Is(err, apperr.ErrSelectionCancelled) {
		t.Errorf("err = %v, want ErrSelectionCancelled", err)
	}
}

func TestGetWithoutSelectorIsAmbiguous(t *testing.T) {
	_, err := New(nil, nil).Get(context.Background(), store("db-a", "db-b"), "db")
	if !errors.Is(err, apperr.ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
	if !strings.Contains(err.Error(), "db-a, db-b") {
		t.Errorf("candidates missing from %q", err)
	}
}

func names(snippets []models.Snippet) []string {
	out := []string{}
	for _, sn := range snippets {
		out = append(out, sn.Name)
	}
	return out
}
