package models

import (
	"strings"
	"time"
)

// Store is the complete record set persisted in the backing file.
// Order is insertion order and only matters for display.
type Store struct {
	Snippets []Snippet `yaml:"snippets" json:"snippets"`
}

// Len returns the number of snippets.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Snippets)
}

// Clone returns a deep copy, so callers can mutate it without touching s.
func (s *Store) Clone() *Store {
	out := &Store{Snippets: make([]Snippet, 0, s.Len())}
	if s == nil {
		return out
	}
	for _, sn := range s.Snippets {
		sn.Tags = append([]string(nil), sn.Tags...)
		out.Snippets = append(out.Snippets, sn)
	}
	return out
}

// IndexOf returns the position of the snippet named exactly name, or -1.
func (s *Store) IndexOf(name string) int {
	for i, sn := range s.Snippets {
		if sn.Name == name {
			return i
		}
	}
	return -1
}

// HasName reports whether any snippet is named name, ignoring case.
func (s *Store) HasName(name string) bool {
	return s.HasNameExcept(name, "")
}

// HasNameExcept is HasName that ignores the snippet named exactly except.
func (s *Store) HasNameExcept(name, except string) bool {
	for _, sn := range s.Snippets {
		if except != "" && sn.Name == except {
			continue
		}
		if strings.EqualFold(sn.Name, name) {
			return true
		}
	}
	return false
}

// Append adds sn at the end of the store.
func (s *Store) Append(sn Snippet) {
	s.Snippets = append(s.Snippets, sn)
}

// Remove deletes the snippet named exactly name. It reports whether one was removed.
func (s *Store) Remove(name string) bool {
	i := s.IndexOf(name)
	if i < 0 {
		return false
	}
	s.Snippets = append(s.Snippets[:i], s.Snippets[i+1:]...)
	return true
}

// Normalize fills timestamps missing from records written before they
// existed and restores updated_at >= created_at.
func (s *Store) Normalize(now time.Time) {
	now = now.UTC()
	for i := range s.Snippets {
		sn := &s.Snippets[i]
		if sn.CreatedAt.IsZero() {
			if sn.UpdatedAt.IsZero() {
				sn.CreatedAt = now
			} else {
				sn.CreatedAt = sn.UpdatedAt
			}
		}
		if sn.UpdatedAt.IsZero() {
			sn.UpdatedAt = now
		}
		if sn.UpdatedAt.Before(sn.CreatedAt) {
			sn.UpdatedAt = sn.CreatedAt
		}
		if sn.Tags == nil {
			sn.Tags = []string{}
		}
	}
}
