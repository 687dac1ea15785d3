// Package models defines the domain types for markit.
package models

import (
	"strings"
	"time"
)

// Snippet is a named, reusable text or command entry.
type Snippet struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Content     string    `yaml:"content" json:"content"`
	Executable  bool      `yaml:"executable" json:"executable"`
	Tags        []string  `yaml:"tags" json:"tags"`
	CreatedAt   time.Time `yaml:"created_at,omitempty" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty" json:"updated_at"`
}

// Fields is the user-editable part of a snippet. Timestamps are owned by the store.
type Fields struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Content     string   `yaml:"-"`
	Executable  bool     `yaml:"executable"`
	Tags        []string `yaml:"tags"`
}

// New builds a snippet from fields with both timestamps set to now.
func New(f Fields, now time.Time) Snippet {
	now = now.UTC()
	return Snippet{
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Content:     f.Content,
		Executable:  f.Executable,
		Tags:        NormalizeTags(f.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Fields returns the redacted, editable view of s.
func (s Snippet) Fields() Fields {
	return Fields{
		Name:        s.Name,
		Description: s.Description,
		Content:     s.Content,
		Executable:  s.Executable,
		Tags:        append([]string(nil), s.Tags...),
	}
}

// Apply returns a copy of s carrying the edited fields.
// CreatedAt is preserved and UpdatedAt moves to now.
func (s Snippet) Apply(f Fields, now time.Time) Snippet {
	out := s
	out.Name = strings.TrimSpace(f.Name)
	out.Description = f.Description
	out.Content = f.Content
	out.Executable = f.Executable
	out.Tags = NormalizeTags(f.Tags)
	out.UpdatedAt = now.UTC()
	if out.UpdatedAt.Before(out.CreatedAt) {
		out.UpdatedAt = out.CreatedAt
	}
	return out
}

// HasTag reports whether s carries tag, ignoring case.
func (s Snippet) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates. The first spelling of a tag wins and order is preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags splits a comma-separated tag list.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
