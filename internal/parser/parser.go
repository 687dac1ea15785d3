// Package parser renders snippets as editable documents and parses them back.
//
// A document is YAML frontmatter holding the scalar fields, followed by the
// content verbatim:
//
//	---
//	name: deploy
//	description: ship the current branch
//	executable: true
//	tags:
//	  - prod
//	---
//	make deploy
package parser

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
)

const delim = "---"

var (
	errNoFrontmatter = errors.New("document must start with a --- frontmatter block")
	errUnterminated  = errors.New("frontmatter is missing its closing ---")
)

// frontmatter mirrors models.Fields without the content, with a fixed key order.
type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Executable  bool     `yaml:"executable"`
	Tags        []string `yaml:"tags"`
}

// Render returns the editable document for f.
func Render(f models.Fields) ([]byte, error) {
	fm := frontmatter{
		Name:        f.Name,
		Description: f.Description,
		Executable:  f.Executable,
		Tags:        f.Tags,
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, apperr.Parse("render frontmatter", err)
	}
	if err := enc.Close(); err != nil {
		return nil, apperr.Parse("render frontmatter", err)
	}
	buf.WriteString(delim + "\n")
	buf.WriteString(f.Content)
	if f.Content != "" && !strings.HasSuffix(f.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Parse reads a document produced by Render, possibly edited by hand.
// Trailing line breaks of the body are not part of the content.
func Parse(data []byte) (models.Fields, error) {
	block, body, err := splitFrontmatter(data)
	if err != nil {
		return models.Fields{}, apperr.Parse("parse document", err)
	}

	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return models.Fields{}, apperr.Parse("parse frontmatter", err)
	}

	return models.Fields{
		Name:        strings.TrimSpace(fm.Name),
		Description: fm.Description,
		Content:     strings.TrimRight(body, "\r\n"),
		Executable:  fm.Executable,
		Tags:        models.NormalizeTags(fm.Tags),
	}, nil
}

// splitFrontmatter separates the YAML block between the leading --- lines
// from the body that follows.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimLeft(text, "\n")

	if !strings.HasPrefix(text, delim+"\n") {
		return nil, "", errNoFrontmatter
	}
	rest := text[len(delim)+1:]

	var block string
	switch {
	case strings.HasPrefix(rest, delim+"\n") || rest == delim:
		// Empty frontmatter.
		block, rest = "", strings.TrimPrefix(rest, delim)
	default:
		idx := strings.Index(rest, "\n"+delim+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+delim) {
				return nil, "", errUnterminated
			}
			idx = len(rest) - len(delim) - 1
		}
		block, rest = rest[:idx], rest[idx+1+len(delim):]
	}
	return []byte(block), strings.TrimPrefix(rest, "\n"), nil
}
