// Package render formats snippets, backups and search hits for the terminal.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/markit/internal/index"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/storage"
)

const timeLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Table writes snippets as a table.
func Table(w io.Writer, snippets []models.Snippet) error {
	rows := make([][]string, 0, len(snippets))
	for _, sn := range snippets {
		rows = append(rows, []string{
			sn.Name,
			oneLine(sn.Description, 48),
			yesNo(sn.Executable),
			formatTime(sn.CreatedAt),
			formatTime(sn.UpdatedAt),
			strings.Join(sn.Tags, ", "),
		})
	}
	t := newTable([]string{"Name", "Description", "Executable", "Created", "Updated", "Tags"}, rows)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Detail writes one snippet. With highlight set the content is syntax
// highlighted for a terminal.
func Detail(w io.Writer, sn models.Snippet, highlight bool) error {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	field("Name", sn.Name)
	if sn.Description != "" {
		field("Description", sn.Description)
	}
	field("Executable", yesNo(sn.Executable))
	if len(sn.Tags) > 0 {
		field("Tags", strings.Join(sn.Tags, ", "))
	}
	field("Created", formatTime(sn.CreatedAt))
	field("Updated", formatTime(sn.UpdatedAt))
	b.WriteString(labelStyle.Render("Content:") + "\n")

	content := sn.Content
	if highlight {
		content = Highlight(sn.Content, sn.Executable)
	}
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Backups writes the backup list, most recent first.
func Backups(w io.Writer, backups []storage.Backup) error {
	rows := make([][]string, 0, len(backups))
	for i, b := range backups {
		rows = append(rows, []string{strconv.Itoa(i + 1), b.ID, formatTime(b.CreatedAt), humanSize(b.Size)})
	}
	t := newTable([]string{"#", "ID", "Created", "Size"}, rows)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// SearchResults writes full-text search hits.
func SearchResults(w io.Writer, results []index.SearchResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, oneLine(r.Description, 40), oneLine(r.Snippet, 60)})
	}
	t := newTable([]string{"Name", "Description", "Match"}, rows)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Highlight returns code coloured with ANSI escapes. Executable snippets
// are lexed as shell; other content is detected from its text.
func Highlight(code string, executable bool) string {
	var lexer chroma.Lexer
	if executable {
		lexer = lexers.Get("bash")
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	var buf bytes.Buffer
	if err := formatters.TTY8Color.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// oneLine flattens s and cuts it to max runes.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
