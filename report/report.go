// Package report renders search outcomes as a one-line summary, a Markdown
// comparison table or HTML.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/store"
)

// Row is one line of a comparison table.
type Row struct {
	Algorithm     pathfinding.Algorithm
	Found         bool
	Cost          float64
	NodesExplored int
	Runtime       time.Duration
	Path          []string
}

// FromComparisons turns Compare output into rows, keeping the order.
func FromComparisons(comparisons []pathfinding.Comparison) []Row {
	rows := make([]Row, 0, len(comparisons))
	for _, c := range comparisons {
		rows = append(rows, Row{
			Algorithm:     c.Algorithm,
			Found:         c.Result.Found,
			Cost:          c.Result.Cost,
			NodesExplored: c.Result.NodesExplored,
			Runtime:       c.Result.Runtime,
			Path:          c.Result.PathNames(),
		})
	}
	return rows
}

// FromRecords turns history records into rows, keeping the order.
func FromRecords(records []store.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Algorithm:     r.Algorithm,
			Found:         r.Found,
			Cost:          r.Cost,
			NodesExplored: r.NodesExplored,
			Runtime:       r.Runtime,
			Path:          r.Path,
		})
	}
	return rows
}

// ResultLine formats result as "PathWeight: w, Nodes explored: n, Runtime: Xns".
func ResultLine(result pathfinding.SearchResult) string {
	return fmt.Sprintf("PathWeight: %s, Nodes explored: %d, Runtime: %dns",
		formatFloat(result.Cost), result.NodesExplored, result.Runtime.Nanoseconds())
}

// Markdown renders rows as a titled GitHub-flavoured table.
func Markdown(title string, rows []Row) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escape(title))
	}
	b.WriteString("| Algorithm | Found | Path weight | Nodes explored | Runtime | Path |\n")
	b.WriteString("|---|---|---:|---:|---:|---|\n")
	for _, row := range rows {
		weight, path := "-", "-"
		if row.Found {
			weight = formatFloat(row.Cost)
			path = joinPath(row.Path)
		}
		fmt.Fprintf(&b, "| %s | %t | %s | %d | %s | %s |\n",
			row.Algorithm, row.Found, weight, row.NodesExplored, row.Runtime, path)
	}
	return b.String()
}

// HTML converts Markdown produced by this package to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, `<`, `&lt;`, `>`, `&gt;`)

// escape keeps cell text from breaking the table.
func escape(text string) string {
	return markdownEscaper.Replace(text)
}

func joinPath(names []string) string {
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = escape(name)
	}
	return strings.Join(escaped, " -> ")
}
