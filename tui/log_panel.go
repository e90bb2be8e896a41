package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

const defaultMaxLogLines = 500

// logPanel is a scrollable search event log.
type logPanel struct {
	lines    []string
	max      int
	viewport viewport.Model
}

func newLogPanel(maxLines int) logPanel {
	if maxLines <= 0 {
		maxLines = defaultMaxLogLines
	}
	return logPanel{max: maxLines, viewport: viewport.New(80, 8)}
}

// append adds a line, evicting the oldest one at capacity.
func (p *logPanel) append(line string) {
	if len(p.lines) >= p.max {
		p.lines = p.lines[1:]
	}
	p.lines = append(p.lines, line)
	p.sync()
}

func (p *logPanel) clear() {
	p.lines = nil
	p.sync()
}

func (p *logPanel) setSize(width, height int) {
	p.viewport.Width = max(width-2, 1)
	p.viewport.Height = max(height, 1)
	p.sync()
}

func (p *logPanel) sync() {
	p.viewport.SetContent(strings.Join(p.lines, "\n"))
	p.viewport.GotoBottom()
}

func (p logPanel) view() string {
	body := HelpStyle.Render("No events yet")
	if len(p.lines) > 0 {
		body = p.viewport.View()
	}
	return BorderStyle.Render(TitleStyle.Render("EVENT LOG") + "\n" + body)
}

// logHeight gives the log the rows left below the grid. The border, the log
// title and the title, status and help lines take 6.
func logHeight(total, gridRows int) int {
	return max(total-(2*gridRows-1)-6, 3)
}
