package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/report"
)

const (
	cellWidth = 7
	linkWidth = 3
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.titleView())
	b.WriteString("\n")
	b.WriteString(m.gridView())
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.log.view())
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) titleView() string {
	algorithm := "none"
	if m.run != nil {
		algorithm = m.algorithm.String()
	}
	autoplay := "off"
	if m.playing {
		autoplay = "on"
	}
	layers := []string{}
	for layer, name := range []string{"weights", "connections", "values", "coordinates"} {
		if m.layers[layer] {
			layers = append(layers, name)
		}
	}
	return TitleStyle.Render("pathviz") + StatusBarStyle.Render(fmt.Sprintf(
		"algorithm: %s | autoplay: %s (%s) | layers: %s",
		algorithm, autoplay, m.delay, strings.Join(layers, ",")))
}

func (m Model) statusView() string {
	switch {
	case m.err != nil:
		return FailedStyle.Render("error: " + m.err.Error())
	case m.result != nil && m.result.Found:
		return ResultStyle.Render(report.ResultLine(*m.result))
	case m.result != nil:
		return FailedStyle.Render(fmt.Sprintf("No path found, Nodes explored: %d", m.result.NodesExplored))
	case m.run != nil:
		return HelpStyle.Render("searching")
	}
	return HelpStyle.Render("press 1-4 to pick an algorithm")
}

func (m Model) helpView() string {
	var parts []string
	for _, binding := range m.keys.help() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, " · "))
}

func (m Model) gridView() string {
	onPath := map[*pathfinding.Node]bool{}
	if m.result != nil {
		for _, node := range m.result.Path {
			onPath[node] = true
		}
	}

	var b strings.Builder
	for y := 0; y < m.grid.Height; y++ {
		for x := 0; x < m.grid.Width; x++ {
			p := grid.Point{X: x, Y: y}
			b.WriteString(m.cellView(p, onPath))
			if x < m.grid.Width-1 {
				b.WriteString(m.linkView(p, grid.Point{X: x + 1, Y: y}, linkWidth, "<", ">"))
			}
		}
		b.WriteString("\n")
		if y == m.grid.Height-1 {
			continue
		}
		for x := 0; x < m.grid.Width; x++ {
			p := grid.Point{X: x, Y: y}
			b.WriteString(m.linkView(p, grid.Point{X: x, Y: y + 1}, cellWidth, "^", "v"))
			if x < m.grid.Width-1 {
				b.WriteString(strings.Repeat(" ", linkWidth))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) cellView(p grid.Point, onPath map[*pathfinding.Node]bool) string {
	node := m.grid.Node(p)
	entry, searched := m.states[node]

	style := terrainStyle(m.grid.HeightAt(p))
	switch {
	case m.grid.Wall(p):
		style = WallStyle
	case onPath[node]:
		style = PathStyle
	case searched:
		style = StyleForState(entry.State)
	case node == m.start || node == m.end:
		style = EndpointStyle
	}

	label := ""
	switch {
	case m.layers[LayerValues] && searched:
		label = valueLabel(entry.Data)
	case m.layers[LayerCoordinates]:
		label = fmt.Sprintf("%d,%d", p.X, p.Y)
	case node == m.start:
		label = "S"
	case node == m.end:
		label = "E"
	}
	return style.Width(cellWidth).Align(lipgloss.Center).Render(truncate(label, cellWidth))
}

// valueLabel shows f, plus g and h when the run ranks by heuristic and they fit.
func valueLabel(data pathfinding.PathData) string {
	f := formatWeight(data.Total())
	if !data.HasHeuristic {
		return f
	}
	if full := formatWeight(data.Cost) + "+" + formatWeight(data.Heuristic); len(full) <= cellWidth {
		return full
	}
	return f
}

// linkView renders the gap between cell a and the cell b to its right or below.
// With connections on, an arrow points at the predecessor; with edge weights
// on, the cost of moving from a to b is shown.
func (m Model) linkView(a, b grid.Point, width int, towardA, towardB string) string {
	nodeA, nodeB := m.grid.Node(a), m.grid.Node(b)

	arrow := " "
	if m.layers[LayerConnections] {
		if entry, ok := m.states[nodeB]; ok && entry.Data.Previous == nodeA {
			arrow = towardA
		} else if entry, ok := m.states[nodeA]; ok && entry.Data.Previous == nodeB {
			arrow = towardB
		}
	}
	weight := ""
	if m.layers[LayerEdgeWeights] {
		if edge, ok := nodeA.Edge(nodeB); ok {
			weight = formatWeight(edge.Weight)
		}
	}

	text := strings.TrimSpace(arrow + weight)
	return OverlayStyle.Width(width).Align(lipgloss.Center).Render(truncate(text, width))
}

func formatWeight(value float64) string {
	return strconv.FormatFloat(value, 'g', 4, 64)
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width])
}
