package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/report"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	g, err := grid.New(grid.Config{Width: 4, Height: 3, Seed: 3})
	require.NoError(t, err)
	m, err := New(Options{Grid: g, Start: grid.Point{X: 0, Y: 0}, End: grid.Point{X: 3, Y: 2}})
	require.NoError(t, err)
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestNewValidation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	g, err := grid.New(grid.Config{Width: 2, Height: 2})
	require.NoError(t, err)
	_, err = New(Options{Grid: g, End: grid.Point{X: 2, Y: 0}})
	assert.ErrorContains(t, err, "2x2")

	m, err := New(Options{Grid: g, End: grid.Point{X: 1, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, m.Delay())
	assert.Nil(t, m.Init())
}

func TestStepThroughSearch(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, runes("3"))
	require.NotNil(t, m.run)
	assert.Equal(t, pathfinding.Dijkstra, m.run.Algorithm())
	assert.Len(t, m.log.lines, 1)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, pathfinding.StateCurrent, m.states[m.start].State)
	_, done := m.Result()
	assert.False(t, done)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	result, done := m.Result()
	require.True(t, done)
	require.True(t, result.Found)
	assert.Same(t, m.start, result.Path[0])
	assert.Same(t, m.end, result.Path[len(result.Path)-1])
	assert.Equal(t, report.ResultLine(result), m.log.lines[len(m.log.lines)-1])
	assert.Contains(t, m.View(), "PathWeight: ")

	want, err := pathfinding.Search(m.grid.Graph(), pathfinding.Dijkstra, m.start, m.end)
	require.NoError(t, err)
	assert.Equal(t, want.Cost, result.Cost)
	assert.Equal(t, want.PathNames(), result.PathNames())
}

func TestEveryAlgorithmKeyFindsThePath(t *testing.T) {
	for _, k := range []string{"1", "2", "3", "4"} {
		m := newTestModel(t)
		m, _ = press(t, m, runes(k), tea.KeyMsg{Type: tea.KeySpace})
		result, done := m.Result()
		require.True(t, done, k)
		assert.True(t, result.Found, k)
		assert.NoError(t, m.err, k)
	}
}

func TestAStarMatchesDijkstraCost(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("3"), tea.KeyMsg{Type: tea.KeySpace})
	dijkstra, _ := m.Result()
	m, _ = press(t, m, runes("4"), tea.KeyMsg{Type: tea.KeySpace})
	astar, _ := m.Result()
	assert.Equal(t, dijkstra.Cost, astar.Cost)
}

func TestStepWithoutSearchIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeySpace})
	assert.Nil(t, cmd)
	assert.Nil(t, m.run)
	assert.Empty(t, m.states)
}

func TestAutoplay(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("2"))

	m, cmd := press(t, m, runes("p"))
	require.True(t, m.Playing())
	require.NotNil(t, cmd)
	generation := m.generation

	m, cmd = press(t, m, autoplayMsg{generation: generation})
	assert.NotNil(t, cmd, "autoplay reschedules while the run is going")
	assert.Len(t, m.states, 1)

	m, _ = press(t, m, autoplayMsg{generation: generation - 1})
	assert.Len(t, m.states, 1, "stale ticks are dropped")

	for m.Playing() {
		m, _ = press(t, m, autoplayMsg{generation: m.generation})
	}
	_, done := m.Result()
	assert.True(t, done, "autoplay stops when the run ends")
}

func TestManualStepStopsAutoplay(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("1"), runes("p"))
	generation := m.generation

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Playing())

	before := len(m.states)
	m, cmd := press(t, m, autoplayMsg{generation: generation})
	assert.Nil(t, cmd)
	assert.Len(t, m.states, before)
}

func TestAutoplayDelayBounds(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("+"))
	assert.Equal(t, 450*time.Millisecond, m.Delay())

	for i := 0; i < 20; i++ {
		m, _ = press(t, m, runes("="))
	}
	assert.Equal(t, 50*time.Millisecond, m.Delay())

	for i := 0; i < 30; i++ {
		m, _ = press(t, m, runes("-"))
	}
	assert.Equal(t, time.Second, m.Delay())
}

func TestLayerToggles(t *testing.T) {
	m := newTestModel(t)
	keys := map[Layer]tea.KeyType{
		LayerEdgeWeights: tea.KeyF1,
		LayerConnections: tea.KeyF2,
		LayerValues:      tea.KeyF3,
		LayerCoordinates: tea.KeyF4,
	}
	for layer, keyType := range keys {
		assert.False(t, m.LayerActive(layer))
		m, _ = press(t, m, tea.KeyMsg{Type: keyType})
		assert.True(t, m.LayerActive(layer))
		m, _ = press(t, m, tea.KeyMsg{Type: keyType})
		assert.False(t, m.LayerActive(layer))
	}
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, runes("4"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Nil(t, m.run)
	assert.Empty(t, m.states)
	assert.Empty(t, m.log.lines)
	_, done := m.Result()
	assert.False(t, done)
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(t, newTestModel(t), msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "S")
	assert.Contains(t, view, "E")
	assert.Contains(t, view, "press 1-4")
	assert.Contains(t, view, "EVENT LOG")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF4})
	assert.Contains(t, m.View(), "3,2")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF4}, runes("4"), tea.KeyMsg{Type: tea.KeyF3}, tea.KeyMsg{Type: tea.KeyEnter})
	entry := m.states[m.start]
	assert.Contains(t, m.View(), valueLabel(entry.Data))

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 98, m.log.viewport.Width)
	assert.Equal(t, logHeight(40, 3), m.log.viewport.Height)
}

func TestLinkView(t *testing.T) {
	m := newTestModel(t)
	a, b := grid.Point{X: 0, Y: 0}, grid.Point{X: 1, Y: 0}
	assert.Equal(t, "   ", m.linkView(a, b, linkWidth, "<", ">"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	edge, ok := m.grid.Node(a).Edge(m.grid.Node(b))
	require.True(t, ok)
	assert.Contains(t, m.linkView(a, b, linkWidth, "<", ">"), formatWeight(edge.Weight))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1}, tea.KeyMsg{Type: tea.KeyF2}, runes("3"), tea.KeyMsg{Type: tea.KeySpace})
	link := m.linkView(a, b, linkWidth, "<", ">")
	assert.Contains(t, link, "<", "the right cell was reached from the left one")
}

func TestLogPanelEvictsOldest(t *testing.T) {
	p := newLogPanel(2)
	p.append("a")
	p.append("b")
	p.append("c")
	assert.Equal(t, []string{"b", "c"}, p.lines)
	assert.True(t, strings.Contains(p.view(), "c"))

	p.clear()
	assert.Contains(t, p.view(), "No events yet")
	assert.Equal(t, defaultMaxLogLines, newLogPanel(0).max)
	assert.Equal(t, 3, logHeight(10, 8))
}
