// Package tui is a terminal visualizer for searches on a grid.
//
// Keys 1 to 4 start a depth-first, breadth-first, Dijkstra or A* search from
// the start cell to the end cell. Enter advances the search to its next
// suspension point, space runs it to the end and p plays it automatically.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/config"
	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/report"
)

// Layer is a toggleable overlay of the grid view.
type Layer int

const (
	LayerEdgeWeights Layer = iota
	LayerConnections
	LayerValues
	LayerCoordinates
	layerCount
)

// Options configures a Model.
type Options struct {
	Grid       *grid.Grid
	Start, End grid.Point
	Autoplay   config.AutoplayConfig
	Logger     *slog.Logger
	// MaxLogLines bounds the event log. Zero means 500.
	MaxLogLines int
}

// autoplayMsg triggers one automatic step. Messages from an earlier
// autoplay session carry a stale generation and are dropped.
type autoplayMsg struct{ generation int }

// Model is the bubbletea model of the visualizer.
type Model struct {
	grid      *grid.Grid
	start     *pathfinding.Node
	end       *pathfinding.Node
	keys      keyMap
	logger    *slog.Logger
	autoplay  config.AutoplayConfig
	log       logPanel
	algorithm pathfinding.Algorithm

	run    *pathfinding.Run
	states map[*pathfinding.Node]pathfinding.LogEntry
	result *pathfinding.SearchResult
	err    error

	playing    bool
	generation int
	delay      time.Duration
	layers     [layerCount]bool

	width  int
	height int
}

// New creates a Model with no search running.
func New(opts Options) (Model, error) {
	if opts.Grid == nil {
		return Model{}, errors.New("tui: grid is required")
	}
	start := opts.Grid.Node(opts.Start)
	end := opts.Grid.Node(opts.End)
	if start == nil || end == nil {
		return Model{}, fmt.Errorf("tui: endpoints %s and %s must lie inside the %dx%d grid",
			opts.Start, opts.End, opts.Grid.Width, opts.Grid.Height)
	}
	if opts.Autoplay == (config.AutoplayConfig{}) {
		opts.Autoplay = config.Default().Autoplay
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		grid:     opts.Grid,
		start:    start,
		end:      end,
		keys:     defaultKeyMap(),
		logger:   opts.Logger,
		autoplay: opts.Autoplay,
		log:      newLogPanel(opts.MaxLogLines),
		states:   map[*pathfinding.Node]pathfinding.LogEntry{},
		delay:    opts.Autoplay.Delay,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.log.setSize(msg.Width, logHeight(msg.Height, m.grid.Height))
		return m, nil

	case autoplayMsg:
		if !m.playing || msg.generation != m.generation {
			return m, nil
		}
		m.playing = m.resume(true)
		if m.playing {
			return m, m.scheduleAutoplay()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.DepthFirst):
		m.begin(pathfinding.DepthFirst)
	case key.Matches(msg, m.keys.BreadthFirst):
		m.begin(pathfinding.BreadthFirst)
	case key.Matches(msg, m.keys.Dijkstra):
		m.begin(pathfinding.Dijkstra)
	case key.Matches(msg, m.keys.AStar):
		m.begin(pathfinding.AStar)
	case key.Matches(msg, m.keys.Reset):
		m.stopAutoplay()
		m.clear()
		m.run = nil

	case key.Matches(msg, m.keys.Step):
		m.stopAutoplay()
		m.resume(true)
	case key.Matches(msg, m.keys.Run):
		m.stopAutoplay()
		m.resume(false)

	case key.Matches(msg, m.keys.Autoplay):
		m.playing = !m.playing
		m.generation++
		if m.playing {
			return m, m.scheduleAutoplay()
		}
	case key.Matches(msg, m.keys.Faster):
		m.delay = m.autoplay.Faster(m.delay)
	case key.Matches(msg, m.keys.Slower):
		m.delay = m.autoplay.Slower(m.delay)

	case key.Matches(msg, m.keys.EdgeWeights):
		m.layers[LayerEdgeWeights] = !m.layers[LayerEdgeWeights]
	case key.Matches(msg, m.keys.Connections):
		m.layers[LayerConnections] = !m.layers[LayerConnections]
	case key.Matches(msg, m.keys.Values):
		m.layers[LayerValues] = !m.layers[LayerValues]
	case key.Matches(msg, m.keys.Coordinates):
		m.layers[LayerCoordinates] = !m.layers[LayerCoordinates]
	}
	return m, nil
}

func (m *Model) stopAutoplay() {
	m.playing = false
	m.generation++
}

func (m Model) scheduleAutoplay() tea.Cmd {
	generation := m.generation
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return autoplayMsg{generation: generation} })
}

func (m *Model) clear() {
	m.states = map[*pathfinding.Node]pathfinding.LogEntry{}
	m.result = nil
	m.err = nil
	m.log.clear()
}

// begin replaces the current search with a fresh run of algorithm.
func (m *Model) begin(algorithm pathfinding.Algorithm) {
	m.stopAutoplay()
	m.clear()
	m.algorithm = algorithm
	run, err := pathfinding.Start(m.grid.Graph(), algorithm, m.start, m.end, true,
		pathfinding.WithHeuristic(grid.Manhattan),
		pathfinding.WithLogger(m.logger))
	if err != nil {
		m.err = err
		m.run = nil
		return
	}
	m.run = run
	m.log.append(fmt.Sprintf("%s from %s to %s", algorithm, m.start.Name(), m.end.Name()))
}

// resume advances the run and reports whether it can advance further.
func (m *Model) resume(stepMode bool) bool {
	if m.run == nil || m.run.Done() {
		return false
	}
	m.run.SetStepMode(stepMode)
	err := m.run.Resume()
	for _, entry := range m.run.DrainLog() {
		m.states[entry.Node] = entry
		m.log.append(entry.String())
	}
	if err != nil {
		m.err = err
		m.log.append("error: " + err.Error())
		return false
	}
	if !m.run.Done() {
		return true
	}

	result, err := m.run.Result()
	if err != nil {
		m.err = err
		return false
	}
	m.result = &result
	if result.Found {
		m.log.append(report.ResultLine(result))
	} else {
		m.log.append("no path found")
	}
	m.logger.Info("search finished", "algorithm", m.algorithm.String(), "summary", report.ResultLine(result))
	return false
}

// Playing reports whether autoplay is on.
func (m Model) Playing() bool { return m.playing }

// Delay returns the autoplay delay.
func (m Model) Delay() time.Duration { return m.delay }

// LayerActive reports whether layer is shown.
func (m Model) LayerActive(layer Layer) bool { return m.layers[layer] }

// Result returns the outcome of the finished search, if any.
func (m Model) Result() (pathfinding.SearchResult, bool) {
	if m.result == nil {
		return pathfinding.SearchResult{}, false
	}
	return *m.result, true
}
