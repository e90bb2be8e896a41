package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	DepthFirst   key.Binding
	BreadthFirst key.Binding
	Dijkstra     key.Binding
	AStar        key.Binding
	Step         key.Binding
	Run          key.Binding
	Reset        key.Binding
	Autoplay     key.Binding
	Faster       key.Binding
	Slower       key.Binding
	EdgeWeights  key.Binding
	Connections  key.Binding
	Values       key.Binding
	Coordinates  key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		DepthFirst:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dfs")),
		BreadthFirst: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "bfs")),
		Dijkstra:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "dijkstra")),
		AStar:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "a*")),
		Step:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "step")),
		Run:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "run")),
		Reset:        key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "reset")),
		Autoplay:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "autoplay")),
		Faster:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		EdgeWeights:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "weights")),
		Connections:  key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "connections")),
		Values:       key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "values")),
		Coordinates:  key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "coordinates")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{
		k.DepthFirst, k.BreadthFirst, k.Dijkstra, k.AStar,
		k.Step, k.Run, k.Reset, k.Autoplay, k.Faster, k.Slower,
		k.EdgeWeights, k.Connections, k.Values, k.Coordinates, k.Quit,
	}
}
