package pathfinding

import "fmt"

// NodeState tags a search log entry.
type NodeState int

const (
	// StateDefault marks a node the search has not touched. The engine never
	// logs it; presenters use it for untouched cells.
	StateDefault NodeState = iota
	StateCurrent
	StateDiscovered
	StateProcessed
)

func (state NodeState) String() string {
	switch state {
	case StateDefault:
		return "DEFAULT"
	case StateCurrent:
		return "CURRENT"
	case StateDiscovered:
		return "DISCOVERED"
	case StateProcessed:
		return "PROCESSED"
	}
	return fmt.Sprintf("NodeState(%d)", int(state))
}

// PathData is the per-node traversal record of a run.
// Heuristic is only meaningful when HasHeuristic is set (A* runs).
type PathData struct {
	Previous     *Node
	Cost         float64
	HasHeuristic bool
	Heuristic    float64
}

// Total returns the ranking value: g + h for A* records, g otherwise.
func (data PathData) Total() float64 {
	if data.HasHeuristic {
		return data.Cost + data.Heuristic
	}
	return data.Cost
}

// LogEntry is one search event with a snapshot of the node's PathData at that moment.
type LogEntry struct {
	Node  *Node
	State NodeState
	Data  PathData
}

func (entry LogEntry) String() string {
	return fmt.Sprintf("%s %s g=%g", entry.State, entry.Node.Name(), entry.Data.Cost)
}
