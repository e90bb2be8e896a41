package pathfinding

import (
	"errors"
	"time"
)

// ErrResultUnavailable is returned when the result of an unfinished run is requested.
var ErrResultUnavailable = errors.New("search result not yet available")

// SearchResult contains the outcome of a finished run.
type SearchResult struct {
	Found         bool
	Cost          float64
	Path          []*Node
	NodesExplored int
	// Runtime covers only the time spent inside Resume calls.
	Runtime time.Duration
}

// PathNames returns the names of the nodes on the path.
func (result SearchResult) PathNames() []string {
	names := make([]string, 0, len(result.Path))
	for _, node := range result.Path {
		names = append(names, node.Name())
	}
	return names
}

func (result SearchResult) clone() SearchResult {
	if result.Path != nil {
		result.Path = append([]*Node(nil), result.Path...)
	}
	return result
}
