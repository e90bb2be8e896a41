package pathfinding

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned for algorithm names or values the engine does not know.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm selects the frontier ordering policy of a run.
type Algorithm int

const (
	// DepthFirst expands the most recently discovered node first. Costs are
	// tracked for reporting only.
	DepthFirst Algorithm = iota
	// BreadthFirst expands nodes in discovery order and finds the path with the
	// fewest edges, not the cheapest one.
	BreadthFirst
	// Dijkstra expands the cheapest known node first. Requires nonnegative weights.
	Dijkstra
	// AStar ranks nodes by cost plus heuristic estimate, breaking ties by the
	// smaller estimate. Optimal only with an admissible heuristic.
	AStar
)

var algorithmNames = map[Algorithm]string{
	DepthFirst:   "dfs",
	BreadthFirst: "bfs",
	Dijkstra:     "dijkstra",
	AStar:        "astar",
}

// Algorithms returns every algorithm in display order.
func Algorithms() []Algorithm {
	return []Algorithm{DepthFirst, BreadthFirst, Dijkstra, AStar}
}

func (algorithm Algorithm) String() string {
	if name, ok := algorithmNames[algorithm]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(algorithm))
}

// Valid reports whether algorithm is one of the known values.
func (algorithm Algorithm) Valid() bool {
	_, ok := algorithmNames[algorithm]
	return ok
}

// NeedsHeuristic reports whether a heuristic must be bound before the run resumes.
func (algorithm Algorithm) NeedsHeuristic() bool { return algorithm == AStar }

// ParseAlgorithm accepts the short names ("dfs", "bfs", "dijkstra", "astar")
// and a few common spellings.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dfs", "depthfirst", "depth-first":
		return DepthFirst, nil
	case "bfs", "breadthfirst", "breadth-first":
		return BreadthFirst, nil
	case "dijkstra":
		return Dijkstra, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
}

// UnmarshalText lets algorithms be decoded from config files and flags.
func (algorithm *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*algorithm = parsed
	return nil
}

func (algorithm Algorithm) MarshalText() ([]byte, error) {
	if !algorithm.Valid() {
		return nil, fmt.Errorf("%d: %w", int(algorithm), ErrUnknownAlgorithm)
	}
	return []byte(algorithm.String()), nil
}

func (algorithm Algorithm) newFrontier(pathData map[*Node]*PathData) frontier {
	switch algorithm {
	case DepthFirst:
		return &stackFrontier{}
	case BreadthFirst:
		return &queueFrontier{}
	default:
		return newPriorityFrontier(pathData)
	}
}
