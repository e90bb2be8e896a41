package pathfinding

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

var (
	// ErrMissingHeuristic is returned when an A* run is resumed without a heuristic.
	ErrMissingHeuristic = errors.New("heuristic function required")
	// ErrAlreadyStarted is returned when a run is reconfigured after its first Resume.
	ErrAlreadyStarted = errors.New("run already started")
)

// Heuristic estimates the remaining cost from current to target.
// It must return a nonnegative value; A* is optimal only when the estimate
// never exceeds the true remaining cost.
type Heuristic func(graph *Graph, current, target *Node) float64

// Options defines parameters for runs.
type Options struct {
	NumberOfWorkers int
	Heuristic       Heuristic
	Logger          *slog.Logger
	Clock           func() time.Time
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many runs Compare executes at the same time.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithHeuristic binds the A* heuristic at start.
func WithHeuristic(heuristic Heuristic) Option {
	return func(options *Options) { options.Heuristic = heuristic }
}

// WithLogger sets the logger runs report their lifecycle to.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithClock replaces time.Now for runtime measurement.
func WithClock(now func() time.Time) Option {
	return func(options *Options) { options.Clock = now }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	if searchOptions.Clock == nil {
		searchOptions.Clock = time.Now
	}
	return searchOptions
}

// Start prepares a run of algorithm from startNode to goalNode. Nothing is
// explored until the first Resume. In step mode every Resume stops at the
// next suspension point; otherwise a single Resume runs to the end.
//
// Both nodes must be the instances stored in graph.
func Start(
	graph *Graph,
	algorithm Algorithm,
	startNode *Node,
	goalNode *Node,
	stepMode bool,
	options ...Option,
) (*Run, error) {
	if graph == nil {
		return nil, errors.New("start search: nil graph")
	}
	if !algorithm.Valid() {
		return nil, fmt.Errorf("start search: %d: %w", int(algorithm), ErrUnknownAlgorithm)
	}
	if !graph.owns(startNode) {
		return nil, fmt.Errorf("start search: start node %v: %w", startNode, ErrNodeNotFound)
	}
	if !graph.owns(goalNode) {
		return nil, fmt.Errorf("start search: end node %v: %w", goalNode, ErrNodeNotFound)
	}

	searchOptions := applyOptions(options)
	return newRun(graph, algorithm, startNode, goalNode, stepMode, searchOptions), nil
}

// Search runs algorithm to completion and returns its result.
func Search(
	graph *Graph,
	algorithm Algorithm,
	startNode *Node,
	goalNode *Node,
	options ...Option,
) (SearchResult, error) {
	run, err := Start(graph, algorithm, startNode, goalNode, false, options...)
	if err != nil {
		return SearchResult{}, err
	}
	for !run.Done() {
		if err := run.Resume(); err != nil {
			return SearchResult{}, err
		}
		run.DrainLog()
	}
	return run.Result()
}
