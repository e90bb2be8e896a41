package pathfinding

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pdrpinto/pathfinding/internal"
)

// phase marks where the next Resume re-enters the traversal loop.
type phase int

const (
	phasePending phase = iota
	phaseSelect
	// suspended after logging CURRENT, before the edges are examined
	phaseAwaitingExpansion
	// suspended after the edges were examined, before current is marked explored
	phaseAwaitingPostExpansion
	phaseDone
)

// Run is the execution state of one search. It survives between Resume calls
// and is not safe for concurrent use. The zero Run reports Done.
type Run struct {
	graph     *Graph
	algorithm Algorithm
	startNode *Node
	goalNode  *Node
	stepMode  bool
	heuristic Heuristic
	logger    *slog.Logger
	stopwatch *internal.Stopwatch

	frontier frontier
	explored map[*Node]bool
	pathData map[*Node]*PathData
	current  *Node

	phase  phase
	log    []LogEntry
	result *SearchResult
	err    error
}

func newRun(graph *Graph, algorithm Algorithm, startNode, goalNode *Node, stepMode bool, options Options) *Run {
	pathData := make(map[*Node]*PathData)
	return &Run{
		graph:     graph,
		algorithm: algorithm,
		startNode: startNode,
		goalNode:  goalNode,
		stepMode:  stepMode,
		heuristic: options.Heuristic,
		logger:    options.Logger,
		stopwatch: internal.NewStopwatch(options.Clock),
		frontier:  algorithm.newFrontier(pathData),
		explored:  make(map[*Node]bool),
		pathData:  pathData,
	}
}

func (run *Run) Algorithm() Algorithm { return run.algorithm }
func (run *Run) StartNode() *Node     { return run.startNode }
func (run *Run) GoalNode() *Node      { return run.goalNode }
func (run *Run) StepMode() bool       { return run.stepMode }

// SetStepMode switches between stopping at every suspension point and running
// to the end. It takes effect at the next suspension point.
func (run *Run) SetStepMode(stepMode bool) { run.stepMode = stepMode }

// SetHeuristic binds the A* heuristic. It fails once the run has been resumed.
func (run *Run) SetHeuristic(heuristic Heuristic) error {
	if run.graph == nil || run.phase != phasePending {
		return ErrAlreadyStarted
	}
	run.heuristic = heuristic
	return nil
}

// Done reports whether the run has terminated or was never started.
func (run *Run) Done() bool {
	return run.graph == nil || run.phase == phaseDone
}

// Runtime returns the time spent inside Resume so far.
func (run *Run) Runtime() time.Duration {
	if run.stopwatch == nil {
		return 0
	}
	return run.stopwatch.Elapsed()
}

// DrainLog returns the events recorded since the previous drain and clears them.
func (run *Run) DrainLog() []LogEntry {
	entries := run.log
	run.log = nil
	return entries
}

// Result returns the outcome of a finished run, or ErrResultUnavailable while
// the run is still going.
func (run *Run) Result() (SearchResult, error) {
	if run.err != nil {
		return SearchResult{}, run.err
	}
	if run.result == nil {
		return SearchResult{}, ErrResultUnavailable
	}
	return run.result.clone(), nil
}

// Resume advances the search to the next suspension point or to its end.
// Resuming a finished run does nothing.
func (run *Run) Resume() error {
	if run.Done() {
		return run.err
	}
	run.stopwatch.Start()
	defer run.stopwatch.Stop()

	if run.phase == phasePending {
		if err := run.initialize(); err != nil {
			run.err = err
			run.phase = phaseDone
			return err
		}
	}

	for {
		switch run.phase {
		case phaseSelect:
			if run.frontier.Len() == 0 {
				run.finish(false)
				return nil
			}
			run.current = run.frontier.Pop()
			run.record(run.current, StateCurrent)
			run.phase = phaseAwaitingExpansion
			if run.stepMode {
				return nil
			}

		case phaseAwaitingExpansion:
			if run.current.Equal(run.goalNode) {
				run.finish(true)
				return nil
			}
			previousLogSize := len(run.log)
			run.expand(run.current)
			run.phase = phaseAwaitingPostExpansion
			if run.stepMode && len(run.log) != previousLogSize {
				return nil
			}

		case phaseAwaitingPostExpansion:
			run.explored[run.current] = true
			run.record(run.current, StateProcessed)
			run.phase = phaseSelect

		default:
			return run.err
		}
	}
}

func (run *Run) initialize() error {
	if run.algorithm.NeedsHeuristic() && run.heuristic == nil {
		return fmt.Errorf("%s search from %s to %s: %w",
			run.algorithm, run.startNode.Name(), run.goalNode.Name(), ErrMissingHeuristic)
	}

	run.pathData[run.startNode] = run.newPathData(run.startNode, nil, 0)
	run.frontier.Push(run.startNode)
	run.phase = phaseSelect

	run.logger.Debug("search started",
		"algorithm", run.algorithm.String(),
		"start", run.startNode.Name(),
		"end", run.goalNode.Name(),
		"step_mode", run.stepMode)
	return nil
}

func (run *Run) newPathData(node, previousNode *Node, cost float64) *PathData {
	data := &PathData{Previous: previousNode, Cost: cost}
	if run.algorithm.NeedsHeuristic() {
		data.HasHeuristic = true
		data.Heuristic = run.heuristic(run.graph, node, run.goalNode)
	}
	return data
}

// expand relaxes every outgoing edge of current.
func (run *Run) expand(current *Node) {
	currentCost := run.pathData[current].Cost
	for _, edge := range current.Edges() {
		neighbor := edge.Neighbor
		neighborCost := currentCost + edge.Weight

		known, seen := run.pathData[neighbor]
		if !seen {
			run.pathData[neighbor] = run.newPathData(neighbor, current, neighborCost)
			run.frontier.Push(neighbor)
			run.record(neighbor, StateDiscovered)
			continue
		}
		if neighborCost >= known.Cost {
			continue
		}

		// the heuristic estimate of the neighbor does not change
		known.Previous = current
		known.Cost = neighborCost
		if run.explored[neighbor] {
			if run.frontier.Reopens() {
				run.frontier.Push(neighbor)
			}
			run.record(neighbor, StateProcessed)
		} else {
			run.frontier.Fix(neighbor)
			run.record(neighbor, StateDiscovered)
		}
	}
}

func (run *Run) record(node *Node, state NodeState) {
	run.log = append(run.log, LogEntry{Node: node, State: state, Data: *run.pathData[node]})
}

func (run *Run) finish(found bool) {
	run.stopwatch.Stop()

	result := SearchResult{
		NodesExplored: len(run.explored),
		Runtime:       run.stopwatch.Elapsed(),
	}
	if found {
		result.Found = true
		result.Cost = run.pathData[run.current].Cost
		result.Path = internal.ReconstructPath(run.predecessor, run.current, len(run.pathData))
		result.NodesExplored++
	}
	run.result = &result
	run.phase = phaseDone

	run.logger.Debug("search finished",
		"algorithm", run.algorithm.String(),
		"found", result.Found,
		"cost", result.Cost,
		"nodes_explored", result.NodesExplored,
		"runtime", result.Runtime)
}

func (run *Run) predecessor(node *Node) (*Node, bool) {
	data, exists := run.pathData[node]
	if !exists {
		panic(fmt.Sprintf("path reconstruction reached %q without path data", node.Name()))
	}
	return data.Previous, data.Previous != nil
}
