package pathfinding

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph creates nodes for every name and adds the edges "from>to" with weights.
func buildGraph(t *testing.T, names []string, edges map[string]float64, order ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, name := range names {
		g.AddNode(NewNode(name))
	}
	if len(order) == 0 {
		for key := range edges {
			order = append(order, key)
		}
	}
	for _, key := range order {
		var from, to string
		for i := 0; i < len(key); i++ {
			if key[i] == '>' {
				from, to = key[:i], key[i+1:]
			}
		}
		require.NoError(t, g.Connect(from, to, edges[key]))
	}
	return g
}

func mustNode(t *testing.T, g *Graph, name string) *Node {
	t.Helper()
	node, err := g.Node(name)
	require.NoError(t, err)
	return node
}

type event struct {
	State string
	Node  string
	Cost  float64
}

func events(entries []LogEntry) []event {
	out := make([]event, 0, len(entries))
	for _, entry := range entries {
		out = append(out, event{State: entry.State.String(), Node: entry.Node.Name(), Cost: entry.Data.Cost})
	}
	return out
}

func lineGraph(t *testing.T) *Graph {
	return buildGraph(t, []string{"A", "B", "C"}, map[string]float64{"A>B": 1, "B>C": 1}, "A>B", "B>C")
}

func TestRunStepModeSuspensionPoints(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	want := [][]event{
		{{"CURRENT", "A", 0}},
		{{"DISCOVERED", "B", 1}},
		{{"PROCESSED", "A", 0}, {"CURRENT", "B", 1}},
		{{"DISCOVERED", "C", 2}},
		{{"PROCESSED", "B", 1}, {"CURRENT", "C", 2}},
		{},
	}
	for i, wantEvents := range want {
		require.False(t, run.Done(), "resume %d", i)
		require.NoError(t, run.Resume())
		if diff := cmp.Diff(wantEvents, events(run.DrainLog())); diff != "" {
			t.Fatalf("resume %d events mismatch (-want +got):\n%s", i, diff)
		}
	}
	assert.True(t, run.Done())

	result, err := run.Result()
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, 2.0, result.Cost)
	assert.Equal(t, []string{"A", "B", "C"}, result.PathNames())
	assert.Equal(t, 3, result.NodesExplored)
}

func TestRunSkipsPostExpansionPauseWithoutNewEvents(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, map[string]float64{"A>B": 1, "B>A": 1}, "A>B", "B>A")
	run, err := Start(g, BreadthFirst, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	resumes := 0
	var last []event
	for !run.Done() {
		require.NoError(t, run.Resume())
		last = events(run.DrainLog())
		resumes++
	}

	// CURRENT A | DISCOVERED B | PROCESSED A, CURRENT B | PROCESSED B and finish
	assert.Equal(t, 4, resumes)
	assert.Equal(t, []event{{"PROCESSED", "B", 1}}, last)

	result, err := run.Result()
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, 2, result.NodesExplored)
	assert.Empty(t, result.Path)
}

func TestRunWithoutStepModeFinishesInOneResume(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, DepthFirst, mustNode(t, g, "A"), mustNode(t, g, "C"), false)
	require.NoError(t, err)

	require.NoError(t, run.Resume())
	assert.True(t, run.Done())

	entries := run.DrainLog()
	assert.Len(t, entries, 7)
	assert.Empty(t, run.DrainLog(), "drain clears the log")
}

func TestRunSwitchStepModeBetweenResumes(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, BreadthFirst, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	require.NoError(t, run.Resume())
	assert.Equal(t, []event{{"CURRENT", "A", 0}}, events(run.DrainLog()))
	assert.True(t, run.StepMode())

	run.SetStepMode(false)
	require.NoError(t, run.Resume())
	assert.True(t, run.Done())
	assert.Len(t, run.DrainLog(), 6)
}

func TestRunResultUnavailableUntilDone(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	_, err = run.Result()
	assert.ErrorIs(t, err, ErrResultUnavailable)

	require.NoError(t, run.Resume())
	_, err = run.Result()
	assert.ErrorIs(t, err, ErrResultUnavailable)
}

func TestRunResumeAfterDoneIsNoOp(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "C"), false)
	require.NoError(t, err)
	require.NoError(t, run.Resume())
	run.DrainLog()

	first, err := run.Result()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, run.Resume())
		assert.Empty(t, run.DrainLog())
		again, err := run.Result()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRunResultIsACopy(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "C"), false)
	require.NoError(t, err)
	require.NoError(t, run.Resume())

	result, err := run.Result()
	require.NoError(t, err)
	result.Path[0] = nil

	again, err := run.Result()
	require.NoError(t, err)
	assert.Equal(t, "A", again.Path[0].Name())
}

func TestZeroRunIsDone(t *testing.T) {
	var run Run
	assert.True(t, run.Done())
	assert.NoError(t, run.Resume())
	assert.Empty(t, run.DrainLog())
	_, err := run.Result()
	assert.ErrorIs(t, err, ErrResultUnavailable)
	assert.ErrorIs(t, run.SetHeuristic(zeroHeuristic), ErrAlreadyStarted)
}

func TestRunMissingHeuristic(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, AStar, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	err = run.Resume()
	require.ErrorIs(t, err, ErrMissingHeuristic)
	assert.Empty(t, run.DrainLog(), "no event before the configuration failure")
	assert.True(t, run.Done())

	_, err = run.Result()
	assert.ErrorIs(t, err, ErrMissingHeuristic)
	assert.ErrorIs(t, run.Resume(), ErrMissingHeuristic)
}

func TestRunSetHeuristic(t *testing.T) {
	g := lineGraph(t)
	run, err := Start(g, AStar, mustNode(t, g, "A"), mustNode(t, g, "C"), true)
	require.NoError(t, err)

	require.NoError(t, run.SetHeuristic(zeroHeuristic))
	require.NoError(t, run.Resume())
	assert.ErrorIs(t, run.SetHeuristic(zeroHeuristic), ErrAlreadyStarted)

	entries := run.DrainLog()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Data.HasHeuristic)
}

func TestStartValidation(t *testing.T) {
	g := lineGraph(t)
	a, c := mustNode(t, g, "A"), mustNode(t, g, "C")

	_, err := Start(nil, Dijkstra, a, c, false)
	assert.Error(t, err)

	_, err = Start(g, Algorithm(42), a, c, false)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	_, err = Start(g, Dijkstra, NewNode("A"), c, false)
	assert.ErrorIs(t, err, ErrNodeNotFound, "a look-alike node from outside the graph")

	_, err = Start(g, Dijkstra, a, nil, false)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// steppingClock advances one millisecond per reading; tests add idle time between resumes.
type steppingClock struct{ now time.Time }

func (clock *steppingClock) read() time.Time {
	current := clock.now
	clock.now = clock.now.Add(time.Millisecond)
	return current
}

func TestRunRuntimeExcludesSuspendedTime(t *testing.T) {
	g := lineGraph(t)
	clock := &steppingClock{now: time.Unix(0, 0)}
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "C"), true, WithClock(clock.read))
	require.NoError(t, err)

	resumes := 0
	for !run.Done() {
		require.NoError(t, run.Resume())
		resumes++
		clock.now = clock.now.Add(time.Hour)
	}

	result, err := run.Result()
	require.NoError(t, err)
	assert.Equal(t, 6, resumes)
	assert.Equal(t, time.Duration(resumes)*time.Millisecond, result.Runtime)
	assert.Equal(t, result.Runtime, run.Runtime())
}

func TestRunStartEqualsEnd(t *testing.T) {
	g := lineGraph(t)
	a := mustNode(t, g, "A")

	result, err := Search(g, BreadthFirst, a, a)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, 0.0, result.Cost)
	assert.Equal(t, []string{"A"}, result.PathNames())
	assert.Equal(t, 1, result.NodesExplored)
}

func TestRunSelfLoopIsInert(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, map[string]float64{"A>A": 0, "A>B": 1}, "A>A", "A>B")
	run, err := Start(g, Dijkstra, mustNode(t, g, "A"), mustNode(t, g, "B"), false)
	require.NoError(t, err)
	require.NoError(t, run.Resume())

	for _, entry := range run.DrainLog() {
		if entry.Node.Name() == "A" {
			assert.Nil(t, entry.Data.Previous, "start never becomes its own predecessor")
		}
	}
	result, err := run.Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, result.PathNames())
}
