package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/report"
	"github.com/pdrpinto/pathfinding/store"
)

var (
	errRunNotFound      = errors.New("run not found")
	errUnknownHeuristic = errors.New("unknown heuristic")
)

func zeroHeuristic(*pathfinding.Graph, *pathfinding.Node, *pathfinding.Node) float64 { return 0 }

// heuristicFor resolves a heuristic name. The empty name picks Manhattan on
// grids and zero elsewhere; "none" leaves A* without a heuristic.
func heuristicFor(name string, entry *graphEntry) (pathfinding.Heuristic, error) {
	switch name {
	case "":
		if entry.grid != nil {
			return grid.Manhattan, nil
		}
		return zeroHeuristic, nil
	case "manhattan":
		return grid.Manhattan, nil
	case "zero":
		return zeroHeuristic, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownHeuristic, name)
}

// runEntry is a run held by the server. mu serializes access to run.
type runEntry struct {
	mu       sync.Mutex
	id       ulid.ULID
	graph    *graphEntry
	run      *pathfinding.Run
	steps    int
	current  string
	nodes    map[string]string
	recorded bool
}

func (e *runEntry) apply(entries []pathfinding.LogEntry) []eventJSON {
	events := make([]eventJSON, 0, len(entries))
	for _, entry := range entries {
		event := newEventJSON(entry)
		e.nodes[event.Node] = event.State
		if entry.State == pathfinding.StateCurrent {
			e.current = event.Node
		}
		events = append(events, event)
	}
	return events
}

func newResultJSON(result pathfinding.SearchResult) *resultJSON {
	return &resultJSON{
		Found:         result.Found,
		Cost:          result.Cost,
		Path:          result.PathNames(),
		NodesExplored: result.NodesExplored,
		RuntimeNanos:  result.Runtime.Nanoseconds(),
		Summary:       report.ResultLine(result),
	}
}

func (e *runEntry) view(events []eventJSON) runJSON {
	out := runJSON{
		ID:        e.id.String(),
		GraphID:   e.graph.id.String(),
		Algorithm: e.run.Algorithm().String(),
		Start:     e.run.StartNode().Name(),
		End:       e.run.GoalNode().Name(),
		StepMode:  e.run.StepMode(),
		Step:      e.steps,
		Done:      e.run.Done(),
		Current:   e.current,
		Nodes:     e.nodes,
		Events:    events,
	}
	if out.Done {
		result, err := e.run.Result()
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Result = newResultJSON(result)
		}
	}
	return out
}

type runRequest struct {
	GraphID   string `json:"graph_id"`
	Algorithm string `json:"algorithm"`
	Start     string `json:"start"`
	End       string `json:"end"`
	StepMode  *bool  `json:"step_mode"`
	Heuristic string `json:"heuristic"`
}

// endpoints resolves the requested start and end, falling back to the grid corners.
func endpoints(entry *graphEntry, start, end string) (*pathfinding.Node, *pathfinding.Node, error) {
	defaultStart, defaultEnd := entry.defaultEndpoints()
	if start == "" {
		start = defaultStart
	}
	if end == "" {
		end = defaultEnd
	}
	if start == "" || end == "" {
		return nil, nil, errors.New("start and end are required for uploaded graphs")
	}
	startNode, err := entry.graph.Node(start)
	if err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	endNode, err := entry.graph.Node(end)
	if err != nil {
		return nil, nil, fmt.Errorf("end: %w", err)
	}
	return startNode, endNode, nil
}

func (s *Server) handleRunCreate(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode run request: %w", err))
		return
	}
	graph, err := s.lookupGraph(req.GraphID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	algorithm, err := pathfinding.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	heuristic, err := heuristicFor(req.Heuristic, graph)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	startNode, endNode, err := endpoints(graph, req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stepMode := true
	if req.StepMode != nil {
		stepMode = *req.StepMode
	}

	run, err := pathfinding.Start(graph.graph, algorithm, startNode, endNode, stepMode,
		pathfinding.WithHeuristic(heuristic),
		pathfinding.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry := &runEntry{id: ulid.Make(), graph: graph, run: run, nodes: map[string]string{}}
	view := entry.view(nil)
	s.mu.Lock()
	s.runs[entry.id] = entry
	s.mu.Unlock()
	s.metrics.runsStarted.WithLabelValues(algorithm.String()).Inc()
	s.metrics.activeRuns.Inc()

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) lookupRun(raw string) (*runEntry, error) {
	id, err := ulid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errRunNotFound, raw)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errRunNotFound, id)
	}
	return entry, nil
}

// handleRunResume advances a run to its next suspension point. The optional
// query parameter step switches step mode first.
func (s *Server) handleRunResume(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupRun(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var stepMode *bool
	if raw := r.URL.Query().Get("step"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("query step=%q: %w", raw, err))
			return
		}
		stepMode = &v
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if stepMode != nil {
		entry.run.SetStepMode(*stepMode)
	}
	wasDone := entry.run.Done()
	resumeErr := entry.run.Resume()
	events := entry.apply(entry.run.DrainLog())
	if !wasDone {
		entry.steps++
		s.metrics.resumes.Inc()
	}
	if entry.run.Done() && !entry.recorded {
		entry.recorded = true
		s.recordFinished(r.Context(), entry)
	}

	status := http.StatusOK
	if resumeErr != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, entry.view(events))
}

// recordFinished updates the metrics and the history for a run that just ended.
func (s *Server) recordFinished(ctx context.Context, entry *runEntry) {
	result, err := entry.run.Result()
	if err != nil {
		s.logger.Warn("run failed", "run_id", entry.id, "error", err)
		return
	}
	algorithm := entry.run.Algorithm().String()
	s.metrics.runsFinished.WithLabelValues(algorithm, strconv.FormatBool(result.Found)).Inc()
	s.metrics.nodesExplored.WithLabelValues(algorithm).Observe(float64(result.NodesExplored))
	s.metrics.searchRuntime.WithLabelValues(algorithm).Observe(result.Runtime.Seconds())

	if s.history == nil {
		return
	}
	record := store.NewRecord(entry.graph.id.String(), entry.run.Algorithm(),
		entry.run.StartNode().Name(), entry.run.GoalNode().Name(), result)
	if _, err := s.history.Save(ctx, record); err != nil {
		s.logger.Error("failed to save run to history", "run_id", entry.id, "error", err)
	}
}

func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupRun(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	writeJSON(w, http.StatusOK, entry.view(nil))
}

func (s *Server) handleRunResult(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupRun(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	entry.mu.Lock()
	result, err := entry.run.Result()
	entry.mu.Unlock()

	switch {
	case errors.Is(err, pathfinding.ErrResultUnavailable):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeJSON(w, http.StatusOK, newResultJSON(result))
	}
}

func (s *Server) handleRunDelete(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupRun(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.mu.Lock()
	_, held := s.runs[entry.id]
	delete(s.runs, entry.id)
	s.mu.Unlock()
	if held {
		s.metrics.activeRuns.Dec()
	}
	w.WriteHeader(http.StatusNoContent)
}
