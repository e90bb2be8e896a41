package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/report"
)

const defaultHistoryLimit = 50

var errHistoryDisabled = errors.New("history is not configured")

// writeReport answers with Markdown, or with HTML when format=html.
func writeReport(w http.ResponseWriter, r *http.Request, markdown string) {
	switch r.URL.Query().Get("format") {
	case "html":
		html, err := report.HTML(markdown)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, html)
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, markdown)
	}
}

// handleHistory lists finished runs as JSON, or as a table with format=markdown or format=html.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errHistoryDisabled)
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("query limit=%q: %w", raw, err))
			return
		}
		limit = v
	}
	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if format := r.URL.Query().Get("format"); format == "markdown" || format == "html" {
		writeReport(w, r, report.Markdown("History", report.FromRecords(records)))
		return
	}
	out := make([]recordJSON, 0, len(records))
	for _, record := range records {
		out = append(out, newRecordJSON(record))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseAlgorithms(raw string) ([]pathfinding.Algorithm, error) {
	if raw == "" {
		return pathfinding.Algorithms(), nil
	}
	var algorithms []pathfinding.Algorithm
	for _, name := range strings.Split(raw, ",") {
		algorithm, err := pathfinding.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, algorithm)
	}
	return algorithms, nil
}

// handleReport runs every requested algorithm on one graph and renders the comparison.
// Query: graph_id, start, end, algorithms (comma separated), heuristic, format.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	graph, err := s.lookupGraph(q.Get("graph_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	algorithms, err := parseAlgorithms(q.Get("algorithms"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	heuristic, err := heuristicFor(q.Get("heuristic"), graph)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	startNode, endNode, err := endpoints(graph, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	options := []pathfinding.Option{pathfinding.WithHeuristic(heuristic), pathfinding.WithLogger(s.logger)}
	if s.workers > 0 {
		options = append(options, pathfinding.WithWorkers(s.workers))
	}
	comparisons, err := pathfinding.Compare(r.Context(), graph.graph, startNode, endNode, algorithms, options...)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	title := fmt.Sprintf("%s to %s", startNode.Name(), endNode.Name())
	writeReport(w, r, report.Markdown(title, report.FromComparisons(comparisons)))
}
