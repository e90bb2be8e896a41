package web

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/graphfile"
	"github.com/pdrpinto/pathfinding/grid"
)

const kindGrid = "grid"

// Limits on POST /grids. Generation cost grows with the cell count and the
// total length of the obstacle random walks.
const (
	maxGridSide  = 256
	maxWalkSteps = 1 << 20
)

var errGraphNotFound = errors.New("graph not found")

type graphEntry struct {
	id    uuid.UUID
	kind  string
	graph *pathfinding.Graph
	// grid is nil for uploaded graphs.
	grid *grid.Grid
}

// defaultEndpoints returns the opposite corners of a grid, or nothing for uploaded graphs.
func (e *graphEntry) defaultEndpoints() (string, string) {
	if e.grid == nil {
		return "", ""
	}
	return grid.NodeName(0, 0), grid.NodeName(e.grid.Width-1, e.grid.Height-1)
}

func (e *graphEntry) view() graphJSON {
	out := graphJSON{ID: e.id.String(), Kind: e.kind}
	for _, node := range e.graph.Nodes() {
		out.Nodes = append(out.Nodes, node.Name())
		for _, edge := range node.Edges() {
			out.Edges = append(out.Edges, edgeJSON{From: node.Name(), To: edge.Neighbor.Name(), Weight: edge.Weight})
		}
	}
	if g := e.grid; g != nil {
		out.Width, out.Height = g.Width, g.Height
		out.Heights = make([][]int, g.Height)
		for y := range out.Heights {
			out.Heights[y] = make([]int, g.Width)
			for x := range out.Heights[y] {
				p := grid.Point{X: x, Y: y}
				out.Heights[y][x] = g.HeightAt(p)
				if g.Wall(p) {
					out.Walls = append(out.Walls, [2]int{x, y})
				}
			}
		}
	}
	return out
}

func (s *Server) addGraph(kind string, graph *pathfinding.Graph, g *grid.Grid) *graphEntry {
	entry := &graphEntry{id: uuid.New(), kind: kind, graph: graph, grid: g}
	s.mu.Lock()
	s.graphs[entry.id] = entry
	s.mu.Unlock()
	return entry
}

func (s *Server) lookupGraph(raw string) (*graphEntry, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errGraphNotFound, raw)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.graphs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errGraphNotFound, id)
	}
	return entry, nil
}

// gridConfigFromQuery overlays the query parameters w, h, seed, noise,
// clusters, steps and density on the server defaults.
func (s *Server) gridConfigFromQuery(q url.Values) (grid.Config, error) {
	cfg := s.defaults
	ints := map[string]*int{
		"w":        &cfg.Width,
		"h":        &cfg.Height,
		"clusters": &cfg.Obstacles.Clusters,
		"steps":    &cfg.Obstacles.Steps,
	}
	for name, field := range ints {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return grid.Config{}, fmt.Errorf("query %s=%q: want a non-negative integer", name, raw)
			}
			*field = v
		}
	}
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return grid.Config{}, fmt.Errorf("query seed=%q: %w", raw, err)
		}
		cfg.Seed = v
	}
	if raw := q.Get("noise"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return grid.Config{}, fmt.Errorf("query noise=%q: want a positive number", raw)
		}
		cfg.NoiseScale = v
	}
	if raw := q.Get("density"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return grid.Config{}, fmt.Errorf("query density=%q: want a number within [0, 1]", raw)
		}
		cfg.Obstacles.Density = v
	}
	if cfg.Width > maxGridSide || cfg.Height > maxGridSide {
		return grid.Config{}, fmt.Errorf("grid %dx%d: width and height must not exceed %d", cfg.Width, cfg.Height, maxGridSide)
	}
	clusters, steps := cfg.Obstacles.Clusters, cfg.Obstacles.Steps
	if clusters > maxWalkSteps || steps > maxWalkSteps || clusters*steps > maxWalkSteps {
		return grid.Config{}, fmt.Errorf("obstacles %d clusters of %d steps: at most %d steps in total", clusters, steps, maxWalkSteps)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		cfg.Protect = []grid.Point{{X: 0, Y: 0}, {X: cfg.Width - 1, Y: cfg.Height - 1}}
	}
	return cfg, nil
}

func (s *Server) handleGridCreate(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.gridConfigFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, err := grid.New(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry := s.addGraph(kindGrid, g.Graph(), g)
	s.logger.Debug("grid created", "graph_id", entry.id, "width", g.Width, "height", g.Height, "walls", g.Walls())
	writeJSON(w, http.StatusCreated, entry.view())
}

// uploadFormat takes the format from the query, then from the content type.
func uploadFormat(r *http.Request) (graphfile.Format, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		return graphfile.ParseFormat(name)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/vnd.graphviz":
		return graphfile.FormatDOT, nil
	case "application/hcl", "text/x-hcl", "text/plain", "":
		return graphfile.FormatHCL, nil
	}
	return "", fmt.Errorf("%w: content type %q", graphfile.ErrUnknownFormat, mediaType)
}

// uploadVars collects var.<name>=<number> query parameters.
func uploadVars(q url.Values) (map[string]float64, error) {
	vars := map[string]float64{}
	for key, values := range q {
		name, ok := strings.CutPrefix(key, "var.")
		if !ok || len(values) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, fmt.Errorf("query %s=%q: %w", key, values[0], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("query %s=%q: %w", key, values[0], graphfile.ErrInvalidVariable)
		}
		vars[name] = v
	}
	return vars, nil
}

func (s *Server) handleGraphUpload(w http.ResponseWriter, r *http.Request) {
	format, err := uploadFormat(r)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err)
		return
	}
	vars, err := uploadVars(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return
	}
	graph, err := graphfile.Parse(format, src, "upload."+string(format), vars)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	entry := s.addGraph(string(format), graph, nil)
	s.logger.Debug("graph uploaded", "graph_id", entry.id, "format", format, "nodes", graph.Len())
	writeJSON(w, http.StatusCreated, entry.view())
}

func (s *Server) handleGraphGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupGraph(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if r.URL.Query().Get("format") == string(graphfile.FormatDOT) {
		text, err := graphfile.ToDOT(entry.graph)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = io.WriteString(w, text)
		return
	}
	writeJSON(w, http.StatusOK, entry.view())
}
