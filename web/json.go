package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

type edgeJSON struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

type graphJSON struct {
	ID     string     `json:"id"`
	Kind   string     `json:"kind"`
	Nodes  []string   `json:"nodes"`
	Edges  []edgeJSON `json:"edges"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	// Heights is indexed [y][x].
	Heights [][]int  `json:"heights,omitempty"`
	Walls   [][2]int `json:"walls,omitempty"`
}

type eventJSON struct {
	Node      string   `json:"node"`
	State     string   `json:"state"`
	Previous  string   `json:"previous,omitempty"`
	Cost      float64  `json:"cost"`
	Heuristic *float64 `json:"heuristic,omitempty"`
	Total     float64  `json:"total"`
}

func newEventJSON(entry pathfinding.LogEntry) eventJSON {
	event := eventJSON{
		Node:  entry.Node.Name(),
		State: entry.State.String(),
		Cost:  entry.Data.Cost,
		Total: entry.Data.Total(),
	}
	if entry.Data.Previous != nil {
		event.Previous = entry.Data.Previous.Name()
	}
	if entry.Data.HasHeuristic {
		heuristic := entry.Data.Heuristic
		event.Heuristic = &heuristic
	}
	return event
}

type resultJSON struct {
	Found         bool     `json:"found"`
	Cost          float64  `json:"cost"`
	Path          []string `json:"path"`
	NodesExplored int      `json:"nodes_explored"`
	RuntimeNanos  int64    `json:"runtime_ns"`
	Summary       string   `json:"summary"`
}

// runJSON is the view of a run after a request. Events holds only what the
// request produced; Nodes holds the latest state of every node touched so far.
type runJSON struct {
	ID        string            `json:"id"`
	GraphID   string            `json:"graph_id"`
	Algorithm string            `json:"algorithm"`
	Start     string            `json:"start"`
	End       string            `json:"end"`
	StepMode  bool              `json:"step_mode"`
	Step      int               `json:"step"`
	Done      bool              `json:"done"`
	Current   string            `json:"current,omitempty"`
	Nodes     map[string]string `json:"nodes"`
	Events    []eventJSON       `json:"events,omitempty"`
	Result    *resultJSON       `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type recordJSON struct {
	ID            string    `json:"id"`
	GraphID       string    `json:"graph_id"`
	Algorithm     string    `json:"algorithm"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Found         bool      `json:"found"`
	Cost          float64   `json:"cost"`
	Path          []string  `json:"path"`
	NodesExplored int       `json:"nodes_explored"`
	RuntimeNanos  int64     `json:"runtime_ns"`
	CreatedAt     time.Time `json:"created_at"`
}

func newRecordJSON(record store.Record) recordJSON {
	return recordJSON{
		ID:            record.ID.String(),
		GraphID:       record.GraphID,
		Algorithm:     record.Algorithm.String(),
		Start:         record.Start,
		End:           record.End,
		Found:         record.Found,
		Cost:          record.Cost,
		Path:          record.Path,
		NodesExplored: record.NodesExplored,
		RuntimeNanos:  record.Runtime.Nanoseconds(),
		CreatedAt:     record.CreatedAt,
	}
}
