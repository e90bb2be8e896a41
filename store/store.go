// Package store keeps a sqlite history of finished search results.
// Only outcomes are stored; a search in progress is never persisted.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdrpinto/pathfinding"
)

// timeLayout has a fixed width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one finished search.
type Record struct {
	ID            ulid.ULID
	GraphID       string
	Algorithm     pathfinding.Algorithm
	Start         string
	End           string
	Found         bool
	Cost          float64
	Path          []string
	NodesExplored int
	Runtime       time.Duration
	CreatedAt     time.Time
}

// NewRecord describes result of running algorithm from start to end on the graph graphID.
func NewRecord(graphID string, algorithm pathfinding.Algorithm, start, end string, result pathfinding.SearchResult) Record {
	return Record{
		GraphID:       graphID,
		Algorithm:     algorithm,
		Start:         start,
		End:           end,
		Found:         result.Found,
		Cost:          result.Cost,
		Path:          result.PathNames(),
		NodesExplored: result.NodesExplored,
		Runtime:       result.Runtime,
	}
}

// History is a sqlite-backed result history.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS results (
			result_id TEXT PRIMARY KEY,
			graph_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			start_node TEXT NOT NULL,
			end_node TEXT NOT NULL,
			found INTEGER NOT NULL,
			cost REAL NOT NULL,
			path TEXT NOT NULL,
			nodes_explored INTEGER NOT NULL,
			runtime_ns INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &History{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// Save stores record, assigning an ID and creation time when they are unset,
// and returns the stored record.
func (h *History) Save(ctx context.Context, record Record) (Record, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = h.now()
	}
	record.CreatedAt = record.CreatedAt.UTC()
	if record.ID == (ulid.ULID{}) {
		record.ID = ulid.MustNew(ulid.Timestamp(record.CreatedAt), ulid.DefaultEntropy())
	}
	path, err := json.Marshal(record.Path)
	if err != nil {
		return Record{}, fmt.Errorf("encode path: %w", err)
	}

	_, err = h.db.ExecContext(ctx,
		`INSERT INTO results (result_id, graph_id, algorithm, start_node, end_node, found, cost, path, nodes_explored, runtime_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.GraphID,
		record.Algorithm.String(),
		record.Start,
		record.End,
		record.Found,
		record.Cost,
		string(path),
		record.NodesExplored,
		int64(record.Runtime),
		record.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert result: %w", err)
	}
	return record, nil
}

// List returns up to limit records, newest first. A limit of zero or less returns all.
func (h *History) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT result_id, graph_id, algorithm, start_node, end_node, found, cost, path, nodes_explored, runtime_ns, created_at
		 FROM results ORDER BY created_at DESC, result_id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		record    Record
		id        string
		algorithm string
		path      string
		runtime   int64
		createdAt string
	)
	err := rows.Scan(&id, &record.GraphID, &algorithm, &record.Start, &record.End,
		&record.Found, &record.Cost, &path, &record.NodesExplored, &runtime, &createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("scan result: %w", err)
	}

	if record.ID, err = ulid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("parse result id %q: %w", id, err)
	}
	if record.Algorithm, err = pathfinding.ParseAlgorithm(algorithm); err != nil {
		return Record{}, fmt.Errorf("result %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(path), &record.Path); err != nil {
		return Record{}, fmt.Errorf("result %s: decode path: %w", id, err)
	}
	if record.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Record{}, fmt.Errorf("result %s: parse created_at: %w", id, err)
	}
	record.Runtime = time.Duration(runtime)
	return record, nil
}
