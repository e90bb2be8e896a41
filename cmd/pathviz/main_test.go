package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/pathfinding/config"
	"github.com/pdrpinto/pathfinding/graphfile"
	"github.com/pdrpinto/pathfinding/store"
)

const diamondHCL = `
node "A" {
  edge "B" {
    weight = 1
  }
  edge "C" {
    weight = var.detour
  }
}

node "B" {
  edge "C" {}
}

node "C" {}
`

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	out, err := runArgs(t, "-h")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "-graph")
}

func TestRun_Version(t *testing.T) {
	t.Parallel()
	out, err := runArgs(t, "-version")
	require.NoError(t, err)
	assert.Equal(t, "pathviz dev\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		"unknown flag":      {"--no-such-flag"},
		"positional":        {"extra"},
		"bad var":           {"-var", "width"},
		"var not a number":  {"-var", "width=wide"},
		"var NaN":           {"-var", "width=NaN"},
		"two modes":         {"-server", "-compare"},
		"tui on file":       {"-tui", "-graph", "g.hcl"},
		"bad algorithm":     {"-algorithm", "greedy"},
		"bad log level":     {"-log-level", "loud"},
		"missing config":    {"-config", filepath.Join(t.TempDir(), "missing.yaml")},
		"start outside":     {"-start", "99, 0"},
		"start not a cell":  {"-start", "origin"},
		"file without ends": {"-graph", writeFile(t, "diamond.hcl", diamondHCL), "-var", "detour=5"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runArgs(t, args...)
			requireExitCode(t, err, 2)
		})
	}
}

func TestRun_HeadlessGrid(t *testing.T) {
	t.Parallel()
	out, err := runArgs(t, "-algorithm", "dijkstra", "-log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "PathWeight: "), lines[0])
	assert.Contains(t, lines[0], "Nodes explored: ")
	assert.True(t, strings.HasPrefix(lines[1], "Path: 0, 0 -> "), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "-> 14, 14"), lines[1])
}

func TestRun_HeadlessStepPrintsEvents(t *testing.T) {
	t.Parallel()
	out, err := runArgs(t, "-algorithm", "bfs", "-step", "-start", "0,0", "-end", "1,0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "CURRENT 0, 0 g=0", lines[0])
	assert.Contains(t, out, "Path: 0, 0 -> 1, 0")
}

func TestRun_GraphFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "diamond.hcl", diamondHCL)

	out, err := runArgs(t, "-graph", path, "-var", "detour=5", "-start", "A", "-end", "C", "-algorithm", "astar")
	require.NoError(t, err)
	assert.Contains(t, out, "PathWeight: 2, Nodes explored: ")
	assert.Contains(t, out, "Path: A -> B -> C")

	out, err = runArgs(t, "-graph", path, "-var", "detour=1", "-start", "A", "-end", "C", "-algorithm", "dijkstra")
	require.NoError(t, err)
	assert.Contains(t, out, "Path: A -> C")

	_, err = runArgs(t, "-graph", path, "-var", "detour=1", "-start", "A", "-end", "Z")
	requireExitCode(t, err, 2)
}

func TestRun_Unreachable(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "split.dot", `digraph G { A -> B; C; }`)
	out, err := runArgs(t, "-graph", path, "-start", "A", "-end", "C")
	require.NoError(t, err)
	assert.Equal(t, "No path found, Nodes explored: 2\n", out)
}

func TestRun_CompareRecordsHistory(t *testing.T) {
	t.Parallel()
	historyPath := filepath.Join(t.TempDir(), "history.db")
	graphPath := writeFile(t, "diamond.hcl", diamondHCL)

	out, err := runArgs(t, "-compare", "-graph", graphPath, "-var", "detour=5",
		"-start", "A", "-end", "C", "-history", historyPath, "-workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "# A to C")
	for _, algorithm := range []string{"dfs", "bfs", "dijkstra", "astar"} {
		assert.Contains(t, out, "| "+algorithm+" | true |")
	}

	history, err := store.Open(historyPath)
	require.NoError(t, err)
	defer history.Close()
	records, err := history.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, record := range records {
		assert.Equal(t, "diamond.hcl", record.GraphID)
		assert.True(t, record.Found)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "pathviz.yaml", `
grid:
  width: 3
  height: 2
search:
  algorithm: bfs
`)
	out, err := runArgs(t, "-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-> 2, 1\n")

	out, err = runArgs(t, "-config", path, "-end", "1, 1")
	require.NoError(t, err)
	assert.Contains(t, out, "-> 1, 1\n")
}

func TestOptionsApplyOnlySetFlags(t *testing.T) {
	t.Parallel()
	opts, exit, err := parseArgs([]string{"-algorithm", "dfs", "-history", ""}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	cfg := config.Default()
	cfg.History.Path = "kept.db"
	cfg.Search.Start = "1, 1"
	opts.apply(&cfg)

	assert.Equal(t, "dfs", cfg.Search.Algorithm)
	assert.Empty(t, cfg.History.Path, "an explicitly empty flag still overrides")
	assert.Equal(t, "1, 1", cfg.Search.Start)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestVarFlag(t *testing.T) {
	t.Parallel()
	vars := varFlag{}
	require.NoError(t, vars.Set("b=2.5"))
	require.NoError(t, vars.Set(" a = 1 "))
	assert.Equal(t, "a=1,b=2.5", vars.String())
	assert.Error(t, vars.Set("=3"))
	assert.ErrorIs(t, vars.Set("c=NaN"), graphfile.ErrInvalidVariable)
	assert.ErrorIs(t, vars.Set("c=-Inf"), graphfile.ErrInvalidVariable)
}
