package graphfile

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/pathfinding"
)

func weight(t *testing.T, graph *pathfinding.Graph, from, to string) float64 {
	t.Helper()
	a, err := graph.Node(from)
	require.NoError(t, err)
	b, err := graph.Node(to)
	require.NoError(t, err)
	edge, ok := a.Edge(b)
	require.True(t, ok, "no edge %s -> %s", from, to)
	return edge.Weight
}

func hasEdge(graph *pathfinding.Graph, from, to string) bool {
	a, _ := graph.Lookup(from)
	b, _ := graph.Lookup(to)
	if a == nil || b == nil {
		return false
	}
	_, ok := a.Edge(b)
	return ok
}

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
  edge "C" {
    bidirectional = true
  }
}

node "C" {}
`

func TestParseHCL(t *testing.T) {
	graph, err := ParseHCL([]byte(diamondHCL), "diamond.hcl", map[string]float64{"detour": 5})
	require.NoError(t, err)

	assert.Equal(t, 3, graph.Len())
	assert.Equal(t, 1.0, weight(t, graph, "A", "B"))
	assert.Equal(t, 5.0, weight(t, graph, "A", "C"))
	assert.Equal(t, 1.0, weight(t, graph, "B", "C"), "weight defaults to 1")
	assert.Equal(t, 1.0, weight(t, graph, "C", "B"))
	assert.False(t, hasEdge(graph, "B", "A"))

	result, err := pathfinding.Search(graph, pathfinding.Dijkstra, mustLookup(t, graph, "A"), mustLookup(t, graph, "C"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, result.PathNames())
}

func mustLookup(t *testing.T, graph *pathfinding.Graph, name string) *pathfinding.Node {
	t.Helper()
	node, err := graph.Node(name)
	require.NoError(t, err)
	return node
}

func TestParseHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		vars map[string]float64
		is   error
	}{
		{name: "syntax", src: `node "A" {`},
		{name: "undefined variable", src: "node \"A\" {\n edge \"A\" {\n weight = var.missing\n }\n}"},
		{name: "unknown target", src: "node \"A\" {\n edge \"B\" {}\n}", is: pathfinding.ErrNodeNotFound},
		{name: "negative weight", src: "node \"A\" {\n edge \"B\" {\n weight = -2\n }\n}\nnode \"B\" {}", is: pathfinding.ErrNegativeWeight},
		{name: "duplicate node", src: "node \"A\" {}\nnode \"A\" {}"},
		{name: "NaN variable", src: `node "A" {}`, vars: map[string]float64{"w": math.NaN()}, is: ErrInvalidVariable},
		{name: "infinite variable", src: `node "A" {}`, vars: map[string]float64{"w": math.Inf(1)}, is: ErrInvalidVariable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "broken.hcl", tt.vars)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseDOT(t *testing.T) {
	t.Run("directed", func(t *testing.T) {
		graph, err := ParseDOT([]byte(`digraph G { A -> B [weight=2]; B -> "C D"; E; }`))
		require.NoError(t, err)
		assert.Equal(t, 4, graph.Len())
		assert.Equal(t, 2.0, weight(t, graph, "A", "B"))
		assert.Equal(t, 1.0, weight(t, graph, "B", "C D"))
		assert.False(t, hasEdge(graph, "B", "A"))
		assert.True(t, graph.Contains("E"))
	})

	t.Run("undirected", func(t *testing.T) {
		graph, err := ParseDOT([]byte(`graph G { A -- B [weight="3.5"]; }`))
		require.NoError(t, err)
		assert.Equal(t, 3.5, weight(t, graph, "A", "B"))
		assert.Equal(t, 3.5, weight(t, graph, "B", "A"))
	})

	t.Run("invalid weight", func(t *testing.T) {
		_, err := ParseDOT([]byte(`digraph G { A -> B [weight=heavy]; }`))
		assert.Error(t, err)
	})

	t.Run("non-finite weight", func(t *testing.T) {
		for _, raw := range []string{`"NaN"`, `"Inf"`, `"+Inf"`} {
			_, err := ParseDOT([]byte(`digraph G { A -> B [weight=` + raw + `]; }`))
			assert.ErrorIs(t, err, pathfinding.ErrInvalidWeight, raw)
		}
	})

	t.Run("syntax", func(t *testing.T) {
		_, err := ParseDOT([]byte(`digraph G { A -> `))
		assert.Error(t, err)
	})
}

func TestToDOTRoundTrip(t *testing.T) {
	original, err := ParseHCL([]byte(diamondHCL), "diamond.hcl", map[string]float64{"detour": 2.5})
	require.NoError(t, err)

	text, err := ToDOT(original)
	require.NoError(t, err)
	parsed, err := ParseDOT([]byte(text))
	require.NoError(t, err)

	assert.Equal(t, original.Len(), parsed.Len())
	for _, node := range original.Nodes() {
		for _, edge := range node.Edges() {
			assert.Equal(t, edge.Weight, weight(t, parsed, node.Name(), edge.Neighbor.Name()))
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	hclPath := filepath.Join(dir, "diamond.hcl")
	require.NoError(t, os.WriteFile(hclPath, []byte(diamondHCL), 0o600))
	dotPath := filepath.Join(dir, "line.gv")
	require.NoError(t, os.WriteFile(dotPath, []byte(`digraph { A -> B; }`), 0o600))

	graph, err := Load(hclPath, map[string]float64{"detour": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, graph.Len())

	graph, err = Load(dotPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Len())

	_, err = Load(filepath.Join(dir, "graph.json"), nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.hcl"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"hcl": FormatHCL, ".HCL": FormatHCL, "dot": FormatDOT, ".gv": FormatDOT} {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
