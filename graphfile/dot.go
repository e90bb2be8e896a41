package graphfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/pdrpinto/pathfinding"
)

const weightAttr = "weight"

// ParseDOT builds a graph from a Graphviz definition. Edges take their cost
// from the weight attribute, defaulting to 1. Undirected graphs connect both
// ways.
func ParseDOT(src []byte) (*pathfinding.Graph, error) {
	ast, err := gographviz.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOT graph: %w", err)
	}
	parsed := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, parsed); err != nil {
		return nil, fmt.Errorf("failed to analyse DOT graph: %w", err)
	}

	graph := pathfinding.NewGraph()
	for _, node := range parsed.Nodes.Nodes {
		graph.AddNode(pathfinding.NewNode(unquote(node.Name)))
	}
	for _, edge := range parsed.Edges.Edges {
		from, to := unquote(edge.Src), unquote(edge.Dst)
		graph.AddNode(pathfinding.NewNode(from))
		graph.AddNode(pathfinding.NewNode(to))

		weight := defaultWeight
		if raw, ok := edge.Attrs[gographviz.Attr(weightAttr)]; ok {
			weight, err = strconv.ParseFloat(unquote(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("edge %s -> %s: invalid weight %q: %w", from, to, raw, err)
			}
		}
		connect := graph.Connect
		if !parsed.Directed {
			connect = graph.ConnectBoth
		}
		if err := connect(from, to, weight); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", from, to, err)
		}
	}
	return graph, nil
}

// ToDOT renders graph as a directed Graphviz definition that ParseDOT reads back.
func ToDOT(graph *pathfinding.Graph) (string, error) {
	out := gographviz.NewGraph()
	if err := out.SetName("G"); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}
	for _, node := range graph.Nodes() {
		if err := out.AddNode("G", strconv.Quote(node.Name()), nil); err != nil {
			return "", err
		}
	}
	for _, node := range graph.Nodes() {
		for _, edge := range node.Edges() {
			attrs := map[string]string{
				weightAttr: strconv.Quote(strconv.FormatFloat(edge.Weight, 'g', -1, 64)),
			}
			if err := out.AddEdge(strconv.Quote(node.Name()), strconv.Quote(edge.Neighbor.Name()), true, attrs); err != nil {
				return "", err
			}
		}
	}
	return out.String(), nil
}

func unquote(id string) string {
	if strings.HasPrefix(id, `"`) {
		if unquoted, err := strconv.Unquote(id); err == nil {
			return unquoted
		}
	}
	return id
}
