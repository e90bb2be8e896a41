package graphfile

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/pdrpinto/pathfinding"
)

const defaultWeight = 1.0

// hclGraphFile is the top-level structure of a graph file for decoding.
type hclGraphFile struct {
	Nodes []*hclNode `hcl:"node,block"`
}

type hclNode struct {
	Name  string     `hcl:"name,label"`
	Edges []*hclEdge `hcl:"edge,block"`
}

type hclEdge struct {
	To            string   `hcl:"to,label"`
	Weight        *float64 `hcl:"weight,optional"`
	Bidirectional bool     `hcl:"bidirectional,optional"`
}

// ParseHCL builds a graph from an HCL definition. All nodes are created
// before any edge, so edges may point at nodes declared later in the file.
func ParseHCL(src []byte, filename string, vars map[string]float64) (*pathfinding.Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	ctx, err := evalContext(vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	var parsed hclGraphFile
	diags = gohcl.DecodeBody(file.Body, ctx, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	graph := pathfinding.NewGraph()
	for _, node := range parsed.Nodes {
		if !graph.AddNode(pathfinding.NewNode(node.Name)) {
			return nil, fmt.Errorf("%s: node %q declared twice", filename, node.Name)
		}
	}
	for _, node := range parsed.Nodes {
		for _, edge := range node.Edges {
			weight := defaultWeight
			if edge.Weight != nil {
				weight = *edge.Weight
			}
			connect := graph.Connect
			if edge.Bidirectional {
				connect = graph.ConnectBoth
			}
			if err := connect(node.Name, edge.To, weight); err != nil {
				return nil, fmt.Errorf("%s: edge %s -> %s: %w", filename, node.Name, edge.To, err)
			}
		}
	}
	return graph, nil
}

func evalContext(vars map[string]float64) (*hcl.EvalContext, error) {
	values := make(map[string]cty.Value, len(vars))
	for name, value := range vars {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("var.%s = %v: %w", name, value, ErrInvalidVariable)
		}
		values[name] = cty.NumberFloatVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
	}, nil
}
