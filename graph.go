package pathfinding

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNodeNotFound is returned when a node name is not part of a graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned when a node has no edge to the requested neighbor.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrNegativeWeight is returned for edge weights below zero.
	ErrNegativeWeight = errors.New("edge weight must not be negative")
	// ErrInvalidWeight is returned for NaN and infinite edge weights.
	ErrInvalidWeight = errors.New("edge weight must be a finite number")
)

// Edge is a directed, weighted connection to a neighbor node.
// The edge does not own its neighbor; the Graph does.
type Edge struct {
	Neighbor *Node
	Weight   float64
}

// Node is identified by its name and owns its outgoing edges.
type Node struct {
	name  string
	edges []*Edge
}

// NewNode creates a node without edges.
func NewNode(name string) *Node {
	return &Node{name: name}
}

func (node *Node) Name() string { return node.name }

func (node *Node) String() string { return node.name }

// Edges returns the outgoing edges in insertion order. The slice must not be modified.
func (node *Node) Edges() []*Edge { return node.edges }

// Equal reports whether both nodes carry the same name.
func (node *Node) Equal(other *Node) bool {
	if node == nil || other == nil {
		return node == other
	}
	return node.name == other.name
}

// Edge returns the edge leading to neighbor, if any.
func (node *Node) Edge(neighbor *Node) (*Edge, bool) {
	index := node.edgeIndex(neighbor)
	if index < 0 {
		return nil, false
	}
	return node.edges[index], true
}

// AddEdge connects node to neighbor. Adding an edge to a neighbor that is
// already connected is a no-op and keeps the existing weight.
func (node *Node) AddEdge(neighbor *Node, weight float64) error {
	if neighbor == nil {
		return fmt.Errorf("%s -> <nil>: %w", node.name, ErrNodeNotFound)
	}
	if err := checkWeight(weight); err != nil {
		return fmt.Errorf("%s -> %s: %w", node.name, neighbor.Name(), err)
	}
	if node.edgeIndex(neighbor) >= 0 {
		return nil
	}
	node.edges = append(node.edges, &Edge{Neighbor: neighbor, Weight: weight})
	return nil
}

// RemoveEdge removes the edge to neighbor and reports whether it existed.
func (node *Node) RemoveEdge(neighbor *Node) bool {
	index := node.edgeIndex(neighbor)
	if index < 0 {
		return false
	}
	node.edges = append(node.edges[:index], node.edges[index+1:]...)
	return true
}

// SetEdgeWeight changes the weight of the edge to neighbor.
func (node *Node) SetEdgeWeight(neighbor *Node, weight float64) error {
	if neighbor == nil {
		return fmt.Errorf("%s -> <nil>: %w", node.name, ErrEdgeNotFound)
	}
	if err := checkWeight(weight); err != nil {
		return fmt.Errorf("%s -> %s: %w", node.name, neighbor.Name(), err)
	}
	index := node.edgeIndex(neighbor)
	if index < 0 {
		return fmt.Errorf("%s -> %s: %w", node.name, neighbor.Name(), ErrEdgeNotFound)
	}
	node.edges[index].Weight = weight
	return nil
}

// checkWeight accepts finite weights from zero up.
func checkWeight(weight float64) error {
	switch {
	case math.IsNaN(weight) || math.IsInf(weight, 0):
		return ErrInvalidWeight
	case weight < 0:
		return ErrNegativeWeight
	}
	return nil
}

func (node *Node) edgeIndex(neighbor *Node) int {
	for i, edge := range node.edges {
		if edge.Neighbor.Equal(neighbor) {
			return i
		}
	}
	return -1
}

// Graph owns a set of nodes keyed by their unique name.
// A Graph must not be modified while a Run over it is in progress.
type Graph struct {
	nodes map[string]*Node
}

// NewGraph creates a graph holding the given nodes. Later duplicates are ignored.
func NewGraph(nodes ...*Node) *Graph {
	graph := &Graph{nodes: make(map[string]*Node, len(nodes))}
	for _, node := range nodes {
		graph.AddNode(node)
	}
	return graph
}

// AddNode inserts node and reports whether it was added. A node whose name is
// already taken is rejected.
func (graph *Graph) AddNode(node *Node) bool {
	if node == nil {
		return false
	}
	if graph.nodes == nil {
		graph.nodes = make(map[string]*Node)
	}
	if _, exists := graph.nodes[node.name]; exists {
		return false
	}
	graph.nodes[node.name] = node
	return true
}

// RemoveNode deletes the named node and every edge pointing at it.
// It reports whether the node existed.
func (graph *Graph) RemoveNode(name string) bool {
	removed, exists := graph.nodes[name]
	if !exists {
		return false
	}
	delete(graph.nodes, name)
	for _, node := range graph.nodes {
		node.RemoveEdge(removed)
	}
	return true
}

func (graph *Graph) Contains(name string) bool {
	_, exists := graph.nodes[name]
	return exists
}

// Node returns the named node or an error wrapping ErrNodeNotFound.
func (graph *Graph) Node(name string) (*Node, error) {
	node, exists := graph.nodes[name]
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrNodeNotFound)
	}
	return node, nil
}

// Lookup returns the named node and whether it exists.
func (graph *Graph) Lookup(name string) (*Node, bool) {
	node, exists := graph.nodes[name]
	return node, exists
}

func (graph *Graph) Len() int { return len(graph.nodes) }

// Nodes returns all nodes sorted by name.
func (graph *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(graph.nodes))
	for _, node := range graph.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].name < nodes[j].name })
	return nodes
}

// owns reports whether node is the instance stored under its name.
func (graph *Graph) owns(node *Node) bool {
	if node == nil {
		return false
	}
	stored, exists := graph.nodes[node.name]
	return exists && stored == node
}

// Connect adds a directed edge between two named nodes.
func (graph *Graph) Connect(from, to string, weight float64) error {
	fromNode, err := graph.Node(from)
	if err != nil {
		return err
	}
	toNode, err := graph.Node(to)
	if err != nil {
		return err
	}
	return fromNode.AddEdge(toNode, weight)
}

// ConnectBoth adds one edge in each direction with the same weight.
func (graph *Graph) ConnectBoth(a, b string, weight float64) error {
	if err := graph.Connect(a, b, weight); err != nil {
		return err
	}
	return graph.Connect(b, a, weight)
}
