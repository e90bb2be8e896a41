package internal

import "fmt"

// ReconstructPath walks predecessor links back from current to the start node
// and returns the path in start-to-current order. predecessor reports the
// previous node and whether current has one; the start node has none.
//
// A chain longer than limit means the links form a cycle, which only a broken
// traversal can produce, so it panics.
func ReconstructPath[NodeType comparable](
	predecessor func(NodeType) (NodeType, bool),
	current NodeType,
	limit int,
) []NodeType {
	path := []NodeType{current}
	for {
		previousNode, exists := predecessor(current)
		if !exists {
			break
		}
		if len(path) > limit {
			panic(fmt.Sprintf("path reconstruction: predecessor chain from %v exceeds %d nodes", path[0], limit))
		}
		path = append(path, previousNode)
		current = previousNode
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
