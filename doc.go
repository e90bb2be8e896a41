// Package pathfinding provides an incremental graph search engine for visualizing
// depth-first, breadth-first, Dijkstra and A* search over a weighted directed graph.
//
// It exposes two main entry points:
//
//   - Search: run an algorithm to completion and get a SearchResult.
//   - Start: get a Run that advances one controlled increment per Resume call,
//     recording CURRENT / DISCOVERED / PROCESSED events that the caller drains
//     between resumes to drive UIs or debugging tools.
//
// All four algorithms share one traversal loop and differ only in how the
// frontier orders nodes. A Run owns its frontier, explored set and per-node
// PathData, so the loop can stop at a suspension point and pick up again later
// without relying on goroutines.
package pathfinding
