package pathfinding

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Comparison pairs an algorithm with the result of running it.
type Comparison struct {
	Algorithm Algorithm
	Result    SearchResult
}

// Compare runs each algorithm from startNode to goalNode as an independent
// run. Up to NumberOfWorkers runs execute at the same time; they share the
// read-only graph and nothing else. Results come back in the order of
// algorithms. Runs that do not rank by heuristic ignore WithHeuristic.
func Compare(
	contextObject context.Context,
	graph *Graph,
	startNode *Node,
	goalNode *Node,
	algorithms []Algorithm,
	options ...Option,
) ([]Comparison, error) {
	searchOptions := applyOptions(options)

	comparisons := make([]Comparison, len(algorithms))
	group, groupContext := errgroup.WithContext(contextObject)
	group.SetLimit(searchOptions.NumberOfWorkers)

	for i, algorithm := range algorithms {
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			result, err := Search(graph, algorithm, startNode, goalNode, options...)
			if err != nil {
				return err
			}
			comparisons[i] = Comparison{Algorithm: algorithm, Result: result}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return comparisons, nil
}
