package pathfinding

import "container/heap"

// frontier holds discovered nodes that wait to be expanded.
type frontier interface {
	Push(node *Node)
	Pop() *Node
	Len() int
	// Fix is called after the PathData of node improved.
	Fix(node *Node)
	// Reopens reports whether improved explored nodes go back into the frontier.
	Reopens() bool
}

// --- Last in, first out ---

type stackFrontier struct{ nodes []*Node }

func (stack *stackFrontier) Push(node *Node) { stack.nodes = append(stack.nodes, node) }

func (stack *stackFrontier) Pop() *Node {
	last := len(stack.nodes) - 1
	node := stack.nodes[last]
	stack.nodes[last] = nil
	stack.nodes = stack.nodes[:last]
	return node
}

func (stack *stackFrontier) Len() int  { return len(stack.nodes) }
func (stack *stackFrontier) Fix(*Node) {}
func (stack *stackFrontier) Reopens() bool {
	return false
}

// --- First in, first out ---

type queueFrontier struct {
	nodes []*Node
	head  int
}

func (queue *queueFrontier) Push(node *Node) { queue.nodes = append(queue.nodes, node) }

func (queue *queueFrontier) Pop() *Node {
	node := queue.nodes[queue.head]
	queue.nodes[queue.head] = nil
	queue.head++
	if queue.head == len(queue.nodes) {
		queue.nodes = queue.nodes[:0]
		queue.head = 0
	}
	return node
}

func (queue *queueFrontier) Len() int      { return len(queue.nodes) - queue.head }
func (queue *queueFrontier) Fix(*Node)     {}
func (queue *queueFrontier) Reopens() bool { return false }

// --- Priority on PathData.Total ---

type priorityQueueItem struct {
	Node         *Node
	Sequence     int
	IndexInQueue int
}

// priorityQueue orders items by the PathData they point at. Ties on the total
// go to the smaller heuristic, then to the earlier insertion.
type priorityQueue struct {
	items    []*priorityQueueItem
	pathData map[*Node]*PathData
}

func (queue priorityQueue) Len() int { return len(queue.items) }

func (queue priorityQueue) Less(i, j int) bool {
	left, right := queue.pathData[queue.items[i].Node], queue.pathData[queue.items[j].Node]
	if left.Total() != right.Total() {
		return left.Total() < right.Total()
	}
	if left.Heuristic != right.Heuristic {
		return left.Heuristic < right.Heuristic
	}
	return queue.items[i].Sequence < queue.items[j].Sequence
}

func (queue priorityQueue) Swap(i, j int) {
	queue.items[i], queue.items[j] = queue.items[j], queue.items[i]
	queue.items[i].IndexInQueue = i
	queue.items[j].IndexInQueue = j
}

func (queue *priorityQueue) Push(x any) {
	item := x.(*priorityQueueItem)
	item.IndexInQueue = len(queue.items)
	queue.items = append(queue.items, item)
}

func (queue *priorityQueue) Pop() any {
	oldItems := queue.items
	n := len(oldItems)
	item := oldItems[n-1]
	oldItems[n-1] = nil
	item.IndexInQueue = -1
	queue.items = oldItems[:n-1]
	return item
}

type priorityFrontier struct {
	queue    priorityQueue
	queueMap map[*Node]*priorityQueueItem
	sequence int
}

func newPriorityFrontier(pathData map[*Node]*PathData) *priorityFrontier {
	return &priorityFrontier{
		queue:    priorityQueue{pathData: pathData},
		queueMap: make(map[*Node]*priorityQueueItem),
	}
}

func (pf *priorityFrontier) Push(node *Node) {
	if item, queued := pf.queueMap[node]; queued {
		heap.Fix(&pf.queue, item.IndexInQueue)
		return
	}
	item := &priorityQueueItem{Node: node, Sequence: pf.sequence}
	pf.sequence++
	heap.Push(&pf.queue, item)
	pf.queueMap[node] = item
}

func (pf *priorityFrontier) Pop() *Node {
	item := heap.Pop(&pf.queue).(*priorityQueueItem)
	delete(pf.queueMap, item.Node)
	return item.Node
}

func (pf *priorityFrontier) Len() int { return pf.queue.Len() }

func (pf *priorityFrontier) Fix(node *Node) {
	if item, queued := pf.queueMap[node]; queued {
		heap.Fix(&pf.queue, item.IndexInQueue)
	}
}

func (pf *priorityFrontier) Reopens() bool { return true }
