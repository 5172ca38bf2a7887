package solver

import (
	"container/heap"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/move"
)

// node is one visited drag state. Nodes are ordered by cost, then by the
// order they were pushed in; boards and move lists are never compared.
type node struct {
	cost  float64
	seq   uint64
	moves move.Sequence
	board *board.Board
	key   uint64
}

func (n *node) less(o *node) bool {
	if n.cost != o.cost {
		return n.cost < o.cost
	}
	return n.seq < o.seq
}

type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].less(h[j]) }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// nodeQueue is a min-priority queue of nodes that stamps every pushed node
// with a monotonically increasing sequence number.
type nodeQueue struct {
	h   nodeHeap
	seq uint64
}

func (q *nodeQueue) push(n *node) {
	q.seq++
	n.seq = q.seq
	heap.Push(&q.h, n)
}

func (q *nodeQueue) pop() *node {
	return heap.Pop(&q.h).(*node)
}

func (q *nodeQueue) len() int {
	return q.h.Len()
}
