// Package match finds the stones a release would clear and scores them:
// how many cells, how many corners, and how many separate combos.
package match

import (
	"fmt"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/stone"
)

// MinRun is the shortest line of equal stones that clears.
const MinRun = 3

// Summary holds the counts the planner scores on.
type Summary struct {
	Cleared int
	// Boundary counts the distinct corner cells that are cleared. On a
	// single row or column corners coincide, so it is at most 2 there.
	Boundary int
	Combos   int
	// ReleaseEnds is set when the dragged stone itself would be cleared,
	// which ends the drag.
	ReleaseEnds bool
}

func (s Summary) String() string {
	return fmt.Sprintf("stones=%d, boundary=%d, combo=%d, end=%v",
		s.Cleared, s.Boundary, s.Combos, s.ReleaseEnds)
}

// Result is a Summary plus the removed mask: for every cell (flat index),
// the type of the run it belongs to, or stone.None.
type Result struct {
	Summary
	Removed []stone.Type
}

// RemovedAt reports whether the cell at p belongs to a run.
func (r *Result) RemovedAt(b *board.Board, p board.Pos) bool {
	return r.Removed[b.Index(p)] != stone.None
}

// markRuns scans rows and then columns, and marks every cell of every
// maximal run of at least MinRun equal stones.
func markRuns(b *board.Board, removed []stone.Type) {
	rows, cols := b.Rows(), b.Cols()
	for r := 0; r < rows; r++ {
		start := 0
		for c := 1; c <= cols; c++ {
			if c < cols && b.TypeAt(r*cols+c) == b.TypeAt(r*cols+start) {
				continue
			}
			t := b.TypeAt(r*cols + start)
			if c-start >= MinRun && t.Valid() {
				for k := start; k < c; k++ {
					removed[r*cols+k] = t
				}
			}
			start = c
		}
	}
	for c := 0; c < cols; c++ {
		start := 0
		for r := 1; r <= rows; r++ {
			if r < rows && b.TypeAt(r*cols+c) == b.TypeAt(start*cols+c) {
				continue
			}
			t := b.TypeAt(start*cols + c)
			if r-start >= MinRun && t.Valid() {
				for k := start; k < r; k++ {
					removed[k*cols+c] = t
				}
			}
			start = r
		}
	}
}

func corners(b *board.Board) []int {
	last := b.NumCells() - 1
	cs := [4]int{0, b.Cols() - 1, last - (b.Cols() - 1), last}
	// On a single row or column some corners coincide.
	uniq := make([]int, 0, 4)
outer:
	for _, c := range cs {
		for _, u := range uniq {
			if u == c {
				continue outer
			}
		}
		uniq = append(uniq, c)
	}
	return uniq
}

// countCombos counts the 4-connected same-type groups in the mask. The
// mask is consumed.
func countCombos(rows, cols int, mask []stone.Type) int {
	combos := 0
	queue := make([]int, 0, len(mask))
	for i, t := range mask {
		if t == stone.None {
			continue
		}
		combos++
		queue = append(queue[:0], i)
		mask[i] = stone.None
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			r, c := idx/cols, idx%cols
			if r+1 < rows && mask[idx+cols] == t {
				mask[idx+cols] = stone.None
				queue = append(queue, idx+cols)
			}
			if c+1 < cols && mask[idx+1] == t {
				mask[idx+1] = stone.None
				queue = append(queue, idx+1)
			}
			if r-1 >= 0 && mask[idx-cols] == t {
				mask[idx-cols] = stone.None
				queue = append(queue, idx-cols)
			}
			if c-1 >= 0 && mask[idx-1] == t {
				mask[idx-1] = stone.None
				queue = append(queue, idx-1)
			}
		}
	}
	return combos
}

// Evaluate scores b as if the drag were released now. b is not modified.
func Evaluate(b *board.Board) Result {
	removed := make([]stone.Type, b.NumCells())
	markRuns(b, removed)

	res := Result{Removed: removed}
	res.ReleaseEnds = removed[b.Index(b.Current())] != stone.None
	for _, t := range removed {
		if t != stone.None {
			res.Cleared++
		}
	}
	for _, idx := range corners(b) {
		if removed[idx] != stone.None {
			res.Boundary++
		}
	}
	scratch := make([]stone.Type, len(removed))
	copy(scratch, removed)
	res.Combos = countCombos(b.Rows(), b.Cols(), scratch)
	return res
}

// Annotate returns a copy of b with display markers set from r: cleared
// cells are marked Removed and the dragged stone Active.
func Annotate(b *board.Board, r Result) *board.Board {
	nb := b.Clone()
	for idx, t := range r.Removed {
		m := stone.Unmarked
		if t != stone.None {
			m = stone.Removed
		}
		nb.SetMarker(nb.PosOf(idx), m)
	}
	nb.SetMarker(nb.Current(), stone.Active)
	return nb
}
