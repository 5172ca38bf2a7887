// Package movegen generates the boards reachable from a board by one slide
// of the dragged stone.
package movegen

import (
	"errors"
	"fmt"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/move"
)

var ErrBacktrack = errors.New("move returns to the previous cell")

// Successor is a legal move and the board it produces.
type Successor struct {
	Move  move.Move
	Board *board.Board
}

// target returns the cell the finger would land on, and whether the move
// is legal: in bounds and not straight back to the previous cell.
func target(b *board.Board, m move.Move) (board.Pos, bool) {
	dr, dc := m.Delta()
	cand := b.Current().Add(dr, dc)
	if !b.InBounds(cand) || cand == b.Previous() {
		return cand, false
	}
	return cand, true
}

// Successors returns every legal (move, board) pair from b, in move
// generation order. b is never modified; each successor is a fresh clone.
func Successors(b *board.Board) []Successor {
	succs := make([]Successor, 0, len(move.All))
	for _, m := range move.All {
		cand, ok := target(b, m)
		if !ok {
			continue
		}
		nb := b.Clone()
		if err := nb.Drag(cand); err != nil {
			// target() already checked bounds.
			panic(fmt.Sprintf("movegen invariant violated: %v", err))
		}
		succs = append(succs, Successor{Move: m, Board: nb})
	}
	return succs
}

// LegalMoves returns the moves Successors would generate, without building
// any boards.
func LegalMoves(b *board.Board) []move.Move {
	ms := make([]move.Move, 0, len(move.All))
	for _, m := range move.All {
		if _, ok := target(b, m); ok {
			ms = append(ms, m)
		}
	}
	return ms
}

// Apply returns the successor of b for one move.
func Apply(b *board.Board, m move.Move) (*board.Board, error) {
	cand, ok := target(b, m)
	if !ok {
		if !b.InBounds(cand) {
			return nil, fmt.Errorf("%v from %v: %w", m, b.Current(), board.ErrOutOfBounds)
		}
		return nil, fmt.Errorf("%v from %v: %w", m, b.Current(), ErrBacktrack)
	}
	nb := b.Clone()
	if err := nb.Drag(cand); err != nil {
		return nil, err
	}
	return nb, nil
}

// Replay applies a sequence of moves and returns every intermediate board,
// starting with a clone of b itself.
func Replay(b *board.Board, seq move.Sequence) ([]*board.Board, error) {
	boards := make([]*board.Board, 0, len(seq)+1)
	cur := b.Clone()
	boards = append(boards, cur)
	for i, m := range seq {
		nb, err := Apply(cur, m)
		if err != nil {
			return boards, fmt.Errorf("step %d: %w", i+1, err)
		}
		boards = append(boards, nb)
		cur = nb
	}
	return boards, nil
}
