package movegen

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/move"
)

func TestSuccessorsFromFreshRoot(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.NoMatches)
	is.NoErr(b.Reroot(board.Pos{Row: 2, Col: 2}))
	succs := Successors(b)
	is.Equal(len(succs), 4)
	for i, s := range succs {
		is.Equal(s.Move, move.All[i])
		is.Equal(s.Board.Previous(), board.Pos{Row: 2, Col: 2})
	}
}

func TestSuccessorsCorner(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.NoMatches)
	is.NoErr(b.Reroot(board.Pos{Row: 0, Col: 0}))
	succs := Successors(b)
	is.Equal(len(succs), 2)
	is.Equal(succs[0].Move, move.Down)
	is.Equal(succs[1].Move, move.Right)
}

func TestNoBacktrack(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.NoMatches)
	is.NoErr(b.Reroot(board.Pos{Row: 2, Col: 2}))
	frontier := []*board.Board{b}
	for depth := 0; depth < 4; depth++ {
		var next []*board.Board
		for _, fb := range frontier {
			for _, s := range Successors(fb) {
				is.True(s.Board.Current() != fb.Previous())
				is.Equal(s.Board.Previous(), fb.Current())
				next = append(next, s.Board)
			}
		}
		frontier = next
	}
	// 4 * 3 * 3 * 3 minus paths clipped by the edges.
	is.True(len(frontier) > 0)
	is.True(len(frontier) <= 4*27)
}

func TestTypeConservation(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom([]byte("conservation-seed-0123456789abcd"), 1024, 12)
	for trial := 0; trial < 20; trial++ {
		b, err := board.NewRandom(5, 6, rng)
		is.NoErr(err)
		want := b.Counts()
		cur := b
		for step := 0; step < 8; step++ {
			succs := Successors(cur)
			is.True(len(succs) > 0)
			for _, s := range succs {
				is.Equal(s.Board.Counts(), want)
			}
			cur = succs[rng.Intn(len(succs))].Board
		}
	}
}

func TestSuccessorsDoNotMutateInput(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.DarkTopLeft)
	is.NoErr(b.Reroot(board.Pos{Row: 1, Col: 1}))
	orig := b.Clone()
	_ = Successors(b)
	is.True(b.Equal(orig))
}

func TestApply(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.NoMatches)
	is.NoErr(b.Reroot(board.Pos{Row: 0, Col: 0}))

	_, err := Apply(b, move.Up)
	is.True(errors.Is(err, board.ErrOutOfBounds))

	nb, err := Apply(b, move.Right)
	is.NoErr(err)
	is.Equal(nb.Current(), board.Pos{Row: 0, Col: 1})

	_, err = Apply(nb, move.Left)
	is.True(errors.Is(err, ErrBacktrack))
	is.Equal(LegalMoves(nb), []move.Move{move.Down, move.Right})
}

func TestReplay(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.NoMatches)
	is.NoErr(b.Reroot(board.Pos{Row: 2, Col: 2}))
	boards, err := Replay(b, move.Sequence{move.Up, move.Right, move.Down})
	is.NoErr(err)
	is.Equal(len(boards), 4)
	is.Equal(boards[3].Current(), board.Pos{Row: 2, Col: 3})
	is.Equal(boards[3].Counts(), b.Counts())

	_, err = Replay(b, move.Sequence{move.Up, move.Down})
	is.True(errors.Is(err, ErrBacktrack))
}
