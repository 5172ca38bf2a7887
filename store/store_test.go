package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/move"
	"github.com/runedrag/runedrag/solver"
)

func plan(b *board.Board, moves move.Sequence) *solver.Plan {
	return &solver.Plan{
		Start:   b.Current(),
		Initial: b,
		Final:   b,
		Moves:   moves,
		Result:  match.Evaluate(b),
		Nodes:   1234,
		Elapsed: 1500 * time.Millisecond,
	}
}

func TestSaveAndQuery(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	is.NoErr(err)
	defer s.Close()

	dark := board.Sample(board.DarkTopLeft)
	other := board.Sample(board.NoMatches)

	id1, err := s.Save(ctx, dark, plan(dark, move.Sequence{move.Up, move.Left}))
	is.NoErr(err)
	id2, err := s.Save(ctx, other, plan(other, nil))
	is.NoErr(err)
	id3, err := s.Save(ctx, dark, plan(dark, move.Sequence{move.Down}))
	is.NoErr(err)
	is.True(id1 < id2 && id2 < id3)

	recent, err := s.Recent(ctx, 2)
	is.NoErr(err)
	is.Equal(len(recent), 2)
	is.Equal(recent[0].ID, id3)
	is.Equal(recent[1].ID, id2)

	byBoard, err := s.ByBoard(ctx, BoardHash(dark))
	is.NoErr(err)
	is.Equal(len(byBoard), 2)
	r := byBoard[1]
	is.Equal(r.ID, id1)
	is.Equal(r.Board, dark.Letters())
	is.Equal(r.Hash, BoardHash(dark))
	is.Equal(r.Moves, "UL")
	is.Equal(r.Steps, 2)
	is.Equal(r.Cleared, 3)
	is.Equal(r.Combos, 1)
	is.Equal(r.Nodes, uint64(1234))
	is.Equal(r.Elapsed, 1500*time.Millisecond)
	is.True(!r.Created.IsZero())
}

func TestBoardHashIgnoresFinger(t *testing.T) {
	is := is.New(t)
	a := board.Sample(board.LShape)
	b := a.Clone()
	is.NoErr(b.Reroot(board.Pos{Row: 4, Col: 4}))
	is.Equal(BoardHash(a), BoardHash(b))
	is.True(BoardHash(a) != BoardHash(board.Sample(board.NoMatches)))
}

func TestSaveNilPlan(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	is.NoErr(err)
	defer s.Close()
	_, err = s.Save(ctx, board.Sample(board.NoMatches), nil)
	is.True(errors.Is(err, ErrNoPlan))
}
