package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/runedrag/runedrag/stone"
)

func TestNewInvalidDims(t *testing.T) {
	is := is.New(t)
	_, err := New(0, 6)
	is.True(errors.Is(err, ErrInvalidDims))
	_, err = New(5, -1)
	is.True(errors.Is(err, ErrInvalidDims))
}

func TestFromLettersRagged(t *testing.T) {
	is := is.New(t)
	_, err := FromLetters("DLW", "DL")
	is.True(errors.Is(err, ErrInvalidDims))
	_, err = FromLetters("DLX")
	is.True(errors.Is(err, stone.ErrUnknownType))
}

func TestFromLettersSpaced(t *testing.T) {
	is := is.New(t)
	b, err := FromLetters("D L W", "F E H")
	is.NoErr(err)
	is.Equal(b.Rows(), 2)
	is.Equal(b.Cols(), 3)
	is.Equal(b.At(Pos{1, 2}), stone.Health)
	is.Equal(b.Letters(), "D L W\nF E H\n")
}

func TestSwapKeepsMarkers(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	is.Equal(b.Stone(Pos{0, 0}).Marker, stone.Active)
	is.NoErr(b.Swap(Pos{0, 0}, Pos{0, 1}))
	is.Equal(b.At(Pos{0, 0}), stone.Light)
	is.Equal(b.At(Pos{0, 1}), stone.Dark)
	is.Equal(b.Stone(Pos{0, 0}).Marker, stone.Active)
	is.Equal(b.Stone(Pos{0, 1}).Marker, stone.Unmarked)
}

func TestSwapOutOfBounds(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	err := b.Swap(Pos{0, 0}, Pos{5, 0})
	is.True(errors.Is(err, ErrOutOfBounds))
	err = b.Swap(Pos{-1, 0}, Pos{0, 0})
	is.True(errors.Is(err, ErrOutOfBounds))
}

func TestSetCurrent(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	is.NoErr(b.SetCurrent(Pos{2, 3}))
	is.Equal(b.Current(), Pos{2, 3})
	is.Equal(b.Previous(), Pos{0, 0})
	is.Equal(b.Stone(Pos{2, 3}).Marker, stone.Active)
	is.Equal(b.Stone(Pos{0, 0}).Marker, stone.Unmarked)

	is.NoErr(b.SetCurrent(Pos{2, 4}))
	is.Equal(b.Previous(), Pos{2, 3})

	err := b.SetCurrent(Pos{9, 9})
	is.True(errors.Is(err, ErrOutOfBounds))
	is.Equal(b.Current(), Pos{2, 4})
}

func TestReroot(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	is.NoErr(b.SetCurrent(Pos{1, 1}))
	is.NoErr(b.Reroot(Pos{3, 3}))
	is.Equal(b.Current(), Pos{3, 3})
	is.Equal(b.Previous(), Pos{3, 3})
}

func TestDrag(t *testing.T) {
	is := is.New(t)
	b := Sample(OneSwapAway)
	is.NoErr(b.Reroot(Pos{2, 2}))
	is.NoErr(b.Drag(Pos{2, 3}))
	is.Equal(b.Current(), Pos{2, 3})
	is.Equal(b.Previous(), Pos{2, 2})
	is.Equal(b.At(Pos{2, 2}), stone.Fire)
	is.Equal(b.At(Pos{2, 3}), stone.Light)
	is.Equal(b.Stone(Pos{2, 3}).Marker, stone.Active)
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	b := Sample(DarkTopLeft)
	c := b.Clone()
	is.True(b.Equal(c))
	is.NoErr(c.Drag(Pos{0, 1}))
	is.True(!b.Equal(c))
	is.Equal(b.At(Pos{0, 0}), stone.Dark)
	is.Equal(b.Current(), Pos{0, 0})
}

func TestEqualIgnoresMarkers(t *testing.T) {
	is := is.New(t)
	b := Sample(DarkTopLeft)
	c := b.Clone()
	c.SetMarker(Pos{0, 1}, stone.Removed)
	is.True(b.Equal(c))
}

func TestCopyFrom(t *testing.T) {
	is := is.New(t)
	b := Sample(DarkTopLeft)
	var c Board
	c.CopyFrom(b)
	is.True(b.Equal(&c))
}

func TestCounts(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	counts := b.Counts()
	is.Equal(counts[stone.None], 0)
	for _, tp := range stone.Types {
		is.Equal(counts[tp], 5)
	}
	is.True(b.Complete())
	e, err := New(2, 2)
	is.NoErr(err)
	is.True(!e.Complete())
}

func TestNewRandom(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	b, err := NewRandom(5, 6, rng)
	is.NoErr(err)
	is.True(b.Complete())
	is.True(b.InBounds(b.Current()))
	is.Equal(b.Current(), b.Previous())

	rng2 := frand.NewCustom(make([]byte, 32), 1024, 12)
	b2, err := NewRandom(5, 6, rng2)
	is.NoErr(err)
	is.True(b.Equal(b2)) // same seed, same board
}

func TestString(t *testing.T) {
	is := is.New(t)
	b := Sample(NoMatches)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	is.Equal(len(lines), 5)
	is.True(strings.Contains(lines[0], "D[*]"))
}
