package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestDeltas(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		m      Move
		dr, dc int
	}{
		{Up, -1, 0},
		{Down, 1, 0},
		{Left, 0, -1},
		{Right, 0, 1},
	}
	for _, tc := range cases {
		dr, dc := tc.m.Delta()
		is.Equal(dr, tc.dr)
		is.Equal(dc, tc.dc)
		odr, odc := tc.m.Opposite().Delta()
		is.Equal(odr, -dr)
		is.Equal(odc, -dc)
	}
}

func TestFromString(t *testing.T) {
	is := is.New(t)
	m, err := FromString("left")
	is.NoErr(err)
	is.Equal(m, Left)
	m, err = FromString("R")
	is.NoErr(err)
	is.Equal(m, Right)
	_, err = FromString("diagonal")
	is.True(errors.Is(err, ErrUnknownMove))
}

func TestSequence(t *testing.T) {
	is := is.New(t)
	s := Sequence{Up, Up, Right, Down}
	is.Equal(s.Names(), []string{"UP", "UP", "RIGHT", "DOWN"})
	is.Equal(s.ShortDescription(), "UURD")

	s2 := s.Append(Left)
	is.Equal(len(s), 4)
	is.Equal(len(s2), 5)
	is.Equal(s2[4], Left)
}

func TestParseSequence(t *testing.T) {
	is := is.New(t)
	s, err := ParseSequence("UP, down LEFT")
	is.NoErr(err)
	is.Equal(s, Sequence{Up, Down, Left})

	s, err = ParseSequence("UURDL")
	is.NoErr(err)
	is.Equal(s, Sequence{Up, Up, Right, Down, Left})

	s, err = ParseSequence("down")
	is.NoErr(err)
	is.Equal(s, Sequence{Down})

	_, err = ParseSequence("UXD")
	is.True(errors.Is(err, ErrUnknownMove))
}
