package boardio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/stone"
)

const fiveBySix = `D D D L W F
L W F E H L
W F E H D W
F E H D L E
E H W L W F
`

func TestReadStrict(t *testing.T) {
	is := is.New(t)
	base := board.Sample(board.NoMatches)
	b, err := Read(strings.NewReader(fiveBySix), base, PolicyStrict)
	is.NoErr(err)
	is.True(b.Equal(board.Sample(board.DarkTopLeft)))
	// finger stays where the base board had it
	is.Equal(b.Current(), base.Current())
	// base untouched
	is.True(base.Equal(board.Sample(board.NoMatches)))
}

func TestReadPosition(t *testing.T) {
	is := is.New(t)
	b, err := Read(strings.NewReader(fiveBySix+"@ 3 4\n"), board.Sample(board.NoMatches), PolicyStrict)
	is.NoErr(err)
	is.Equal(b.Current(), board.Pos{Row: 3, Col: 4})
	is.Equal(b.Previous(), board.Pos{Row: 3, Col: 4})
	is.Equal(b.Stone(board.Pos{Row: 3, Col: 4}).Marker, stone.Active)

	_, err = Read(strings.NewReader(fiveBySix+"@ 9 4\n"), board.Sample(board.NoMatches), PolicyStrict)
	is.True(errors.Is(err, ErrInvalidInput))
	is.True(errors.Is(err, board.ErrOutOfBounds))

	_, err = Read(strings.NewReader(fiveBySix+"@ 1\n"), board.Sample(board.NoMatches), PolicyStrict)
	is.True(errors.Is(err, ErrInvalidInput))
}

func TestReadStrictErrors(t *testing.T) {
	is := is.New(t)
	base := board.Sample(board.NoMatches)

	short := strings.Replace(fiveBySix, "L W F E H L\n", "L W F E H\n", 1)
	_, err := Read(strings.NewReader(short), base, PolicyStrict)
	is.True(errors.Is(err, ErrInvalidInput))
	is.True(strings.Contains(err.Error(), "line 2"))

	_, err = Read(strings.NewReader("D D D L W F\n"), base, PolicyStrict)
	is.True(errors.Is(err, ErrInvalidInput))

	_, err = Read(strings.NewReader(fiveBySix+"D D D L W F\n"), base, PolicyStrict)
	is.True(errors.Is(err, ErrInvalidInput))

	// trailing blank lines are fine
	_, err = Read(strings.NewReader(fiveBySix+"\n\n"), base, PolicyStrict)
	is.NoErr(err)
}

func TestReadSkip(t *testing.T) {
	is := is.New(t)
	base := board.Sample(board.NoMatches)

	in := strings.Replace(fiveBySix, "L W F E H L\n", "L W F\n", 1)
	b, err := Read(strings.NewReader(in), base, PolicySkip)
	is.NoErr(err)
	for c := 0; c < 6; c++ {
		// row 1 comes from the base board, the rest from the input
		is.Equal(b.At(board.Pos{Row: 1, Col: c}), base.At(board.Pos{Row: 1, Col: c}))
		is.Equal(b.At(board.Pos{Row: 0, Col: c}), board.Sample(board.DarkTopLeft).At(board.Pos{Row: 0, Col: c}))
	}

	// missing rows keep the base
	b, err = Read(strings.NewReader("D D D D D D\n"), base, PolicySkip)
	is.NoErr(err)
	is.Equal(b.At(board.Pos{Row: 0, Col: 5}), stone.Dark)
	is.Equal(b.At(board.Pos{Row: 4, Col: 0}), base.At(board.Pos{Row: 4, Col: 0}))
}

func TestUnknownTokenFailsUnderBothPolicies(t *testing.T) {
	is := is.New(t)
	in := strings.Replace(fiveBySix, "D D D L W F", "D D X L W F", 1)
	for _, p := range []Policy{PolicyStrict, PolicySkip} {
		_, err := Read(strings.NewReader(in), board.Sample(board.NoMatches), p)
		is.True(errors.Is(err, ErrInvalidInput))
		is.True(errors.Is(err, stone.ErrUnknownType))
	}
}

func TestWriteReadBack(t *testing.T) {
	is := is.New(t)
	b := board.Sample(board.LShape)
	is.NoErr(b.Reroot(board.Pos{Row: 2, Col: 5}))

	var buf bytes.Buffer
	is.NoErr(Write(&buf, b))
	is.True(strings.HasSuffix(buf.String(), "@ 2 5\n"))

	got, err := Read(&buf, board.Sample(board.NoMatches), PolicyStrict)
	is.NoErr(err)
	is.True(got.Equal(b))
	is.Equal(got.Current(), b.Current())

	path := filepath.Join(t.TempDir(), "board.txt")
	is.NoErr(WriteFile(path, b))
	got, err = ReadFile(path, board.Sample(board.NoMatches), PolicyStrict)
	is.NoErr(err)
	is.True(got.Equal(b))
}

func TestParsePolicy(t *testing.T) {
	is := is.New(t)
	p, err := ParsePolicy("Skip")
	is.NoErr(err)
	is.Equal(p, PolicySkip)
	p, err = ParsePolicy("")
	is.NoErr(err)
	is.Equal(p, PolicyStrict)
	_, err = ParsePolicy("lenient")
	is.True(errors.Is(err, ErrInvalidInput))
}
