package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/move"
	"github.com/runedrag/runedrag/solver"
)

func samplePlan() *solver.Plan {
	b := board.Sample(board.OneSwapAway)
	_ = b.Reroot(board.Pos{Row: 2, Col: 2})
	final := b.Clone()
	_ = final.Drag(board.Pos{Row: 1, Col: 2})
	return &solver.Plan{
		Start:   board.Pos{Row: 2, Col: 2},
		Initial: b,
		Final:   final,
		Moves:   move.Sequence{move.Up},
		Result:  match.Evaluate(final),
	}
}

func TestWriteText(t *testing.T) {
	s := FromPlan(samplePlan())
	var buf bytes.Buffer
	err := WriteText(&buf, s)
	assert.NoError(t, err)
	assert.Equal(t, "startRowIdx=2\nstartColIdx=2\nUP \nstones=4\ncombo=1\nsteps=1\n", buf.String())
}

func TestWriteTextNoMoves(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteText(&buf, Summary{}))
	assert.Equal(t, "startRowIdx=0\nstartColIdx=0\n\nstones=0\ncombo=0\nsteps=0\n", buf.String())
}

func TestStructuredFormats(t *testing.T) {
	is := is.New(t)
	s := FromPlan(samplePlan())

	var buf bytes.Buffer
	is.NoErr(WriteJSON(&buf, s))
	var fromJSON Summary
	is.NoErr(json.Unmarshal(buf.Bytes(), &fromJSON))
	is.Equal(fromJSON, s)

	buf.Reset()
	is.NoErr(WriteYAML(&buf, s))
	is.True(bytes.Contains(buf.Bytes(), []byte("startRow: 2")))
	var fromYAML Summary
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &fromYAML))
	is.Equal(fromYAML, s)
}

func TestWriteFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "nested", TextFilename)
	is.NoErr(WriteFile(path, FromPlan(samplePlan()), FormatText))
	bts, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(bytes.HasPrefix(bts, []byte("startRowIdx=2\n")))
}

func TestParseFormat(t *testing.T) {
	is := is.New(t)
	f, err := ParseFormat("YML")
	is.NoErr(err)
	is.Equal(f, FormatYAML)
	f, err = ParseFormat("")
	is.NoErr(err)
	is.Equal(f, FormatText)
	_, err = ParseFormat("xml")
	is.True(err != nil)
}
