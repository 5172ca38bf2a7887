package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/classifier"
	"github.com/runedrag/runedrag/move"
	"github.com/runedrag/runedrag/stone"
)

func rooted(s board.SampleBoard, p board.Pos) *board.Board {
	b := board.Sample(s)
	if err := b.Reroot(p); err != nil {
		panic(err)
	}
	return b
}

func TestNewDefaults(t *testing.T) {
	is := is.New(t)
	r, err := New(Options{})
	is.NoErr(err)
	is.Equal(r.pixels, 60)
	is.Equal(r.lineWidth, 4)
	is.Equal(r.lineColor, color.RGBA{150, 150, 150, 255})
}

func TestParseColor(t *testing.T) {
	is := is.New(t)
	c, err := ParseColor("#ff8000")
	is.NoErr(err)
	is.Equal(c, color.RGBA{255, 128, 0, 255})
	c, err = ParseColor("Red")
	is.NoErr(err)
	is.Equal(c, color.RGBA{255, 0, 0, 255})
	_, err = ParseColor("#ff80")
	is.True(err != nil)
	_, err = ParseColor("zzzzzz")
	is.True(err != nil)
}

func TestBoardImage(t *testing.T) {
	is := is.New(t)
	r, err := New(Options{Pixels: 20})
	is.NoErr(err)
	b := board.Sample(board.NoMatches)
	img := r.Board(b)
	is.Equal(img.Bounds(), image.Rect(0, 0, 120, 100))
	for idx := 0; idx < b.NumCells(); idx++ {
		p := b.PosOf(idx)
		c := r.centre(p)
		is.Equal(img.RGBAAt(c.X, c.Y), b.At(p).Color())
	}
	is.Equal(img.RGBAAt(0, 0), background)
}

func TestPathFramesSplitOnRevisit(t *testing.T) {
	is := is.New(t)
	r, err := New(Options{Pixels: 20, LineWidth: 4, LineColor: "yellow"})
	is.NoErr(err)
	initial := rooted(board.NoMatches, board.Pos{Row: 2, Col: 2})

	frames, err := r.PathFrames(initial, move.Sequence{move.Right, move.Down})
	is.NoErr(err)
	is.Equal(len(frames), 1)
	// midway between (2,2) and (2,3)
	is.Equal(frames[0].RGBAAt(60, 50), color.RGBA{255, 255, 0, 255})

	// a loop back to the start cell starts a second frame
	frames, err = r.PathFrames(initial, move.Sequence{move.Right, move.Down, move.Left, move.Up, move.Up})
	is.NoErr(err)
	is.Equal(len(frames), 2)

	_, err = r.PathFrames(initial, move.Sequence{move.Right, move.Left})
	is.True(err != nil)
}

func TestWriteAll(t *testing.T) {
	is := is.New(t)
	dir := filepath.Join(t.TempDir(), "out")
	r, err := New(Options{Pixels: 16})
	is.NoErr(err)
	initial := rooted(board.OneSwapAway, board.Pos{Row: 2, Col: 2})

	written, err := r.WriteAll(dir, initial, move.Sequence{move.Up})
	is.NoErr(err)
	is.Equal(len(written), 4)
	for _, name := range []string{"initBoard.png", "path01.png", "bestBoard.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		is.NoErr(err)
		img, err := png.Decode(f)
		f.Close()
		is.NoErr(err)
		is.Equal(img.Bounds().Dx(), 96)
		is.Equal(img.Bounds().Dy(), 80)
	}
	f, err := os.Open(filepath.Join(dir, "path.gif"))
	is.NoErr(err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	is.NoErr(err)
	is.Equal(len(anim.Image), 3)
	is.Equal(anim.Delay[0], 150)
}

func writeSprite(t *testing.T, path string, c color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestSprites(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	_, err := New(Options{AssetDir: dir})
	is.True(errors.Is(err, classifier.ErrUnreadableAsset))

	for _, tp := range stone.Types {
		writeSprite(t, filepath.Join(dir, tp.String()+".png"), color.RGBA{uint8(tp) * 30, 10, 10, 255})
	}
	r, err := New(Options{Pixels: 10, AssetDir: dir})
	is.NoErr(err)
	b := board.Sample(board.NoMatches)
	img := r.Board(b)
	// sprites fill the whole cell, corners included
	is.Equal(img.RGBAAt(0, 0), color.RGBA{uint8(b.At(board.Pos{})) * 30, 10, 10, 255})
}
