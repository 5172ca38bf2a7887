// Package classifier reads a board out of a game screenshot by matching
// the average colour of every cell against the reference stone colours.
package classifier

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/stone"
)

var ErrUnreadableAsset = errors.New("unreadable image")

const (
	DefaultPixels       = 64
	DefaultHealthWeight = 1.7

	// the game frame is 2:3; the board sits at the bottom of it.
	frameAspect = 1.5
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Classifier maps screenshots to boards of a fixed size.
type Classifier struct {
	rows    int
	cols    int
	pixels  int
	weights [stone.NumTypes + 1]float64
}

func New(rows, cols, pixels int) (*Classifier, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", board.ErrInvalidDims, rows, cols)
	}
	if pixels < 1 {
		pixels = DefaultPixels
	}
	c := &Classifier{rows: rows, cols: cols, pixels: pixels}
	for _, t := range stone.Types {
		c.weights[t] = 1.0
	}
	c.weights[stone.Health] = DefaultHealthWeight
	return c, nil
}

// SetWeight scales the colour distance to t. Larger weights make t less
// likely to be picked.
func (c *Classifier) SetWeight(t stone.Type, w float64) {
	if t.Valid() {
		c.weights[t] = w
	}
}

func crop(img image.Image, r image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// boardArea returns the part of a screenshot holding the stones: a
// rows/cols-shaped strip at the bottom of a 2:3 frame centred vertically.
func (c *Classifier) boardArea(bounds image.Rectangle) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	frameHeight := int(float64(width) * frameAspect)
	delta := (height - frameHeight) / 2
	bottom := bounds.Max.Y - delta
	top := bottom - width/c.cols*c.rows
	return image.Rect(bounds.Min.X, top, bounds.Max.X, bottom).Intersect(bounds)
}

func (c *Classifier) nearest(col color.Color) stone.Type {
	r, g, b, _ := col.RGBA()
	r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)
	best := stone.None
	minDist := math.MaxFloat64
	for _, t := range stone.Types {
		ref := t.Color()
		dist := float64(abs(r8-int(ref.R))+abs(g8-int(ref.G))+abs(b8-int(ref.B))) * c.weights[t]
		if dist >= minDist {
			continue
		}
		minDist = dist
		best = t
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Classify returns the stone types found in img, row by row.
func (c *Classifier) Classify(img image.Image) ([][]stone.Type, error) {
	area := c.boardArea(img.Bounds())
	if area.Dx() < c.cols || area.Dy() < c.rows {
		return nil, fmt.Errorf("%w: board area %v too small", ErrUnreadableAsset, area)
	}
	w, h := c.cols*c.pixels, c.rows*c.pixels
	scaled := resize.Resize(uint(w), uint(h), crop(img, area), resize.Bilinear)
	origin := scaled.Bounds().Min

	types := make([][]stone.Type, c.rows)
	for r := 0; r < c.rows; r++ {
		types[r] = make([]stone.Type, c.cols)
		for col := 0; col < c.cols; col++ {
			cell := image.Rect(col*c.pixels, r*c.pixels, (col+1)*c.pixels, (r+1)*c.pixels).
				Add(origin)
			avg := resize.Resize(1, 1, crop(scaled, cell), resize.Lanczos3)
			types[r][col] = c.nearest(avg.At(avg.Bounds().Min.X, avg.Bounds().Min.Y))
		}
	}
	return types, nil
}

// ClassifyBoard classifies img and builds a board from it, with the finger
// on the base board's current cell if base is given.
func (c *Classifier) ClassifyBoard(img image.Image, base *board.Board) (*board.Board, error) {
	types, err := c.Classify(img)
	if err != nil {
		return nil, err
	}
	b, err := board.NewFromTypes(types)
	if err != nil {
		return nil, err
	}
	if base != nil && base.Rows() == b.Rows() && base.Cols() == b.Cols() {
		if err := b.Reroot(base.Current()); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Decode opens and decodes a PNG or JPEG file.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableAsset, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableAsset, path, err)
	}
	log.Debug().Str("path", path).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("decoded-image")
	return img, nil
}

// ClassifyFile reads a screenshot from path and classifies it.
func (c *Classifier) ClassifyFile(path string, base *board.Board) (*board.Board, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return c.ClassifyBoard(img, base)
}
