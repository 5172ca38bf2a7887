// Package render draws boards and drag paths as PNG images and an animated
// GIF.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/cache"
	"github.com/runedrag/runedrag/classifier"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/move"
	"github.com/runedrag/runedrag/movegen"
	"github.com/runedrag/runedrag/stone"
)

const (
	DefaultPixels    = 60
	DefaultLineWidth = 4
	DefaultLineColor = "#969696"

	// gif frame delay, in 100ths of a second
	frameDelay = 150
)

var (
	background   = color.RGBA{28, 28, 32, 255}
	removedShade = color.RGBA{0, 0, 0, 150}
	labelBox     = color.RGBA{0, 0, 0, 200}
)

var namedColors = map[string]color.RGBA{
	"white":  {255, 255, 255, 255},
	"black":  {0, 0, 0, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 255, 0, 255},
	"blue":   {0, 0, 255, 255},
	"yellow": {255, 255, 0, 255},
}

// ParseColor accepts "#rrggbb", "rrggbb" or a few colour names.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

type Options struct {
	Pixels    int
	LineWidth int
	LineColor string
	// AssetDir, if set, holds one sprite per stone type, named after the
	// type: dark.png, light.png and so on.
	AssetDir string
}

type Renderer struct {
	pixels    int
	lineWidth int
	lineColor color.RGBA
	sprites   [stone.NumTypes + 1]image.Image
}

func New(opts Options) (*Renderer, error) {
	r := &Renderer{pixels: opts.Pixels, lineWidth: opts.LineWidth}
	if r.pixels < 8 {
		r.pixels = DefaultPixels
	}
	if r.lineWidth < 1 {
		r.lineWidth = DefaultLineWidth
	}
	lc := opts.LineColor
	if lc == "" {
		lc = DefaultLineColor
	}
	var err error
	r.lineColor, err = ParseColor(lc)
	if err != nil {
		return nil, err
	}
	if opts.AssetDir != "" {
		if err := r.loadSprites(opts.AssetDir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) loadSprites(dir string) error {
	key := fmt.Sprintf("sprites:%s:%d", dir, r.pixels)
	obj, err := cache.Load(key, func(string) (interface{}, error) {
		var sprites [stone.NumTypes + 1]image.Image
		for _, t := range stone.Types {
			img, err := classifier.Decode(filepath.Join(dir, t.String()+".png"))
			if err != nil {
				return nil, err
			}
			sprites[t] = resize.Resize(uint(r.pixels), uint(r.pixels), img, resize.Lanczos3)
		}
		log.Debug().Str("dir", dir).Int("pixels", r.pixels).Msg("loaded-sprites")
		return sprites, nil
	})
	if err != nil {
		return err
	}
	r.sprites = obj.([stone.NumTypes + 1]image.Image)
	return nil
}

func (r *Renderer) cellRect(p board.Pos) image.Rectangle {
	return image.Rect(p.Col*r.pixels, p.Row*r.pixels, (p.Col+1)*r.pixels, (p.Row+1)*r.pixels)
}

func (r *Renderer) centre(p board.Pos) image.Point {
	return image.Pt(p.Col*r.pixels+r.pixels/2, p.Row*r.pixels+r.pixels/2)
}

func fillCircle(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	cx, cy := rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2
	rad := rect.Dx()*9/20 - 1
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= rad*rad {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// Board draws b. Stones marked Removed are shaded.
func (r *Renderer) Board(b *board.Board) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Cols()*r.pixels, b.Rows()*r.pixels))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	for idx := 0; idx < b.NumCells(); idx++ {
		p := b.PosOf(idx)
		s := b.Stone(p)
		rect := r.cellRect(p)
		if !s.Type.Valid() {
			continue
		}
		if sprite := r.sprites[s.Type]; sprite != nil {
			draw.Draw(img, rect, sprite, sprite.Bounds().Min, draw.Over)
		} else {
			fillCircle(img, rect, s.Type.Color())
		}
		if s.Marker == stone.Removed {
			draw.Draw(img, rect, &image.Uniform{removedShade}, image.Point{}, draw.Over)
		}
	}
	return img
}

func (r *Renderer) line(img *image.RGBA, from, to board.Pos) {
	a, b := r.centre(from), r.centre(to)
	half := r.lineWidth / 2
	rect := image.Rect(min(a.X, b.X)-half, min(a.Y, b.Y)-half,
		max(a.X, b.X)+r.lineWidth-half, max(a.Y, b.Y)+r.lineWidth-half)
	draw.Draw(img, rect.Intersect(img.Bounds()), &image.Uniform{r.lineColor}, image.Point{}, draw.Src)
}

func (r *Renderer) label(img *image.RGBA, p board.Pos, text string) {
	face := basicfont.Face7x13
	cell := r.cellRect(p)
	box := image.Rect(cell.Min.X+2, cell.Min.Y+2, cell.Min.X+4+face.Advance*len(text), cell.Min.Y+4+face.Height)
	draw.Draw(img, box, &image.Uniform{labelBox}, image.Point{}, draw.Over)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.lineColor),
		Face: face,
		Dot:  fixed.P(box.Min.X+1, box.Min.Y+1+face.Ascent),
	}
	d.DrawString(text)
}

// PathFrames draws the drag path of moves from initial. A new frame starts
// whenever the path comes back to a cell it already crossed in the current
// frame; each frame is drawn over the board as it stood when the frame
// began. The first frame is marked "S" at the start cell, and every frame
// is marked "E" where its part of the path ends.
func (r *Renderer) PathFrames(initial *board.Board, moves move.Sequence) ([]*image.RGBA, error) {
	boards, err := movegen.Replay(initial, moves)
	if err != nil {
		return nil, err
	}
	var frames []*image.RGBA
	frame := r.Board(boards[0])
	visited := []board.Pos{initial.Current()}
	seen := func(p board.Pos) bool {
		for _, v := range visited {
			if v == p {
				return true
			}
		}
		return false
	}
	for i := 1; i < len(boards); i++ {
		prev, cur := boards[i-1], boards[i]
		if seen(cur.Current()) {
			r.label(frame, visited[0], "S")
			r.label(frame, prev.Current(), "E")
			frames = append(frames, frame)
			frame = r.Board(prev)
			visited = []board.Pos{prev.Current()}
		}
		r.line(frame, prev.Current(), cur.Current())
		visited = append(visited, cur.Current())
	}
	r.label(frame, visited[0], "S")
	r.label(frame, boards[len(boards)-1].Current(), "E")
	frames = append(frames, frame)
	return frames, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func paletted(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, img.Bounds().Min)
	return p
}

// WriteAll renders the initial board, the final board with its cleared
// stones shaded, every path frame and an animation of all of them into
// dir, and returns the paths it wrote.
func (r *Renderer) WriteAll(dir string, initial *board.Board, moves move.Sequence) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	frames, err := r.PathFrames(initial, moves)
	if err != nil {
		return nil, err
	}
	boards, err := movegen.Replay(initial, moves)
	if err != nil {
		return nil, err
	}
	final := boards[len(boards)-1]
	best := match.Annotate(final, match.Evaluate(final))

	images := []image.Image{r.Board(initial)}
	names := []string{"initBoard.png"}
	for i, f := range frames {
		images = append(images, f)
		names = append(names, fmt.Sprintf("path%02d.png", i+1))
	}
	images = append(images, r.Board(best))
	names = append(names, "bestBoard.png")

	var written []string
	anim := &gif.GIF{}
	for i, img := range images {
		path := filepath.Join(dir, names[i])
		if err := writePNG(path, img); err != nil {
			return written, err
		}
		written = append(written, path)
		anim.Image = append(anim.Image, paletted(img))
		anim.Delay = append(anim.Delay, frameDelay)
	}

	gifPath := filepath.Join(dir, "path.gif")
	f, err := os.Create(gifPath)
	if err != nil {
		return written, err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return written, err
	}
	if err := f.Close(); err != nil {
		return written, err
	}
	written = append(written, gifPath)
	log.Info().Str("dir", dir).Int("frames", len(frames)).Msg("rendered-path")
	return written, nil
}
