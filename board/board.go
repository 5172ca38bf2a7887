package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/runedrag/runedrag/stone"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidDims = errors.New("invalid board dimensions")
)

const (
	DefaultRows = 5
	DefaultCols = 6
)

// Pos is a (row, col) cell position.
type Pos struct {
	Row int
	Col int
}

func (p Pos) Add(dr, dc int) Pos {
	return Pos{p.Row + dr, p.Col + dc}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Board is a fixed rows x cols grid of stones, plus the position of the stone
// under the finger (current) and the position the finger occupied one step
// earlier (previous). The grid is stored as a flat array so that cloning is a
// single copy.
type Board struct {
	rows     int
	cols     int
	stones   []stone.Stone
	current  Pos
	previous Pos
}

// New creates an empty board. Every cell holds stone.None until it is filled.
func New(rows, cols int) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDims, rows, cols)
	}
	b := &Board{
		rows:   rows,
		cols:   cols,
		stones: make([]stone.Stone, rows*cols),
	}
	b.stones[0].Marker = stone.Active
	return b, nil
}

// NewFromTypes creates a board from a rectangular grid of stone types, with
// the finger resting on (0, 0).
func NewFromTypes(types [][]stone.Type) (*Board, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDims)
	}
	b, err := New(len(types), len(types[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range types {
		if len(row) != b.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrInvalidDims, r, len(row), b.cols)
		}
		for c, t := range row {
			b.stones[r*b.cols+c].Type = t
		}
	}
	return b, nil
}

func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) Cols() int {
	return b.cols
}

func (b *Board) NumCells() int {
	return len(b.stones)
}

func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

func (b *Board) checkBounds(p Pos) error {
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, p, b.rows, b.cols)
	}
	return nil
}

// Index returns the flat index of an in-bounds position.
func (b *Board) Index(p Pos) int {
	return p.Row*b.cols + p.Col
}

// PosOf is the inverse of Index.
func (b *Board) PosOf(idx int) Pos {
	return Pos{idx / b.cols, idx % b.cols}
}

// At returns the stone type at an in-bounds position.
func (b *Board) At(p Pos) stone.Type {
	return b.stones[b.Index(p)].Type
}

// TypeAt returns the type at a flat index.
func (b *Board) TypeAt(idx int) stone.Type {
	return b.stones[idx].Type
}

func (b *Board) Stone(p Pos) stone.Stone {
	return b.stones[b.Index(p)]
}

// Set places a stone type on a cell. Only initialization code should call
// this; the search never changes a type, it only swaps.
func (b *Board) Set(p Pos, t stone.Type) error {
	if err := b.checkBounds(p); err != nil {
		return err
	}
	b.stones[b.Index(p)].Type = t
	return nil
}

func (b *Board) SetMarker(p Pos, m stone.Marker) {
	b.stones[b.Index(p)].Marker = m
}

func (b *Board) ClearMarkers() {
	for i := range b.stones {
		b.stones[i].Marker = stone.Unmarked
	}
	b.stones[b.Index(b.current)].Marker = stone.Active
}

func (b *Board) Current() Pos {
	return b.current
}

func (b *Board) Previous() Pos {
	return b.previous
}

// Swap exchanges the types of two stones in place. Display markers stay
// where they are.
func (b *Board) Swap(p1, p2 Pos) error {
	if err := b.checkBounds(p1); err != nil {
		return err
	}
	if err := b.checkBounds(p2); err != nil {
		return err
	}
	i, j := b.Index(p1), b.Index(p2)
	b.stones[i].Type, b.stones[j].Type = b.stones[j].Type, b.stones[i].Type
	return nil
}

func (b *Board) moveActiveMarker(from, to Pos) {
	if b.stones[b.Index(from)].Marker == stone.Active {
		b.stones[b.Index(from)].Marker = stone.Unmarked
	}
	b.stones[b.Index(to)].Marker = stone.Active
}

// SetCurrent moves the finger to p. The old current position becomes the
// previous position.
func (b *Board) SetCurrent(p Pos) error {
	if err := b.checkBounds(p); err != nil {
		return err
	}
	b.moveActiveMarker(b.current, p)
	b.previous = b.current
	b.current = p
	return nil
}

// Reroot places the finger on p with no history: previous is set to p as
// well, so every neighbouring cell is a legal first move.
func (b *Board) Reroot(p Pos) error {
	if err := b.checkBounds(p); err != nil {
		return err
	}
	b.moveActiveMarker(b.current, p)
	b.current = p
	b.previous = p
	return nil
}

// Drag swaps the stone under the finger with the stone at p and follows it
// there. p must be in bounds; adjacency is the caller's business.
func (b *Board) Drag(p Pos) error {
	from := b.current
	if err := b.Swap(from, p); err != nil {
		return err
	}
	b.moveActiveMarker(from, p)
	b.previous = from
	b.current = p
	return nil
}

// Clone returns a deep copy of the board, markers included.
func (b *Board) Clone() *Board {
	nb := &Board{
		rows:     b.rows,
		cols:     b.cols,
		stones:   make([]stone.Stone, len(b.stones)),
		current:  b.current,
		previous: b.previous,
	}
	copy(nb.stones, b.stones)
	return nb
}

// CopyFrom copies o into b, reusing b's storage when the sizes match.
func (b *Board) CopyFrom(o *Board) {
	if len(b.stones) != len(o.stones) {
		b.stones = make([]stone.Stone, len(o.stones))
	}
	copy(b.stones, o.stones)
	b.rows, b.cols = o.rows, o.cols
	b.current, b.previous = o.current, o.previous
}

// Equal compares dimensions, types and finger positions. Markers are
// ignored.
func (b *Board) Equal(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols ||
		b.current != o.current || b.previous != o.previous {
		return false
	}
	return b.SameTypes(o)
}

// SameTypes compares only the stone types of two equally-sized boards.
func (b *Board) SameTypes(o *Board) bool {
	if len(b.stones) != len(o.stones) {
		return false
	}
	for i := range b.stones {
		if b.stones[i].Type != o.stones[i].Type {
			return false
		}
	}
	return true
}

// Types returns a copy of the flat type grid.
func (b *Board) Types() []stone.Type {
	ts := make([]stone.Type, len(b.stones))
	for i := range b.stones {
		ts[i] = b.stones[i].Type
	}
	return ts
}

// Counts returns how many stones of each type are on the board, indexed by
// stone.Type.
func (b *Board) Counts() [stone.NumTypes + 1]int {
	var counts [stone.NumTypes + 1]int
	for i := range b.stones {
		counts[b.stones[i].Type]++
	}
	return counts
}

// Complete reports whether every cell holds a real stone.
func (b *Board) Complete() bool {
	for i := range b.stones {
		if !b.stones[i].Type.Valid() {
			return false
		}
	}
	return true
}

// String renders the board with ANSI colours and markers, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			sb.WriteString(b.stones[r*b.cols+c].DisplayString())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Letters renders the board as plain whitespace-separated letters, the same
// format the board files use.
func (b *Board) Letters() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(b.stones[r*b.cols+c].Type.Letter())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
