package zobrist

import (
	"lukechampine.com/frand"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/stone"
)

const bignum = 1<<63 - 2

// Zobrist hashes the inputs of a match evaluation: the stone type on every
// cell, and which cell the finger is on. The previous position is not part
// of the key since it does not change the evaluation.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [][stone.NumTypes + 1]uint64
	curTable []uint64

	rows int
	cols int
}

func (z *Zobrist) Initialize(rows, cols int) {
	z.rows, z.cols = rows, cols
	z.posTable = make([][stone.NumTypes + 1]uint64, rows*cols)
	z.curTable = make([]uint64, rows*cols)
	for i := 0; i < rows*cols; i++ {
		for j := 0; j <= stone.NumTypes; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
		z.curTable[i] = frand.Uint64n(bignum) + 1
	}
}

// Fits reports whether z was initialized for a board of these dimensions.
func (z *Zobrist) Fits(b *board.Board) bool {
	return z.rows == b.Rows() && z.cols == b.Cols()
}

func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for i := 0; i < b.NumCells(); i++ {
		key ^= z.posTable[i][b.TypeAt(i)]
	}
	key ^= z.curTable[b.Index(b.Current())]
	return key
}

// AddDrag updates key, the hash of b, to the hash of the board obtained
// by dragging the current stone of b onto the cell to. b is the board
// before the drag.
func (z *Zobrist) AddDrag(key uint64, b *board.Board, to board.Pos) uint64 {
	from := b.Current()
	fi, ti := b.Index(from), b.Index(to)
	ft, tt := b.TypeAt(fi), b.TypeAt(ti)

	key ^= z.posTable[fi][ft]
	key ^= z.posTable[fi][tt]
	key ^= z.posTable[ti][tt]
	key ^= z.posTable[ti][ft]

	key ^= z.curTable[fi]
	key ^= z.curTable[ti]
	return key
}
