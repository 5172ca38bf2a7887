package board

import (
	"lukechampine.com/frand"

	"github.com/runedrag/runedrag/stone"
)

// NewRandom fills a board with uniformly random stone types and puts the
// finger on a uniformly random cell. If rng is nil the package-level frand
// source is used.
func NewRandom(rows, cols int, rng *frand.RNG) (*Board, error) {
	b, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	intn := frand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	for i := range b.stones {
		b.stones[i].Type = stone.Types[intn(stone.NumTypes)]
	}
	err = b.Reroot(Pos{intn(rows), intn(cols)})
	if err != nil {
		return nil, err
	}
	return b, nil
}
