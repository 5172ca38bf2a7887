package solver

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/runedrag/runedrag/match"
)

const entrySize = 24

const (
	minTablePowerOf2 = 12
	maxTablePowerOf2 = 24
)

// tableEntry stores the evaluation counts for one (types, current) hash.
type tableEntry struct {
	key      uint64
	cleared  uint32
	combos   uint32
	boundary uint8
	flags    uint8
}

const (
	flagValid = 1 << iota
	flagReleaseEnds
)

func (t tableEntry) valid() bool {
	return t.flags&flagValid != 0
}

func (t tableEntry) summary() match.Summary {
	return match.Summary{
		Cleared:     int(t.cleared),
		Combos:      int(t.combos),
		Boundary:    int(t.boundary),
		ReleaseEnds: t.flags&flagReleaseEnds != 0,
	}
}

func entryFor(key uint64, s match.Summary) tableEntry {
	e := tableEntry{
		key:      key,
		cleared:  uint32(s.Cleared),
		combos:   uint32(s.Combos),
		boundary: uint8(s.Boundary),
		flags:    flagValid,
	}
	if s.ReleaseEnds {
		e.flags |= flagReleaseEnds
	}
	return e
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// EvalTable memoises match evaluations. It is a fixed-size, always-replace
// table indexed by the low bits of a zobrist key; the full key is stored
// and checked on lookup.
type EvalTable struct {
	TableLock
	table        []tableEntry
	sizePowerOf2 int
	sizeMask     uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
	created atomic.Uint64
}

func (t *EvalTable) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *EvalTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *EvalTable) lookup(key uint64) (match.Summary, bool) {
	t.RLock()
	e := t.table[key&t.sizeMask]
	t.RUnlock()
	t.lookups.Add(1)
	if !e.valid() || e.key != key {
		return match.Summary{}, false
	}
	t.hits.Add(1)
	return e.summary(), true
}

func (t *EvalTable) store(key uint64, s match.Summary) {
	e := entryFor(key, s)
	t.Lock()
	t.table[key&t.sizeMask] = e
	t.Unlock()
	t.created.Add(1)
}

// Reset sizes the table to roughly fractionOfMemory of the system memory,
// rounded down to a power of two and clamped, and clears it.
func (t *EvalTable) Reset(fractionOfMemory float64) {
	if t.TableLock == nil {
		t.SetSingleThreadedMode()
	}
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = minTablePowerOf2
	if desiredNElems >= 1 {
		t.sizePowerOf2 = int(math.Log2(desiredNElems))
	}
	if t.sizePowerOf2 < minTablePowerOf2 {
		t.sizePowerOf2 = minTablePowerOf2
	}
	if t.sizePowerOf2 > maxTablePowerOf2 {
		t.sizePowerOf2 = maxTablePowerOf2
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]tableEntry, numElems)
	}
	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("eval-table-size")

	t.lookups.Store(0)
	t.hits.Store(0)
	t.created.Store(0)
}

// Stats returns lookup, hit and store counters since the last Reset.
func (t *EvalTable) Stats() (lookups, hits, created uint64) {
	return t.lookups.Load(), t.hits.Load(), t.created.Load()
}
