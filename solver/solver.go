package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/movegen"
	"github.com/runedrag/runedrag/zobrist"
)

const (
	DefaultStartDepth = 5
	DefaultPhaseDepth = 10
	DefaultPhases     = 5

	DefaultEvalTableFraction = 0.05

	comboWeight      = 100.0
	startBoundary    = 50.0
	phaseBoundaryMul = 10.0
	stepPenalty      = 0.001
	releasePenalty   = 100.0

	// how many pops between context checks
	ctxCheckInterval = 1024
)

var (
	ErrNilBoard       = errors.New("board is nil")
	ErrInvalidSetting = errors.New("invalid solver setting")
)

// weights parameterise the node cost of one enumeration.
type weights struct {
	boundary   float64
	endPenalty bool
}

func startWeights() weights {
	return weights{boundary: startBoundary, endPenalty: true}
}

func phaseWeights(phase, phases int) weights {
	return weights{
		boundary:   phaseBoundaryMul * float64(phases-phase),
		endPenalty: phase != phases,
	}
}

// cost is lower for better boards. steps is the number of moves made before
// the move that produced the evaluated board.
func (w weights) cost(s match.Summary, steps int) float64 {
	c := -(float64(s.Combos)*comboWeight + float64(s.Boundary)*w.boundary + float64(s.Cleared)) +
		float64(steps)*stepPenalty
	if w.endPenalty && s.ReleaseEnds {
		c += releasePenalty
	}
	return c
}

type enumResult struct {
	best      *node
	nodes     uint64
	truncated bool
}

// Solver plans a drag: it picks the cell to pick up and the moves to make.
type Solver struct {
	zobrist *zobrist.Zobrist
	etable  *EvalTable

	startDepth int
	phaseDepth int
	phases     int
	threads    int
	maxNodes   uint64

	evalTableOptim    bool
	evalTableFraction float64
	tableDirty        bool

	nodes atomic.Uint64
}

func NewSolver() *Solver {
	return &Solver{
		zobrist:           &zobrist.Zobrist{},
		etable:            &EvalTable{},
		startDepth:        DefaultStartDepth,
		phaseDepth:        DefaultPhaseDepth,
		phases:            DefaultPhases,
		threads:           1,
		evalTableOptim:    true,
		evalTableFraction: DefaultEvalTableFraction,
		tableDirty:        true,
	}
}

func (s *Solver) SetStartDepth(d int) {
	s.startDepth = d
}

func (s *Solver) SetPhaseDepth(d int) {
	s.phaseDepth = d
}

func (s *Solver) SetPhases(p int) {
	s.phases = p
}

func (s *Solver) SetThreads(t int) {
	s.threads = t
}

// SetMaxNodes caps the number of nodes expanded by a single enumeration.
// Zero means no cap.
func (s *Solver) SetMaxNodes(n uint64) {
	s.maxNodes = n
}

func (s *Solver) SetEvalTableOptim(o bool) {
	s.evalTableOptim = o
}

func (s *Solver) SetEvalTableFraction(f float64) {
	if f != s.evalTableFraction {
		s.tableDirty = true
	}
	s.evalTableFraction = f
}

func (s *Solver) Phases() int {
	return s.phases
}

// Nodes returns the number of nodes evaluated by the last Solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// EvalTable returns the solver's evaluation table.
func (s *Solver) EvalTable() *EvalTable {
	return s.etable
}

func (s *Solver) validate(b *board.Board) error {
	if b == nil {
		return ErrNilBoard
	}
	switch {
	case s.startDepth < 0:
		return fmt.Errorf("%w: start depth %d", ErrInvalidSetting, s.startDepth)
	case s.phaseDepth < 0:
		return fmt.Errorf("%w: phase depth %d", ErrInvalidSetting, s.phaseDepth)
	case s.phases < 0:
		return fmt.Errorf("%w: phases %d", ErrInvalidSetting, s.phases)
	case s.threads < 1:
		return fmt.Errorf("%w: threads %d", ErrInvalidSetting, s.threads)
	case s.evalTableOptim && (s.evalTableFraction <= 0 || s.evalTableFraction >= 1):
		return fmt.Errorf("%w: eval table fraction %v", ErrInvalidSetting, s.evalTableFraction)
	}
	return nil
}

func (s *Solver) prepare(b *board.Board) {
	if !s.zobrist.Fits(b) {
		s.zobrist.Initialize(b.Rows(), b.Cols())
		s.tableDirty = true
	}
	if s.threads > 1 {
		s.etable.SetMultiThreadedMode()
	} else {
		s.etable.SetSingleThreadedMode()
	}
	if s.evalTableOptim && s.tableDirty {
		s.etable.Reset(s.evalTableFraction)
		s.tableDirty = false
	}
}

func (s *Solver) evaluate(b *board.Board, key uint64) match.Summary {
	if !s.evalTableOptim {
		return match.Evaluate(b).Summary
	}
	if sum, ok := s.etable.lookup(key); ok {
		return sum
	}
	sum := match.Evaluate(b).Summary
	s.etable.store(key, sum)
	return sum
}

// enumerate visits every board reachable from root in at most depth moves
// and returns the lowest-cost node seen. The root itself competes with
// seedCost.
func (s *Solver) enumerate(ctx context.Context, root *board.Board, seedCost float64,
	w weights, depth int) enumResult {

	var res enumResult
	q := &nodeQueue{}
	rootNode := &node{cost: seedCost, board: root, key: s.zobrist.Hash(root)}
	q.push(rootNode)

	res.best = rootNode
	bestCost := math.Inf(1)
	stopped := false
	pops := 0

	for q.len() > 0 {
		n := q.pop()
		pops++
		if n.cost < bestCost {
			bestCost = n.cost
			res.best = n
		}
		if stopped {
			continue
		}
		if (pops-1)%ctxCheckInterval == 0 && ctx.Err() != nil {
			stopped = true
			res.truncated = true
			continue
		}
		if len(n.moves) >= depth {
			continue
		}
		if s.maxNodes > 0 && res.nodes >= s.maxNodes {
			stopped = true
			res.truncated = true
			continue
		}
		succs := movegen.Successors(n.board)
		for _, succ := range succs {
			key := s.zobrist.AddDrag(n.key, n.board, succ.Board.Current())
			sum := s.evaluate(succ.Board, key)
			q.push(&node{
				cost:  w.cost(sum, len(n.moves)),
				moves: n.moves.Append(succ.Move),
				board: succ.Board,
				key:   key,
			})
		}
		res.nodes += uint64(len(succs))
		s.nodes.Add(uint64(len(succs)))
	}
	return res
}

// SelectStart scores every cell of b as a place to pick up a stone and
// returns the best one along with every cell's score, row-major. Ties go
// to the earliest cell.
func (s *Solver) SelectStart(ctx context.Context, b *board.Board) (board.Pos, []float64, bool, error) {
	if err := s.validate(b); err != nil {
		return board.Pos{}, nil, false, err
	}
	s.prepare(b)
	return s.selectStart(ctx, b)
}

func (s *Solver) selectStart(ctx context.Context, b *board.Board) (board.Pos, []float64, bool, error) {
	n := b.NumCells()
	scores := make([]float64, n)
	truncated := make([]bool, n)
	w := startWeights()

	g := &errgroup.Group{}
	g.SetLimit(s.threads)
	for idx := 0; idx < n; idx++ {
		g.Go(func() error {
			root := b.Clone()
			if err := root.Reroot(root.PosOf(idx)); err != nil {
				return err
			}
			r := s.enumerate(ctx, root, math.Inf(1), w, s.startDepth)
			scores[idx] = r.best.cost
			truncated[idx] = r.truncated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return board.Pos{}, nil, false, err
	}

	bestIdx := 0
	anyTruncated := false
	for idx := 0; idx < n; idx++ {
		if scores[idx] < scores[bestIdx] {
			bestIdx = idx
		}
		anyTruncated = anyTruncated || truncated[idx]
	}
	return b.PosOf(bestIdx), scores, anyTruncated, nil
}

// ExtendPath runs the phased rounds from root, whose current cell is the
// picked-up stone. It returns the rounds and the board after the last one.
// A round only moves when it beats the board it starts from, so any round,
// the first included, can come back empty.
func (s *Solver) ExtendPath(ctx context.Context, root *board.Board) ([]Round, *board.Board, error) {
	if err := s.validate(root); err != nil {
		return nil, nil, err
	}
	s.prepare(root)
	rounds, final := s.extendPath(ctx, root)
	return rounds, final, nil
}

func (s *Solver) extendPath(ctx context.Context, root *board.Board) ([]Round, *board.Board) {
	cur := root
	rounds := make([]Round, 0, s.phases)
	for phase := 1; phase <= s.phases; phase++ {
		w := phaseWeights(phase, s.phases)
		seed := w.cost(s.evaluate(cur, s.zobrist.Hash(cur)), 0)
		r := s.enumerate(ctx, cur, seed, w, s.phaseDepth)
		best := r.best
		rounds = append(rounds, Round{
			Phase:     phase,
			Moves:     best.moves,
			Cost:      best.cost,
			Summary:   s.evaluate(best.board, best.key),
			Nodes:     r.nodes,
			Truncated: r.truncated,
		})
		log.Debug().Int("phase", phase).
			Str("moves", best.moves.ShortDescription()).
			Float64("cost", best.cost).
			Uint64("nodes", r.nodes).
			Msg("phase-done")
		cur = best.board
		if ctx.Err() != nil {
			break
		}
	}
	return rounds, cur
}

// Solve plans a drag on b. b is not modified. If ctx is cancelled or the
// node budget runs out, Solve still returns the best plan found so far,
// with Truncated set.
func (s *Solver) Solve(ctx context.Context, b *board.Board) (*Plan, error) {
	if err := s.validate(b); err != nil {
		return nil, err
	}
	tstart := time.Now()
	s.prepare(b)
	s.nodes.Store(0)

	log.Debug().Int("rows", b.Rows()).Int("cols", b.Cols()).
		Int("start-depth", s.startDepth).Int("phase-depth", s.phaseDepth).
		Int("phases", s.phases).Int("threads", s.threads).
		Bool("eval-table", s.evalTableOptim).
		Msg("solve-config")

	var plan *Plan
	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		defer close(done)
		start, scores, truncated, err := s.selectStart(ctx, b)
		if err != nil {
			return err
		}
		initial := b.Clone()
		if err := initial.Reroot(start); err != nil {
			return err
		}
		initial.ClearMarkers()

		rounds, final := s.extendPath(ctx, initial)
		plan = &Plan{
			Start:       start,
			Initial:     initial,
			Final:       final,
			Rounds:      rounds,
			StartScores: scores,
			Truncated:   truncated,
		}
		for _, r := range rounds {
			plan.Moves = append(plan.Moves, r.Moves...)
			plan.Truncated = plan.Truncated || r.Truncated
		}
		plan.Result = match.Evaluate(final)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	plan.Nodes = s.nodes.Load()
	plan.Elapsed = time.Since(tstart)

	lookups, hits, created := s.etable.Stats()
	log.Info().
		Str("start", plan.Start.String()).
		Int("steps", plan.Steps()).
		Int("combos", plan.Result.Combos).
		Int("cleared", plan.Result.Cleared).
		Uint64("nodes", plan.Nodes).
		Uint64("etable-lookups", lookups).
		Uint64("etable-hits", hits).
		Uint64("etable-created", created).
		Bool("truncated", plan.Truncated).
		Dur("elapsed", plan.Elapsed).
		Msg("solve-done")
	return plan, nil
}
