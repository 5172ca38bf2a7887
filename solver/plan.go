package solver

import (
	"fmt"
	"strings"
	"time"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/move"
	"github.com/runedrag/runedrag/movegen"
)

// Round is the outcome of one phase of path extension.
type Round struct {
	Phase     int
	Moves     move.Sequence
	Cost      float64
	Summary   match.Summary
	Nodes     uint64
	Truncated bool
}

// Plan is the solver's answer: where to put the finger, and which way to
// drag it.
type Plan struct {
	Start board.Pos
	// Initial is the input board with the finger on Start.
	Initial *board.Board
	// Final is the board after every move of the plan.
	Final *board.Board
	Moves move.Sequence
	// Result is the evaluation of Final.
	Result match.Result
	Rounds []Round
	// StartScores holds the Stage-A score of every cell, row-major.
	StartScores []float64
	Nodes       uint64
	Truncated   bool
	Elapsed     time.Duration
}

// Steps is the total number of moves.
func (p *Plan) Steps() int {
	return len(p.Moves)
}

// Boards replays the plan and returns every intermediate board, starting
// with Initial and ending with a board equal to Final.
func (p *Plan) Boards() ([]*board.Board, error) {
	return movegen.Replay(p.Initial, p.Moves)
}

// StartScore returns the Stage-A score of the chosen start cell.
func (p *Plan) StartScore() float64 {
	return p.StartScores[p.Initial.Index(p.Start)]
}

func (p *Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "start %v, %d steps: %s\n", p.Start, p.Steps(), p.Moves.ShortDescription())
	for _, r := range p.Rounds {
		fmt.Fprintf(&sb, "  phase %d: %-10s cost %.3f nodes %d (%v)\n",
			r.Phase, r.Moves.ShortDescription(), r.Cost, r.Nodes, r.Summary)
	}
	fmt.Fprintf(&sb, "final: %v\n", p.Result.Summary)
	if p.Truncated {
		sb.WriteString("search was truncated; plan is the best found so far\n")
	}
	return sb.String()
}
