// Package move defines the four unit slides a dragged stone can make.
package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Move is a one-cell slide of the dragged stone.
type Move uint8

const (
	Up Move = iota
	Down
	Left
	Right
)

// All lists the moves in generation order.
var All = [4]Move{Up, Down, Left, Right}

var ErrUnknownMove = errors.New("unknown move")

var deltas = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

var names = [4]string{"UP", "DOWN", "LEFT", "RIGHT"}

// Delta returns the (row, col) offset of the move.
func (m Move) Delta() (int, int) {
	d := deltas[m]
	return d[0], d[1]
}

// Opposite returns the move that undoes m.
func (m Move) Opposite() Move {
	switch m {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

func (m Move) String() string {
	if int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("Move(%d)", m)
}

// Short is the single-letter form: U, D, L or R.
func (m Move) Short() string {
	return m.String()[:1]
}

// FromString parses a move name, case-insensitively. Both the long
// ("left") and short ("L") forms are accepted.
func FromString(s string) (Move, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range names {
		if u == n || u == n[:1] {
			return Move(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMove, s)
}

// Sequence is an ordered drag path.
type Sequence []Move

// Names returns the long names of the moves in order.
func (s Sequence) Names() []string {
	return lo.Map(s, func(m Move, _ int) string {
		return m.String()
	})
}

// ShortDescription packs the sequence into short letters, e.g. "UULRD".
func (s Sequence) ShortDescription() string {
	return strings.Join(lo.Map(s, func(m Move, _ int) string {
		return m.Short()
	}), "")
}

// Append returns a new sequence with m added; s is not modified.
func (s Sequence) Append(m Move) Sequence {
	ns := make(Sequence, len(s), len(s)+1)
	copy(ns, s)
	return append(ns, m)
}

// ParseSequence parses whitespace- or comma-separated move names, or a
// packed short form such as "UURDL".
func ParseSequence(s string) (Sequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 1 && len(fields[0]) > 1 {
		if _, err := FromString(fields[0]); err != nil {
			fields = strings.Split(fields[0], "")
		}
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		m, err := FromString(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, m)
	}
	return seq, nil
}
