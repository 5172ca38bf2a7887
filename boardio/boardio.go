// Package boardio reads and writes boards as plain text: one line per row,
// one letter per stone, separated by spaces.
package boardio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/stone"
)

var ErrInvalidInput = errors.New("invalid board input")

// Policy says what to do with a row line that does not have one token per
// column.
type Policy string

const (
	// PolicyStrict rejects the input.
	PolicyStrict Policy = "strict"
	// PolicySkip logs a warning and keeps the base board's row.
	PolicySkip Policy = "skip"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyStrict, PolicySkip:
		return p, nil
	case "":
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("%w: unknown load policy %q", ErrInvalidInput, s)
}

const positionMarker = "@"

// Read reads a board from r, overlaying it on base. base supplies the
// dimensions, the stones of any row the input leaves out under
// PolicySkip, and the finger position unless the input has an "@ row col"
// line. base is not modified.
func Read(r io.Reader, base *board.Board, policy Policy) (*board.Board, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: no base board", ErrInvalidInput)
	}
	rows, cols := base.Rows(), base.Cols()
	b := base.Clone()

	var cur *board.Pos
	filled := 0
	rowIdx := 0
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		toks := strings.Fields(line)

		if len(toks) > 0 && toks[0] == positionMarker {
			p, err := parsePosition(toks[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNo, err)
			}
			cur = &p
			continue
		}
		if rowIdx >= rows {
			if len(toks) > 0 && policy == PolicyStrict {
				return nil, fmt.Errorf("%w: line %d: more than %d rows", ErrInvalidInput, lineNo, rows)
			}
			continue
		}
		row := rowIdx
		rowIdx++

		if len(toks) != cols {
			if policy == PolicyStrict {
				return nil, fmt.Errorf("%w: line %d: want %d tokens, got %d",
					ErrInvalidInput, lineNo, cols, len(toks))
			}
			log.Warn().Int("line", lineNo).Int("tokens", len(toks)).
				Int("want", cols).Msg("skipping-malformed-line")
			continue
		}
		for c, tok := range toks {
			t, err := stone.FromLetter(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidInput, lineNo, err)
			}
			// cannot fail: row and column are in range.
			_ = b.Set(board.Pos{Row: row, Col: c}, t)
		}
		filled++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if policy == PolicyStrict && filled < rows {
		return nil, fmt.Errorf("%w: line %d: want %d rows, got %d",
			ErrInvalidInput, lineNo, rows, filled)
	}
	if cur != nil {
		if err := b.Reroot(*cur); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	b.ClearMarkers()
	return b, nil
}

func parsePosition(toks []string) (board.Pos, error) {
	if len(toks) != 2 {
		return board.Pos{}, fmt.Errorf("position wants row and col, got %d fields", len(toks))
	}
	r, err := strconv.Atoi(toks[0])
	if err != nil {
		return board.Pos{}, err
	}
	c, err := strconv.Atoi(toks[1])
	if err != nil {
		return board.Pos{}, err
	}
	return board.Pos{Row: r, Col: c}, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string, base *board.Board, policy Policy) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, base, policy)
}

// Write writes b in the format Read accepts, followed by the finger
// position.
func Write(w io.Writer, b *board.Board) error {
	cur := b.Current()
	_, err := fmt.Fprintf(w, "%s%s %d %d\n", b.Letters(), positionMarker, cur.Row, cur.Col)
	return err
}

// WriteFile writes b to path, replacing any existing file.
func WriteFile(path string, b *board.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
