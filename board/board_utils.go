package board

import (
	"fmt"
	"strings"

	"github.com/runedrag/runedrag/stone"
)

// FromLetters builds a board from rows of letter tokens. Tokens may be
// separated by whitespace ("D L W") or packed ("DLW"). The finger rests on
// (0, 0).
func FromLetters(rows ...string) (*Board, error) {
	types := make([][]stone.Type, len(rows))
	for r, row := range rows {
		toks := strings.Fields(row)
		if len(toks) == 1 && len(toks[0]) > 1 {
			toks = strings.Split(toks[0], "")
		}
		types[r] = make([]stone.Type, len(toks))
		for c, tok := range toks {
			t, err := stone.FromLetter(tok)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			types[r][c] = t
		}
	}
	return NewFromTypes(types)
}

// MustFromLetters is FromLetters for fixed boards known to be valid.
func MustFromLetters(rows ...string) *Board {
	b, err := FromLetters(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
