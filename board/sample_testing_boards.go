package board

// Sample boards shared by tests across packages.
type SampleBoard int

const (
	// NoMatches is a 5x6 board with no run anywhere.
	NoMatches SampleBoard = iota
	// DarkTopLeft has three dark stones at the top-left of row 0 and no
	// other run.
	DarkTopLeft
	// TwoDisjointRuns has a light run in row 0 and a water run in row 4,
	// sharing no cell.
	TwoDisjointRuns
	// LShape has a dark row run and a dark column run sharing the corner
	// cell (0, 0).
	LShape
	// OneSwapAway needs a single drag to complete a fire run in row 2.
	OneSwapAway
)

var sampleBoards = map[SampleBoard][]string{
	NoMatches: {
		"DLWFEH",
		"LWFEHD",
		"WFEHDL",
		"FEHDLW",
		"EHDLWF",
	},
	DarkTopLeft: {
		"DDDLWF",
		"LWFEHL",
		"WFEHDW",
		"FEHDLE",
		"EHWLWF",
	},
	TwoDisjointRuns: {
		"WLLLFE",
		"DWFEHD",
		"WFEHDL",
		"FEHDLW",
		"EDWWWH",
	},
	LShape: {
		"DDDLWF",
		"DWFEHL",
		"DFEHDW",
		"FEHWLE",
		"EHWLWF",
	},
	OneSwapAway: {
		"DLWFEH",
		"LWFEHD",
		"FFLFDL",
		"WEHDLW",
		"EHDLWF",
	},
}

// Sample returns a fresh copy of a named sample board.
func Sample(s SampleBoard) *Board {
	return MustFromLetters(sampleBoards[s]...)
}
