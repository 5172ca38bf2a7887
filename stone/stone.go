// Package stone defines the typed stones that fill a board, along with the
// letter and colour tables used to read and display them.
package stone

import (
	"errors"
	"fmt"
	"image/color"
)

// A Type is the kind of a stone. The zero value, None, is not a real stone;
// it marks an empty or not-removed cell.
type Type uint8

const (
	None Type = iota
	Dark
	Light
	Water
	Fire
	Earth
	Health
)

// NumTypes is the number of real stone types.
const NumTypes = 6

// Types lists every real stone type in declaration order. Several adapters
// rely on this order for tie-breaking.
var Types = [NumTypes]Type{Dark, Light, Water, Fire, Earth, Health}

var ErrUnknownType = errors.New("unknown stone type")

var names = [...]string{"none", "dark", "light", "water", "fire", "earth", "health"}

var letters = [...]byte{'.', 'D', 'L', 'W', 'F', 'E', 'H'}

// ansi colour escape prefixes, same palette the game uses on screen.
var ansi = [...]string{
	"\x1b[0;37;40m",
	"\x1b[0;35;40m",
	"\x1b[0;33;40m",
	"\x1b[0;34;40m",
	"\x1b[0;31;40m",
	"\x1b[0;32;40m",
	"\x1b[0;37;40m",
}

const ansiReset = "\x1b[0m"

// referenceColors are the average on-screen colours of each stone type.
var referenceColors = [...]color.RGBA{
	{0, 0, 0, 255},
	{118, 28, 138, 255},
	{120, 89, 11, 255},
	{44, 90, 136, 255},
	{153, 28, 15, 255},
	{27, 117, 31, 255},
	{172, 74, 128, 255},
}

func (t Type) Valid() bool {
	return t >= Dark && t <= Health
}

func (t Type) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Letter returns the single-letter token used in board files.
func (t Type) Letter() byte {
	if int(t) < len(letters) {
		return letters[t]
	}
	return '?'
}

// Color returns the reference RGB colour for the type.
func (t Type) Color() color.RGBA {
	if int(t) < len(referenceColors) {
		return referenceColors[t]
	}
	return referenceColors[None]
}

// FromLetter parses a single-letter token (D, L, W, F, E, H).
func FromLetter(tok string) (Type, error) {
	if len(tok) == 1 {
		for i := Dark; i <= Health; i++ {
			if letters[i] == tok[0] {
				return i, nil
			}
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, tok)
}

// FromName parses a lower-case type name such as "water".
func FromName(name string) (Type, error) {
	for i := Dark; i <= Health; i++ {
		if names[i] == name {
			return i, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Marker is a display-only status tag. It never takes part in equality or
// scoring.
type Marker uint8

const (
	Unmarked Marker = iota
	Active
	Removed
)

func (m Marker) Symbol() byte {
	switch m {
	case Active:
		return '*'
	case Removed:
		return '+'
	}
	return ' '
}

// Stone is a typed stone with its display marker.
type Stone struct {
	Type   Type
	Marker Marker
}

// DisplayString renders the stone the way the game log prints it, e.g.
// a coloured " D[*] ".
func (s Stone) DisplayString() string {
	return fmt.Sprintf("%s %c[%c] %s", ansi[s.Type%Type(len(ansi))], s.Type.Letter(),
		s.Marker.Symbol(), ansiReset)
}
