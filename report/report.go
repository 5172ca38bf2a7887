// Package report writes the outcome of a solve in the formats downstream
// tools read: the plain key=value text file, JSON and YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runedrag/runedrag/solver"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// TextFilename is the name of the text summary inside an output dir.
const TextFilename = "output.txt"

type Summary struct {
	StartRow int      `json:"startRow" yaml:"startRow"`
	StartCol int      `json:"startCol" yaml:"startCol"`
	Moves    []string `json:"moves" yaml:"moves"`
	Cleared  int      `json:"cleared" yaml:"cleared"`
	Combos   int      `json:"combos" yaml:"combos"`
	Steps    int      `json:"steps" yaml:"steps"`
}

func FromPlan(p *solver.Plan) Summary {
	return Summary{
		StartRow: p.Start.Row,
		StartCol: p.Start.Col,
		Moves:    p.Moves.Names(),
		Cleared:  p.Result.Cleared,
		Combos:   p.Result.Combos,
		Steps:    p.Steps(),
	}
}

// WriteText writes s as
//
//	startRowIdx=2
//	startColIdx=3
//	UP LEFT
//	stones=6
//	combo=2
//	steps=2
func WriteText(w io.Writer, s Summary) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "startRowIdx=%d\n", s.StartRow)
	fmt.Fprintf(&sb, "startColIdx=%d\n", s.StartCol)
	for _, m := range s.Moves {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "\nstones=%d\ncombo=%d\nsteps=%d\n", s.Cleared, s.Combos, s.Steps)
	_, err := io.WriteString(w, sb.String())
	return err
}

func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func ParseFormat(f string) (Format, error) {
	switch Format(strings.ToLower(f)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q", f)
}

func Write(w io.Writer, s Summary, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	default:
		return WriteText(w, s)
	}
}

// WriteFile writes s to path in format f.
func WriteFile(path string, s Summary, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, s, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
