package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/runedrag/runedrag/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"solve": {
		Options: []string{
			"-start-depth", "-phase-depth", "-phases", "-threads",
			"-max-nodes", "-eval-table",
		},
	},
	"cells": {
		Options: []string{"-start-depth", "-threads", "-max-nodes"},
	},
	"load": {
		Options: []string{"-policy"},
	},
	"export": {
		Options: []string{"-format"},
	},
	"history": {
		Options: []string{"-board"},
	},
	"set": {
		Args:    config.Keys(),
		Options: []string{"-save"},
	},
	"help": {
		Args: []string{"load", "solve", "export", "render", "set", "history", "cells"},
	},
}

var commandNames = []string{
	"new", "load", "show", "eval", "cur", "solve", "cells", "replay", "render",
	"export", "save", "history", "set", "help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote and the like
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "policy":
				completions = []string{"strict", "skip"}
			case "format":
				completions = []string{"text", "json", "yaml"}
			case "eval-table", "board", "save":
				completions = boolValues
			default:
				// a number is expected
				return nil, 0
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
