package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/config"
	"github.com/runedrag/runedrag/solver"
	"github.com/runedrag/runedrag/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("no board loaded; use new or load first")
	errNoPlan            = errors.New("nothing solved yet; use solve first")
	errSolving           = errors.New("a solve is in progress")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	ctx      context.Context
	searchMu sync.Mutex
	// cancelSearch stops the solve or cells search in flight, if any.
	cancelSearch context.CancelFunc

	board   *board.Board
	plan    *solver.Plan
	solver  *solver.Solver
	history *store.Store
	solving bool
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the shell. The readline instance is only
// created when Loop runs, so one-shot commands never touch the terminal.
func NewShellController(ctx context.Context, cfg *config.Config) *ShellController {
	sc := &ShellController{config: cfg, ctx: ctx, solver: solver.NewSolver()}
	if p := cfg.GetString(config.ConfigHistoryDB); p != "" {
		h, err := store.Open(ctx, p)
		if err != nil {
			log.Err(err).Str("path", p).Msg("history-db-disabled")
		} else {
			sc.history = h
		}
	}
	b, err := board.NewRandom(cfg.GetInt(config.ConfigRows), cfg.GetInt(config.ConfigCols), nil)
	if err != nil {
		log.Err(err).Msg("initial-board")
	} else {
		sc.board = b
	}
	return sc
}

func (sc *ShellController) initReadline() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[35mrunedrag>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "runedrag-readline.tmp"),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	return nil
}

func (sc *ShellController) stdout() io.Writer {
	if sc.l != nil {
		return sc.l.Stdout()
	}
	return os.Stdout
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l != nil {
		return sc.l.Stderr()
	}
	return os.Stderr
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.stdout())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && !isNumber(fields[i]) {
			// option
			if i+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newBoard(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "eval":
		return sc.eval(cmd)
	case "cur":
		return sc.cur(cmd)
	case "solve":
		return sc.solve(cmd)
	case "cells":
		return sc.cells(cmd)
	case "replay":
		return sc.replay(cmd)
	case "render":
		return sc.render(cmd)
	case "export":
		return sc.export(cmd)
	case "save":
		return sc.save(cmd)
	case "history":
		return sc.showHistory(cmd)
	case "set":
		return sc.set(cmd)
	case "help":
		return sc.help(cmd)
	}
	return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
}

// standardModeSwitch runs one line. It returns io.EOF when the shell
// should exit.
func (sc *ShellController) standardModeSwitch(line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		if err == errNoData {
			return nil
		}
		sc.showError(err)
		return nil
	}
	if cmd.cmd == "exit" || cmd.cmd == "quit" {
		return io.EOF
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a single command line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.standardModeSwitch(line); err == io.EOF {
		sig <- syscall.SIGINT
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		log.Error().Err(err).Msg("readline")
		sig <- syscall.SIGINT
		return
	}
	defer sc.l.Close()
	if sc.board != nil {
		sc.showMessage(sc.board.String())
	}

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.standardModeSwitch(line); err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// searchContext returns the context a search runs under. Interrupt cancels
// it; done must be called when the search returns.
func (sc *ShellController) searchContext() (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(sc.ctx)
	sc.searchMu.Lock()
	sc.cancelSearch = cancel
	sc.searchMu.Unlock()
	return ctx, func() {
		sc.searchMu.Lock()
		sc.cancelSearch = nil
		sc.searchMu.Unlock()
		cancel()
	}
}

// Interrupt stops the search in flight, which then returns its best plan so
// far. It reports false when nothing was running.
func (sc *ShellController) Interrupt() bool {
	sc.searchMu.Lock()
	defer sc.searchMu.Unlock()
	if sc.cancelSearch == nil {
		return false
	}
	sc.cancelSearch()
	sc.cancelSearch = nil
	return true
}

// Cleanup releases the history database.
func (sc *ShellController) Cleanup() {
	if sc.history != nil {
		if err := sc.history.Close(); err != nil {
			log.Err(err).Msg("closing-history-db")
		}
	}
}

func setLogLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
