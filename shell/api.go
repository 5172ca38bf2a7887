package shell

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/boardio"
	"github.com/runedrag/runedrag/classifier"
	"github.com/runedrag/runedrag/config"
	"github.com/runedrag/runedrag/match"
	"github.com/runedrag/runedrag/render"
	"github.com/runedrag/runedrag/report"
	"github.com/runedrag/runedrag/solver"
	"github.com/runedrag/runedrag/stats"
	"github.com/runedrag/runedrag/stone"
	"github.com/runedrag/runedrag/store"
)

type Response struct {
	message string
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

var imageExts = []string{".png", ".jpg", ".jpeg"}

func (sc *ShellController) dims(cmd *shellcmd) (int, int, error) {
	rows, cols := sc.config.GetInt(config.ConfigRows), sc.config.GetInt(config.ConfigCols)
	if len(cmd.args) == 0 {
		return rows, cols, nil
	}
	if len(cmd.args) != 2 {
		return 0, 0, errors.New("usage: new [rows cols]")
	}
	var err error
	if rows, err = strconv.Atoi(cmd.args[0]); err != nil {
		return 0, 0, err
	}
	if cols, err = strconv.Atoi(cmd.args[1]); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

func (sc *ShellController) setBoard(b *board.Board) {
	sc.board = b
	sc.plan = nil
}

func (sc *ShellController) newBoard(cmd *shellcmd) (*Response, error) {
	if sc.solving {
		return nil, errSolving
	}
	rows, cols, err := sc.dims(cmd)
	if err != nil {
		return nil, err
	}
	b, err := board.NewRandom(rows, cols, nil)
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return msg(b.String()), nil
}

// base returns the board a loaded file is laid over: the current board if
// it has the configured size, or a fresh random one.
func (sc *ShellController) base() (*board.Board, error) {
	rows, cols := sc.config.GetInt(config.ConfigRows), sc.config.GetInt(config.ConfigCols)
	if sc.board != nil && sc.board.Rows() == rows && sc.board.Cols() == cols {
		return sc.board, nil
	}
	return board.NewRandom(rows, cols, nil)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if sc.solving {
		return nil, errSolving
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file> [-policy strict|skip]")
	}
	path := cmd.args[0]
	base, err := sc.base()
	if err != nil {
		return nil, err
	}
	var b *board.Board
	if lo.Contains(imageExts, strings.ToLower(filepath.Ext(path))) {
		c, err := classifier.New(base.Rows(), base.Cols(), sc.config.GetInt(config.ConfigPixels))
		if err != nil {
			return nil, err
		}
		c.SetWeight(stone.Health, sc.config.GetFloat64(config.ConfigHealthWeight))
		b, err = c.ClassifyFile(path, base)
		if err != nil {
			return nil, err
		}
	} else {
		policyStr := cmd.options.String("policy")
		if policyStr == "" {
			policyStr = sc.config.GetString(config.ConfigLoadPolicy)
		}
		policy, err := boardio.ParsePolicy(policyStr)
		if err != nil {
			return nil, err
		}
		b, err = boardio.ReadFile(path, base, policy)
		if err != nil {
			return nil, err
		}
	}
	sc.setBoard(b)
	return msg(b.String()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	return msg(fmt.Sprintf("%s\ncurrent %v, previous %v",
		sc.board.String(), sc.board.Current(), sc.board.Previous())), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	res := match.Evaluate(sc.board)
	return msg(match.Annotate(sc.board, res).String() + "\n" + res.Summary.String()), nil
}

func (sc *ShellController) cur(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.solving {
		return nil, errSolving
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: cur <row> <col>")
	}
	r, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	c, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	nb := sc.board.Clone()
	if err := nb.Reroot(board.Pos{Row: r, Col: c}); err != nil {
		return nil, err
	}
	sc.setBoard(nb)
	return msg(nb.String()), nil
}

// configureSolver applies the settings, overridden by any solve options.
func (sc *ShellController) configureSolver(opts CmdOptions) error {
	intSetting := func(key string) (int, error) {
		return opts.IntDefault(key, sc.config.GetInt(key))
	}
	vals := map[string]int{}
	for _, key := range []string{config.ConfigStartDepth, config.ConfigPhaseDepth,
		config.ConfigPhases, config.ConfigThreads, config.ConfigMaxNodes} {
		v, err := intSetting(key)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		vals[key] = v
	}
	if vals[config.ConfigMaxNodes] < 0 {
		return fmt.Errorf("%w: max-nodes %d", solver.ErrInvalidSetting, vals[config.ConfigMaxNodes])
	}
	s := sc.solver
	s.SetStartDepth(vals[config.ConfigStartDepth])
	s.SetPhaseDepth(vals[config.ConfigPhaseDepth])
	s.SetPhases(vals[config.ConfigPhases])
	s.SetThreads(vals[config.ConfigThreads])
	s.SetMaxNodes(uint64(vals[config.ConfigMaxNodes]))
	evalTable := sc.config.GetBool(config.ConfigEvalTable)
	if v, ok := opts["eval-table"]; ok {
		evalTable = strings.ToLower(v) == "true"
	}
	s.SetEvalTableOptim(evalTable)
	s.SetEvalTableFraction(sc.config.GetFloat64(config.ConfigEvalTableFraction))
	return nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.solving {
		return nil, errSolving
	}
	if err := sc.configureSolver(cmd.options); err != nil {
		return nil, err
	}
	sc.solving = true
	defer func() { sc.solving = false }()

	ctx, done := sc.searchContext()
	plan, err := sc.solver.Solve(ctx, sc.board)
	done()
	if err != nil {
		return nil, err
	}
	sc.plan = plan

	if sc.history != nil {
		if _, err := sc.history.Save(sc.ctx, sc.board, plan); err != nil {
			sc.showError(err)
		}
	}
	final := match.Annotate(plan.Final, plan.Result)
	return msg(plan.String() + "\n" + final.String()), nil
}

func (sc *ShellController) cells(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	var scores []float64
	var start board.Pos
	if sc.plan != nil {
		scores, start = sc.plan.StartScores, sc.plan.Start
	} else {
		if err := sc.configureSolver(cmd.options); err != nil {
			return nil, err
		}
		var err error
		ctx, done := sc.searchContext()
		start, scores, _, err = sc.solver.SelectStart(ctx, sc.board)
		done()
		if err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	for r := 0; r < sc.board.Rows(); r++ {
		for c := 0; c < sc.board.Cols(); c++ {
			idx := sc.board.Index(board.Pos{Row: r, Col: c})
			mark := " "
			if start == (board.Pos{Row: r, Col: c}) {
				mark = "*"
			}
			fmt.Fprintf(&sb, "%9.3f%s", scores[idx], mark)
		}
		sb.WriteString("\n")
	}

	st := &stats.Statistic{}
	finite := lo.Filter(scores, func(v float64, _ int) bool {
		return !math.IsInf(v, 0)
	})
	for _, v := range finite {
		st.Push(v)
	}
	q := stats.Quantiles(scores, 0.1, 0.5, 0.9)
	fmt.Fprintf(&sb, "\nmean %.3f stdev %.3f min %.3f max %.3f\n", st.Mean(), st.Stdev(), st.Min(), st.Max())
	fmt.Fprintf(&sb, "p10 %.3f median %.3f p90 %.3f\n\n", q[0], q[1], q[2])
	if len(finite) > 0 {
		hist := histogram.Hist(15, finite)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			return nil, err
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) replay(cmd *shellcmd) (*Response, error) {
	if sc.plan == nil {
		return nil, errNoPlan
	}
	boards, err := sc.plan.Boards()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "start %v\n%s\n", sc.plan.Start, boards[0].String())
	for i, b := range boards[1:] {
		fmt.Fprintf(&sb, "%d. %v\n%s\n", i+1, sc.plan.Moves[i], b.String())
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) render(cmd *shellcmd) (*Response, error) {
	if sc.plan == nil {
		return nil, errNoPlan
	}
	dir := sc.config.GetString(config.ConfigOutputDir)
	if len(cmd.args) > 0 {
		dir = cmd.args[0]
	}
	r, err := render.New(render.Options{
		Pixels:    sc.config.GetInt(config.ConfigPixels),
		LineWidth: sc.config.GetInt(config.ConfigLineWidth),
		LineColor: sc.config.GetString(config.ConfigLineColor),
		AssetDir:  sc.config.GetString(config.ConfigAssetDir),
	})
	if err != nil {
		return nil, err
	}
	written, err := r.WriteAll(dir, sc.plan.Initial, sc.plan.Moves)
	if err != nil {
		return nil, err
	}
	txt := filepath.Join(dir, report.TextFilename)
	if err := report.WriteFile(txt, report.FromPlan(sc.plan), report.FormatText); err != nil {
		return nil, err
	}
	written = append(written, txt)
	return msg("wrote " + strings.Join(written, ", ")), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if sc.plan == nil {
		return nil, errNoPlan
	}
	f, err := report.ParseFormat(cmd.options.String("format"))
	if err != nil {
		return nil, err
	}
	s := report.FromPlan(sc.plan)
	if len(cmd.args) > 0 {
		if err := report.WriteFile(cmd.args[0], s, f); err != nil {
			return nil, err
		}
		return msg("wrote " + cmd.args[0]), nil
	}
	var sb strings.Builder
	if err := report.Write(&sb, s, f); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	if err := boardio.WriteFile(cmd.args[0], sc.board); err != nil {
		return nil, err
	}
	return msg("wrote " + cmd.args[0]), nil
}

func (sc *ShellController) showHistory(cmd *shellcmd) (*Response, error) {
	if sc.history == nil {
		return nil, errors.New("history is off; set history-db in the config")
	}
	var recs []store.Record
	var err error
	if cmd.options.Bool("board") {
		if sc.board == nil {
			return nil, errNoBoard
		}
		recs, err = sc.history.ByBoard(sc.ctx, store.BoardHash(sc.board))
	} else {
		n := 10
		if len(cmd.args) > 0 {
			if n, err = strconv.Atoi(cmd.args[0]); err != nil {
				return nil, err
			}
		}
		recs, err = sc.history.Recent(sc.ctx, n)
	}
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return msg("no solves recorded"), nil
	}
	lines := lo.Map(recs, func(r store.Record, _ int) string {
		return r.String()
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		keys := config.Keys()
		sort.Strings(keys)
		lines := lo.Map(keys, func(k string, _ int) string {
			return fmt.Sprintf("%-20s %v", k, sc.config.Get(k))
		})
		return msg(strings.Join(lines, "\n")), nil
	}
	key := cmd.args[0]
	if !config.Known(key) {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(key))), nil
	}
	value := cmd.args[1]
	sc.config.Set(key, value)
	if key == config.ConfigDebug {
		setLogLevel(sc.config.GetBool(config.ConfigDebug))
	}
	if cmd.options.Bool("save") {
		if err := sc.config.Write(); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		return msg(fmt.Sprintf("set %s to %s and saved to %s", key, value, sc.config.Path())), nil
	}
	return msg(fmt.Sprintf("set %s to %s", key, value)), nil
}
