// Package store keeps a history of solves in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/runedrag/runedrag/board"
	"github.com/runedrag/runedrag/solver"
)

var ErrNoPlan = errors.New("no plan to save")

var schema = []string{`
CREATE TABLE IF NOT EXISTS solves (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	board     TEXT    NOT NULL,
	hash      INTEGER NOT NULL,
	start_row INTEGER NOT NULL,
	start_col INTEGER NOT NULL,
	moves     TEXT    NOT NULL,
	cleared   INTEGER NOT NULL,
	combos    INTEGER NOT NULL,
	steps     INTEGER NOT NULL,
	nodes     INTEGER NOT NULL,
	elapsed   INTEGER NOT NULL,
	created   INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS solves_hash ON solves(hash)`,
}

const columns = `id, board, hash, start_row, start_col, moves, cleared, combos, steps,
	nodes, elapsed, created`

// Record is one saved solve.
type Record struct {
	ID      int64
	Board   string
	Hash    uint64
	Start   board.Pos
	Moves   string
	Cleared int
	Combos  int
	Steps   int
	Nodes   uint64
	Elapsed time.Duration
	Created time.Time
}

func (r Record) String() string {
	return fmt.Sprintf("#%d %s start %v moves %q stones=%d combo=%d steps=%d (%v)",
		r.ID, r.Created.Format(time.DateTime), r.Start, r.Moves, r.Cleared, r.Combos,
		r.Steps, r.Elapsed.Round(time.Millisecond))
}

// BoardHash identifies a board layout by its stone types only.
func BoardHash(b *board.Board) uint64 {
	return xxhash.Sum64String(b.Letters())
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema in %s: %w", path, err)
		}
	}
	log.Debug().Str("path", path).Msg("opened-history-db")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a plan for board b and returns the new record's id.
func (s *Store) Save(ctx context.Context, b *board.Board, p *solver.Plan) (int64, error) {
	if p == nil {
		return 0, ErrNoPlan
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO solves
		(board, hash, start_row, start_col, moves, cleared, combos, steps, nodes, elapsed, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Letters(), int64(BoardHash(b)), p.Start.Row, p.Start.Col,
		p.Moves.ShortDescription(), p.Result.Cleared, p.Result.Combos, p.Steps(),
		int64(p.Nodes), int64(p.Elapsed), time.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var r Record
		var hash, nodes, elapsed, created int64
		if err := rows.Scan(&r.ID, &r.Board, &hash, &r.Start.Row, &r.Start.Col, &r.Moves,
			&r.Cleared, &r.Combos, &r.Steps, &nodes, &elapsed, &created); err != nil {
			return nil, err
		}
		r.Hash = uint64(hash)
		r.Nodes = uint64(nodes)
		r.Elapsed = time.Duration(elapsed)
		r.Created = time.Unix(0, created)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM solves ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// ByBoard returns every record for boards with the given hash, newest
// first.
func (s *Store) ByBoard(ctx context.Context, hash uint64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM solves WHERE hash = ? ORDER BY id DESC`, int64(hash))
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}
