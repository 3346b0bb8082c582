package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
)

//go:embed schema.sql
var schema string

// sortable: fixed width, unlike time.RFC3339Nano
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps one row per game: the JSON snapshot plus a few columns
// used for listings and summaries.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("sqlite-store-opened")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func winnerText(c board.Color) string {
	if !c.IsTeam() {
		return ""
	}
	return c.String()
}

func (s *SQLiteStore) Save(ctx context.Context, snap *game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	f := factsFor(snap)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, created_at, version, phase, winner, turns,
			automated_spymaster, automated_operative, clue_rating, guess_rating, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			version = excluded.version,
			phase = excluded.phase,
			winner = excluded.winner,
			turns = excluded.turns,
			clue_rating = excluded.clue_rating,
			guess_rating = excluded.guess_rating,
			snapshot = excluded.snapshot
		WHERE excluded.version >= games.version`,
		snap.ID, snap.CreatedAt.UTC().Format(timeLayout), snap.Version, string(snap.Phase),
		winnerText(snap.Winner), len(snap.ClueHistory),
		boolInt(f.automatedSpymaster), boolInt(f.automatedOperative),
		snap.ClueRating, snap.GuessRating, string(data))
	if err != nil {
		return fmt.Errorf("save game %s: %w", snap.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*game.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM games WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(data))
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns the games newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, version, phase, winner, turns
		FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e              Entry
			created, phase string
			winner         string
		)
		if err := rows.Scan(&e.ID, &created, &e.Version, &phase, &winner, &e.Turns); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("game %s: %w", e.ID, err)
		}
		e.Phase = game.Phase(phase)
		if winner != "" {
			if e.Winner, err = board.ParseTeam(winner); err != nil {
				return nil, fmt.Errorf("game %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Summary(ctx context.Context) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT phase, winner, automated_spymaster, automated_operative,
			clue_rating, guess_rating
		FROM games`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sum := newSummary()
	for rows.Next() {
		var (
			f             gameFacts
			phase, winner string
			asp, aop      int
		)
		if err := rows.Scan(&phase, &winner, &asp, &aop, &f.clueRating, &f.guessRating); err != nil {
			return nil, err
		}
		f.phase = game.Phase(phase)
		if winner != "" {
			if f.winner, err = board.ParseTeam(winner); err != nil {
				return nil, err
			}
		}
		f.automatedSpymaster = asp == 1
		f.automatedOperative = aop == 1
		sum.add(f)
	}
	return sum, rows.Err()
}
