// Package sqlite persists user chart preferences: the last viewed
// symbol/timeframe pair and each symbol's preferred timeframe shortcuts.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// MaxPreferredTimeframes bounds the per-symbol shortcut list.
const MaxPreferredTimeframes = 4

// Store is a single-connection SQLite preference store.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Open creates the store, initializing the database with WAL mode and schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	slog.Info("preference store opened", "path", path)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS last_view (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			symbol     TEXT    NOT NULL,
			timeframe  TEXT    NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE TABLE IF NOT EXISTS preferred_timeframes (
			symbol    TEXT    NOT NULL,
			position  INTEGER NOT NULL,
			timeframe TEXT    NOT NULL,
			PRIMARY KEY (symbol, position)
		);
	`)
	return err
}

// SaveLastView records the symbol/timeframe the user is looking at so the
// next session reopens on the same chart.
func (s *Store) SaveLastView(symbol string, tf model.Timeframe) error {
	_, err := s.db.Exec(`
		INSERT INTO last_view (id, symbol, timeframe, updated_at)
		VALUES (1, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(id) DO UPDATE SET
			symbol = excluded.symbol,
			timeframe = excluded.timeframe,
			updated_at = excluded.updated_at
	`, symbol, string(tf))
	if err != nil {
		return fmt.Errorf("sqlite save last view: %w", err)
	}
	return nil
}

// LastView returns the previously saved view, or ok=false when none exists.
func (s *Store) LastView() (symbol string, tf model.Timeframe, ok bool, err error) {
	var tfs string
	row := s.db.QueryRow(`SELECT symbol, timeframe FROM last_view WHERE id = 1`)
	if err := row.Scan(&symbol, &tfs); err != nil {
		if err == sql.ErrNoRows {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("sqlite last view: %w", err)
	}
	return symbol, model.Timeframe(tfs), true, nil
}

// SavePreferredTimeframes replaces the symbol's shortcut list. Lists longer
// than MaxPreferredTimeframes are truncated.
func (s *Store) SavePreferredTimeframes(symbol string, tfs []model.Timeframe) error {
	if len(tfs) > MaxPreferredTimeframes {
		tfs = tfs[:MaxPreferredTimeframes]
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM preferred_timeframes WHERE symbol = ?`, symbol); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO preferred_timeframes (symbol, position, timeframe) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, tf := range tfs {
		if _, err := stmt.Exec(symbol, i, string(tf)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// PreferredTimeframes returns the symbol's shortcut list in saved order.
// An empty slice means the symbol has no saved shortcuts.
func (s *Store) PreferredTimeframes(symbol string) ([]model.Timeframe, error) {
	rows, err := s.db.Query(
		`SELECT timeframe FROM preferred_timeframes WHERE symbol = ? ORDER BY position`,
		symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite preferred timeframes: %w", err)
	}
	defer rows.Close()

	var tfs []model.Timeframe
	for rows.Next() {
		var tf string
		if err := rows.Scan(&tf); err != nil {
			return nil, err
		}
		tfs = append(tfs, model.Timeframe(tf))
	}
	return tfs, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
