// Package index keeps a SQLite snapshot of the cards seen by the last
// successful sync run.
//
// The wiki and the deck stay the sources of truth; the index only records
// what a run saw so that later runs (and `fcon status`) can tell which cards
// are new, changed, or gone since then.
//
// Architecture:
//   - Database file: configured by index_path (for example .fcon/index.db)
//   - WAL mode: status queries can run while a sync records
//   - Schema: cards (current snapshot), runs (one row per recorded run)
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mithrandir/fcon/internal/card"
)

// ErrNoRuns is returned by LastRun when nothing has been recorded yet.
var ErrNoRuns = errors.New("no runs recorded")

// DB wraps the SQLite connection holding the card snapshot.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the index at path.
//
// The caller MUST call Close() when done.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping index: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}

	if _, err := db.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}
	db.conn = nil
	return nil
}

// InitSchema creates the tables if they do not exist. Safe to call on every
// open.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		tags TEXT,  -- JSON array
		file TEXT,  -- empty for deck cards
		hash TEXT NOT NULL,
		run_id INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		direction TEXT NOT NULL,
		card_count INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cards_file ON cards(file);
	`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Run describes one recorded sync run.
type Run struct {
	ID         int64     `json:"id"`
	Direction  string    `json:"direction"`
	CardCount  int       `json:"card_count"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordRun replaces the snapshot with cards and logs the run, in one
// transaction.
func (db *DB) RecordRun(ctx context.Context, direction string, cards *card.Collection) (*Run, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	run := &Run{
		Direction:  direction,
		CardCount:  cards.Len(),
		RecordedAt: time.Now().UTC().Truncate(time.Second),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (direction, card_count, recorded_at) VALUES (?, ?, ?)`,
		run.Direction, run.CardCount, run.RecordedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read run id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
		return nil, fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cards (id, question, answer, tags, file, hash, run_id)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards.Cards() {
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			c.Identifier, c.Question, c.Answer, string(tagsJSON), c.OriginalFile, c.Hash(), run.ID,
		); err != nil {
			return nil, fmt.Errorf("failed to insert card %s: %w", c.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return run, nil
}

// LastRun returns the most recent run, or ErrNoRuns.
func (db *DB) LastRun(ctx context.Context) (*Run, error) {
	var (
		run        Run
		recordedAt string
	)
	err := db.conn.QueryRowContext(ctx, `
	SELECT id, direction, card_count, recorded_at
	FROM runs ORDER BY id DESC LIMIT 1
	`).Scan(&run.ID, &run.Direction, &run.CardCount, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}
	if run.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
		return nil, fmt.Errorf("failed to parse run time: %w", err)
	}
	return &run, nil
}

// CardCount returns the number of cards in the snapshot.
func (db *DB) CardCount(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// Drift lists how a collection differs from the snapshot.
type Drift struct {
	New     []string `json:"new,omitempty"`
	Changed []string `json:"changed,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Empty reports whether nothing differs.
func (d *Drift) Empty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Drift compares current with the snapshot by identifier and content hash.
// All lists are sorted.
func (db *DB) Drift(ctx context.Context, current *card.Collection) (*Drift, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, hash FROM cards")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		snapshot[id] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot: %w", err)
	}

	drift := &Drift{}
	for _, c := range current.Cards() {
		hash, ok := snapshot[c.Identifier]
		switch {
		case !ok:
			drift.New = append(drift.New, c.Identifier)
		case hash != c.Hash():
			drift.Changed = append(drift.Changed, c.Identifier)
		}
	}
	for id := range snapshot {
		if !current.Has(id) {
			drift.Removed = append(drift.Removed, id)
		}
	}
	sort.Strings(drift.Removed)
	return drift, nil
}
