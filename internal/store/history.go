package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const historyFileName = "history.sqlite"

// Selection kinds.
const (
	KindSingle = "single"
	KindRange  = "range"
)

// Selection is one recorded pick.
type Selection struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Calendar  string     `json:"calendar"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Formatted string     `json:"formatted"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (s Store) historyPath() string {
	return filepath.Join(s.Dir, historyFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.historyPath())
	if err != nil {
		return nil, err
	}
	// Several pickers may record at once; WAL plus busy_timeout keeps them from
	// tripping over "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS selections (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			calendar TEXT NOT NULL,
			start_unix INTEGER NOT NULL,
			end_unix INTEGER,
			formatted TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_selections_created ON selections(created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// AppendSelection records sel, filling ID and CreatedAt when unset.
func (s Store) AppendSelection(ctx context.Context, sel Selection) (Selection, error) {
	sel.Kind = strings.TrimSpace(sel.Kind)
	switch sel.Kind {
	case KindSingle:
		if sel.End != nil {
			return Selection{}, errors.New("history: single selection with an end date")
		}
	case KindRange:
		if sel.End == nil {
			return Selection{}, errors.New("history: range selection without an end date")
		}
	default:
		return Selection{}, errors.New("history: unknown kind " + sel.Kind)
	}
	if sel.Start.IsZero() {
		return Selection{}, errors.New("history: missing start date")
	}
	if sel.ID == "" {
		sel.ID = uuid.NewString()
	}
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = time.Now().UTC()
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return Selection{}, err
	}
	defer db.Close()

	var end sql.NullInt64
	if sel.End != nil {
		end = sql.NullInt64{Int64: sel.End.Unix(), Valid: true}
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO selections(id, kind, calendar, start_unix, end_unix, formatted, created_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		sel.ID, sel.Kind, sel.Calendar, sel.Start.Unix(), end, sel.Formatted, sel.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// RecentSelections returns up to limit selections, newest first. limit <= 0
// returns all of them.
func (s Store) RecentSelections(ctx context.Context, limit int) ([]Selection, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, kind, calendar, start_unix, end_unix, formatted, created_at_unixms
		FROM selections ORDER BY created_at_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Selection{}
	for rows.Next() {
		var (
			sel                Selection
			startUnix, created int64
			end                sql.NullInt64
		)
		if err := rows.Scan(&sel.ID, &sel.Kind, &sel.Calendar, &startUnix, &end, &sel.Formatted, &created); err != nil {
			return nil, err
		}
		sel.Start = time.Unix(startUnix, 0).UTC()
		if end.Valid {
			e := time.Unix(end.Int64, 0).UTC()
			sel.End = &e
		}
		sel.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, sel)
	}
	return out, rows.Err()
}
