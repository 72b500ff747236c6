package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db *sql.DB
}

func openSQLite(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) SaveWeek(ctx context.Context, rec WeekRecord) error {
	entries, err := encodeEntries(rec.Entries)
	if err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weeks(shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(shabbat_date) DO UPDATE SET
		   parasha=excluded.parasha, parasha_hebrew=excluded.parasha_hebrew,
		   start_clock=excluded.start_clock, end_clock=excluded.end_clock,
		   season=excluded.season, entries=excluded.entries,
		   mevarchim=excluded.mevarchim, molad=excluded.molad,
		   tekufa=excluded.tekufa, created_at=excluded.created_at`,
		rec.ShabbatDate.Format(dateLayout), rec.Parasha, rec.ParashaHebrew,
		rec.Start, rec.End, rec.Season, entries,
		boolToInt(rec.Mevarchim), rec.Molad, rec.Tekufa,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: save week: %w", err)
	}
	return nil
}

func (s *sqliteStore) Week(ctx context.Context, shabbatDate time.Time) (WeekRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at
		 FROM weeks WHERE shabbat_date = ?`,
		shabbatDate.Format(dateLayout),
	)
	rec, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return WeekRecord{}, ErrNotFound
	}
	if err != nil {
		return WeekRecord{}, fmt.Errorf("store: load week: %w", err)
	}
	return rec, nil
}

func (s *sqliteStore) Weeks(ctx context.Context, from, to time.Time) ([]WeekRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at
		 FROM weeks WHERE shabbat_date >= ? AND shabbat_date <= ?
		 ORDER BY shabbat_date`,
		from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list weeks: %w", err)
	}
	defer rows.Close()

	var recs []WeekRecord
	for rows.Next() {
		rec, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan week: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate weeks: %w", err)
	}
	return recs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWeek(sc scanner) (WeekRecord, error) {
	var (
		rec       WeekRecord
		date      string
		entries   string
		mevarchim int
		createdAt string
	)
	err := sc.Scan(&date, &rec.Parasha, &rec.ParashaHebrew, &rec.Start, &rec.End,
		&rec.Season, &entries, &mevarchim, &rec.Molad, &rec.Tekufa, &createdAt)
	if err != nil {
		return WeekRecord{}, err
	}

	rec.ShabbatDate, err = time.Parse(dateLayout, date)
	if err != nil {
		return WeekRecord{}, fmt.Errorf("bad shabbat_date %q: %w", date, err)
	}
	rec.Entries, err = decodeEntries(entries)
	if err != nil {
		return WeekRecord{}, err
	}
	rec.Mevarchim = mevarchim != 0
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return WeekRecord{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
