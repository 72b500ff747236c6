package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

type postgresStore struct {
	db *sql.DB
}

func openPostgres(dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	st := &postgresStore{db: db}
	if err := st.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate postgres: %w", err)
	}
	return st, nil
}

func (s *postgresStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *postgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *postgresStore) SaveWeek(ctx context.Context, rec WeekRecord) error {
	entries, err := encodeEntries(rec.Entries)
	if err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weeks(shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT(shabbat_date) DO UPDATE SET
		   parasha=EXCLUDED.parasha, parasha_hebrew=EXCLUDED.parasha_hebrew,
		   start_clock=EXCLUDED.start_clock, end_clock=EXCLUDED.end_clock,
		   season=EXCLUDED.season, entries=EXCLUDED.entries,
		   mevarchim=EXCLUDED.mevarchim, molad=EXCLUDED.molad,
		   tekufa=EXCLUDED.tekufa, created_at=EXCLUDED.created_at`,
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

func (s *postgresStore) Week(ctx context.Context, shabbatDate time.Time) (WeekRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at
		 FROM weeks WHERE shabbat_date = $1`,
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

func (s *postgresStore) Weeks(ctx context.Context, from, to time.Time) ([]WeekRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT shabbat_date, parasha, parasha_hebrew, start_clock, end_clock, season, entries, mevarchim, molad, tekufa, created_at
		 FROM weeks WHERE shabbat_date >= $1 AND shabbat_date <= $2
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
