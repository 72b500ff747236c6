// Package store archives derived weekly schedules.
//
// One row is kept per Shabbat date: the derived service entries as JSON
// plus the annotations shown on the community board (parasha, mevarchim,
// molad announcement, tekufa). Backends are selected by DSN: postgres://
// DSNs open Postgres, anything else is treated as a SQLite path.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when no archived week exists for a date.
var ErrNotFound = errors.New("store: week not found")

// WeekRecord is one archived Shabbat schedule with its annotations.
type WeekRecord struct {
	ShabbatDate   time.Time
	Parasha       string
	ParashaHebrew string
	Start         string // candle lighting HH:MM
	End           string // havdalah HH:MM
	Season        string
	Entries       []EntryRecord
	Mevarchim     bool
	Molad         string // announcement line, empty unless mevarchim
	Tekufa        string // tekufa label falling in the week, if any
	CreatedAt     time.Time
}

// EntryRecord is one derived service. An empty Times slice marks an
// absent service.
type EntryRecord struct {
	ID    string   `json:"id"`
	Times []string `json:"times,omitempty"`
}

// Store persists weekly schedules.
type Store interface {
	SaveWeek(ctx context.Context, rec WeekRecord) error
	Week(ctx context.Context, shabbatDate time.Time) (WeekRecord, error)
	Weeks(ctx context.Context, from, to time.Time) ([]WeekRecord, error)
	Close() error
}

// Open selects a backend by DSN. An empty DSN opens SQLite at DefaultPath.
func Open(dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPostgres(dsn)
	case dsn == "":
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		return openSQLite(path)
	default:
		return openSQLite(strings.TrimPrefix(dsn, "file:"))
	}
}

// DefaultPath returns the default SQLite database path.
// It respects $XDG_DATA_HOME if set, otherwise uses ~/.local/share/.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "horaires-shabbat", "archive.db"), nil
}

const dateLayout = "2006-01-02"

func encodeEntries(entries []EntryRecord) (string, error) {
	if entries == nil {
		entries = []EntryRecord{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("store: encode entries: %w", err)
	}
	return string(data), nil
}

func decodeEntries(data string) ([]EntryRecord, error) {
	var entries []EntryRecord
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("store: decode entries: %w", err)
	}
	return entries, nil
}
