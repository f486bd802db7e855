// Package sqlite provides a SQLite-backed event journal.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nftopia/asset-registry/internal/events"
	"github.com/nftopia/asset-registry/internal/events/sqlite/migrations"
	sqlitemigrate "github.com/nftopia/asset-registry/internal/platform/storage/sqlitemigrate"
	"github.com/nftopia/asset-registry/internal/registry/domain"

	_ "modernc.org/sqlite"
)

// Store appends registry events to a SQLite journal.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite event journal and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Publish appends one event row.
func (s *Store) Publish(ctx context.Context, evt events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if evt.Type == "" {
		return fmt.Errorf("event type is required")
	}

	var tokenID any
	if evt.TokenID != nil {
		tokenID = int64(*evt.TokenID)
	}
	approved := 0
	if evt.Approved {
		approved = 1
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO registry_events (
		   id,
		   event_type,
		   actor,
		   from_address,
		   to_address,
		   token_id,
		   approved,
		   detail,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID,
		string(evt.Type),
		string(evt.Actor),
		string(evt.From),
		string(evt.To),
		tokenID,
		approved,
		evt.Detail,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, event_type, actor, from_address, to_address, token_id, approved, detail, created_at
		 FROM registry_events
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			evt       events.Event
			eventType string
			actor     string
			from      string
			to        string
			tokenID   sql.NullInt64
			approved  int
			createdAt int64
		)
		if err := rows.Scan(&evt.ID, &eventType, &actor, &from, &to, &tokenID, &approved, &evt.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Type = events.Type(eventType)
		evt.Actor = domain.Address(actor)
		evt.From = domain.Address(from)
		evt.To = domain.Address(to)
		if tokenID.Valid {
			evt.TokenID = events.TokenRef(uint64(tokenID.Int64))
		}
		evt.Approved = approved != 0
		evt.Timestamp = fromMillis(createdAt)
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
