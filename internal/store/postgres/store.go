// Package postgres stores copy history in a PostgreSQL table reached through
// the pgx database/sql driver. The schema is applied with goose at start-up.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type Store struct {
	db *sql.DB
}

// Open connects to dsn, checks the connection and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing pool. Migrations are not applied.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, rec *domain.HistoryRecord) error {
	data, err := json.Marshal(rec.Copy)
	if err != nil {
		return fmt.Errorf("marshal copy: %w", err)
	}

	query :=
		`INSERT INTO copy_history (id, user_id, bundle_name, tone, tone_label, copy, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.BundleName, string(rec.Tone), rec.ToneLabel, string(data), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		return []domain.HistoryRecord{}, nil
	}

	query :=
		`SELECT id, user_id, bundle_name, tone, tone_label, copy, created_at
		 FROM copy_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HistoryRecord, 0, limit)
	for rows.Next() {
		var (
			rec  domain.HistoryRecord
			tone string
			data []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.BundleName, &tone, &rec.ToneLabel, &data, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := json.Unmarshal(data, &rec.Copy); err != nil {
			return nil, fmt.Errorf("decode copy of %s: %w", rec.ID, err)
		}
		if rec.Copy.Bullets == nil {
			rec.Copy.Bullets = []string{}
		}
		rec.Tone = domain.Tone(tone)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM copy_history WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
