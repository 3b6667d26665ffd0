// Package sqlite provides the embedded SQLite store used by the CLI by default.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"arcane_battle/internal/storage"
	"arcane_battle/internal/storage/migrations"
)

type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrations.Up(ctx, sqlDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) HeroProgress(ctx context.Context, heroID string) (storage.HeroProgress, error) {
	p := storage.HeroProgress{HeroID: heroID, Level: 1}
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT level, exp FROM hero_progress WHERE hero_id = ?`, heroID,
	).Scan(&p.Level, &p.Exp)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("query hero progress %q: %w", heroID, err)
	}
	return p, nil
}

func (s *Store) SaveHeroProgress(ctx context.Context, p storage.HeroProgress) error {
	if p.HeroID == "" || p.Level < 1 || p.Exp < 0 {
		return storage.ErrInvalidArgument
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO hero_progress (hero_id, level, exp, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(hero_id) DO UPDATE SET level = excluded.level, exp = excluded.exp, updated_at = excluded.updated_at`,
		p.HeroID, p.Level, p.Exp, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save hero progress %q: %w", p.HeroID, err)
	}
	return nil
}

func (s *Store) AddGold(ctx context.Context, amount int) (int, error) {
	var gold int
	err := s.sqlDB.QueryRowContext(ctx,
		`UPDATE wallet SET gold = gold + ? WHERE id = 1 RETURNING gold`, amount,
	).Scan(&gold)
	if err != nil {
		return 0, fmt.Errorf("add gold: %w", err)
	}
	return gold, nil
}

func (s *Store) Gold(ctx context.Context) (int, error) {
	var gold int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT gold FROM wallet WHERE id = 1`).Scan(&gold); err != nil {
		return 0, fmt.Errorf("query gold: %w", err)
	}
	return gold, nil
}

func (s *Store) BestStars(ctx context.Context, stageID string) (int, error) {
	var stars int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT best_stars FROM stage_clears WHERE stage_id = ?`, stageID,
	).Scan(&stars)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query best stars %q: %w", stageID, err)
	}
	return stars, nil
}

// RecordClear counts the clear and keeps the higher rating.
func (s *Store) RecordClear(ctx context.Context, stageID string, stars int) error {
	if stageID == "" || stars < 0 || stars > 3 {
		return storage.ErrInvalidArgument
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO stage_clears (stage_id, best_stars, clears, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(stage_id) DO UPDATE SET
		   best_stars = MAX(stage_clears.best_stars, excluded.best_stars),
		   clears = stage_clears.clears + 1,
		   updated_at = excluded.updated_at`,
		stageID, stars, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record clear %q: %w", stageID, err)
	}
	return nil
}

func (s *Store) RecordBattle(ctx context.Context, rec storage.BattleRecord) error {
	if rec.ID == "" {
		return storage.ErrInvalidArgument
	}
	createdAt := rec.CreatedAt.UTC()
	if rec.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO battles (id, stage_id, victory, reason, turns, stars, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StageID, rec.Victory, rec.Reason, rec.Turns, rec.Stars, createdAt,
	)
	if err != nil {
		return fmt.Errorf("record battle %s: %w", rec.ID, err)
	}
	return nil
}

// CountBattles returns how many battles were recorded for stageID.
func (s *Store) CountBattles(ctx context.Context, stageID string) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM battles WHERE stage_id = ?`, stageID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count battles %q: %w", stageID, err)
	}
	return n, nil
}
