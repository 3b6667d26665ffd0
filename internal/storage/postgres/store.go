// Package postgres provides a PostgreSQL store backed by a pgx pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"arcane_battle/internal/storage"
	"arcane_battle/internal/storage/migrations"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

// RunMigrations runs goose migrations on the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()
	return migrations.Up(ctx, sqlDB, "postgres")
}

// Open migrates the database and connects a pool to it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if err := RunMigrations(ctx, dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) HeroProgress(ctx context.Context, heroID string) (storage.HeroProgress, error) {
	p := storage.HeroProgress{HeroID: heroID, Level: 1}
	err := s.pool.QueryRow(ctx,
		`SELECT level, exp FROM hero_progress WHERE hero_id = $1`, heroID,
	).Scan(&p.Level, &p.Exp)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("querying hero progress %q: %w", heroID, err)
	}
	return p, nil
}

func (s *Store) SaveHeroProgress(ctx context.Context, p storage.HeroProgress) error {
	if p.HeroID == "" || p.Level < 1 || p.Exp < 0 {
		return storage.ErrInvalidArgument
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO hero_progress (hero_id, level, exp, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (hero_id) DO UPDATE SET level = EXCLUDED.level, exp = EXCLUDED.exp, updated_at = EXCLUDED.updated_at`,
		p.HeroID, p.Level, p.Exp, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving hero progress %q: %w", p.HeroID, err)
	}
	return nil
}

func (s *Store) AddGold(ctx context.Context, amount int) (int, error) {
	var gold int64
	err := s.pool.QueryRow(ctx,
		`UPDATE wallet SET gold = gold + $1 WHERE id = 1 RETURNING gold`, amount,
	).Scan(&gold)
	if err != nil {
		return 0, fmt.Errorf("adding gold: %w", err)
	}
	return int(gold), nil
}

func (s *Store) Gold(ctx context.Context) (int, error) {
	var gold int64
	if err := s.pool.QueryRow(ctx, `SELECT gold FROM wallet WHERE id = 1`).Scan(&gold); err != nil {
		return 0, fmt.Errorf("querying gold: %w", err)
	}
	return int(gold), nil
}

func (s *Store) BestStars(ctx context.Context, stageID string) (int, error) {
	var stars int
	err := s.pool.QueryRow(ctx,
		`SELECT best_stars FROM stage_clears WHERE stage_id = $1`, stageID,
	).Scan(&stars)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying best stars %q: %w", stageID, err)
	}
	return stars, nil
}

// RecordClear counts the clear and keeps the higher rating.
func (s *Store) RecordClear(ctx context.Context, stageID string, stars int) error {
	if stageID == "" || stars < 0 || stars > 3 {
		return storage.ErrInvalidArgument
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stage_clears (stage_id, best_stars, clears, updated_at) VALUES ($1, $2, 1, $3)
		 ON CONFLICT (stage_id) DO UPDATE SET
		   best_stars = GREATEST(stage_clears.best_stars, EXCLUDED.best_stars),
		   clears = stage_clears.clears + 1,
		   updated_at = EXCLUDED.updated_at`,
		stageID, stars, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording clear %q: %w", stageID, err)
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
	_, err := s.pool.Exec(ctx,
		`INSERT INTO battles (id, stage_id, victory, reason, turns, stars, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.StageID, rec.Victory, rec.Reason, rec.Turns, rec.Stars, createdAt,
	)
	if err != nil {
		return fmt.Errorf("recording battle %s: %w", rec.ID, err)
	}
	return nil
}
