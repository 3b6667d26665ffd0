// Package storage defines the persistence contract behind progression and stage clears.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrInvalidArgument = errors.New("storage: invalid argument")

// HeroProgress is the level state of one hero. Heroes never seen start at level 1.
type HeroProgress struct {
	HeroID string
	Level  int
	Exp    int
}

// BattleRecord is the persisted summary of one finished battle.
type BattleRecord struct {
	ID        string
	StageID   string
	Victory   bool
	Reason    string
	Turns     int
	Stars     int
	CreatedAt time.Time
}

type Store interface {
	HeroProgress(ctx context.Context, heroID string) (HeroProgress, error)
	SaveHeroProgress(ctx context.Context, p HeroProgress) error
	AddGold(ctx context.Context, amount int) (int, error)
	Gold(ctx context.Context) (int, error)
	BestStars(ctx context.Context, stageID string) (int, error)
	RecordClear(ctx context.Context, stageID string, stars int) error
	RecordBattle(ctx context.Context, rec BattleRecord) error
	Close() error
}

// Memory is an in-process Store, used by the CLI when no store is configured and by tests.
type Memory struct {
	mu      sync.Mutex
	heroes  map[string]HeroProgress
	gold    int
	stars   map[string]int
	battles []BattleRecord
}

func NewMemory() *Memory {
	return &Memory{
		heroes: map[string]HeroProgress{},
		stars:  map[string]int{},
	}
}

func (m *Memory) HeroProgress(ctx context.Context, heroID string) (HeroProgress, error) {
	if err := ctx.Err(); err != nil {
		return HeroProgress{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.heroes[heroID]; ok {
		return p, nil
	}
	return HeroProgress{HeroID: heroID, Level: 1}, nil
}

func (m *Memory) SaveHeroProgress(ctx context.Context, p HeroProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.HeroID == "" || p.Level < 1 || p.Exp < 0 {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	m.heroes[p.HeroID] = p
	m.mu.Unlock()
	return nil
}

func (m *Memory) AddGold(ctx context.Context, amount int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gold += amount
	return m.gold, nil
}

func (m *Memory) Gold(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gold, nil
}

func (m *Memory) BestStars(ctx context.Context, stageID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stars[stageID], nil
}

// RecordClear keeps the higher of the stored and the given rating.
func (m *Memory) RecordClear(ctx context.Context, stageID string, stars int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stageID == "" || stars < 0 || stars > 3 {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stars > m.stars[stageID] {
		m.stars[stageID] = stars
	}
	return nil
}

func (m *Memory) RecordBattle(ctx context.Context, rec BattleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	m.battles = append(m.battles, rec)
	m.mu.Unlock()
	return nil
}

// Battles returns a copy of the recorded battles in insertion order.
func (m *Memory) Battles() []BattleRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BattleRecord(nil), m.battles...)
}

func (m *Memory) Close() error { return nil }
