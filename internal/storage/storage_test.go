package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHeroProgress(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p, err := m.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, HeroProgress{HeroID: "kael", Level: 1}, p)

	require.NoError(t, m.SaveHeroProgress(ctx, HeroProgress{HeroID: "kael", Level: 4, Exp: 12}))
	p, err = m.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)

	assert.ErrorIs(t, m.SaveHeroProgress(ctx, HeroProgress{HeroID: "kael", Level: 0}), ErrInvalidArgument)
}

func TestMemoryClearsKeepBest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.RecordClear(ctx, "1-1", 2))
	require.NoError(t, m.RecordClear(ctx, "1-1", 1))
	stars, err := m.BestStars(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stars)

	assert.ErrorIs(t, m.RecordClear(ctx, "1-1", 4), ErrInvalidArgument)
	assert.ErrorIs(t, m.RecordClear(ctx, "", 1), ErrInvalidArgument)
}

func TestMemoryGoldAndBattles(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	total, err := m.AddGold(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, total)
	total, err = m.AddGold(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 150, total)

	require.NoError(t, m.RecordBattle(ctx, BattleRecord{ID: "b1", StageID: "1-1", Victory: true}))
	assert.ErrorIs(t, m.RecordBattle(ctx, BattleRecord{}), ErrInvalidArgument)
	assert.Len(t, m.Battles(), 1)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Gold(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
