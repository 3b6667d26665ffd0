package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcane_battle/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "arcane.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestHeroProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)

	p, err := s.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, storage.HeroProgress{HeroID: "kael", Level: 1}, p)

	require.NoError(t, s.SaveHeroProgress(ctx, storage.HeroProgress{HeroID: "kael", Level: 3, Exp: 120}))
	require.NoError(t, s.SaveHeroProgress(ctx, storage.HeroProgress{HeroID: "kael", Level: 4, Exp: 5}))
	p, err = s.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, storage.HeroProgress{HeroID: "kael", Level: 4, Exp: 5}, p)

	assert.ErrorIs(t, s.SaveHeroProgress(ctx, storage.HeroProgress{}), storage.ErrInvalidArgument)
}

func TestWallet(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)

	gold, err := s.Gold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, gold)

	gold, err = s.AddGold(ctx, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, gold)
	gold, err = s.AddGold(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 150, gold)
}

func TestStageClearsKeepBest(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)

	stars, err := s.BestStars(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 0, stars)

	require.NoError(t, s.RecordClear(ctx, "1-1", 3))
	require.NoError(t, s.RecordClear(ctx, "1-1", 1))
	stars, err = s.BestStars(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stars)

	assert.ErrorIs(t, s.RecordClear(ctx, "1-1", 7), storage.ErrInvalidArgument)
}

func TestRecordBattle(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)

	rec := storage.BattleRecord{ID: "b1", StageID: "1-1", Victory: true, Reason: "cleared", Turns: 9, Stars: 3, CreatedAt: time.Now()}
	require.NoError(t, s.RecordBattle(ctx, rec))
	require.NoError(t, s.RecordBattle(ctx, storage.BattleRecord{ID: "b2", StageID: "1-1", Reason: "wiped"}))
	assert.Error(t, s.RecordBattle(ctx, rec), "duplicate id")

	n, err := s.CountBattles(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "arcane.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.AddGold(ctx, 70)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	gold, err := s.Gold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, gold)
}
