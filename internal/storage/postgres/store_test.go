package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcane_battle/internal/storage"
)

// openTestStore connects to ARCANE_TEST_POSTGRES_DSN and empties the tables.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("ARCANE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ARCANE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.pool.Exec(ctx, `TRUNCATE hero_progress, stage_clears, battles`)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, `UPDATE wallet SET gold = 0 WHERE id = 1`)
	require.NoError(t, err)
	return s
}

func TestHeroProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)

	require.NoError(t, s.SaveHeroProgress(ctx, storage.HeroProgress{HeroID: "kael", Level: 5, Exp: 40}))
	p, err = s.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, storage.HeroProgress{HeroID: "kael", Level: 5, Exp: 40}, p)
}

func TestWalletAndClears(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	gold, err := s.AddGold(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, gold)

	require.NoError(t, s.RecordClear(ctx, "1-1", 2))
	require.NoError(t, s.RecordClear(ctx, "1-1", 1))
	stars, err := s.BestStars(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stars)
}

func TestRecordBattle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	id := fmt.Sprintf("b-%d", time.Now().UnixNano())
	require.NoError(t, s.RecordBattle(ctx, storage.BattleRecord{ID: id, StageID: "1-1", Reason: "timeout"}))
	assert.Error(t, s.RecordBattle(ctx, storage.BattleRecord{ID: id, StageID: "1-1", Reason: "timeout"}))
}
