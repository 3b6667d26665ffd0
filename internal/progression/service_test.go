package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcane_battle/internal/combat"
	"arcane_battle/internal/config"
	"arcane_battle/internal/storage"
)

func newService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	heroes := &config.HeroesConfig{Heroes: []config.HeroDef{
		{ID: "kael", Rarity: "SSR"},
		{ID: "osric", Rarity: "n"},
		{ID: "nobody"},
	}}
	return New(store, config.DefaultProgression(), heroes, nil), store
}

func TestExpCurveAndCaps(t *testing.T) {
	s, _ := newService(t)
	assert.Equal(t, 100, s.ExpForLevel(1))
	assert.Equal(t, 400, s.ExpForLevel(2))
	assert.Equal(t, 2500, s.ExpForLevel(5))

	assert.Equal(t, 60, s.MaxLevel("kael"))
	assert.Equal(t, 30, s.MaxLevel("osric"))
	assert.Equal(t, 30, s.MaxLevel("nobody"))
	assert.Equal(t, 30, s.MaxLevel("unknown"))
}

func TestGrantExpLevelsUp(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	res, err := s.GrantExp(ctx, "kael", 50)
	require.NoError(t, err)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 50, res.Exp)

	// 50 + 550 = 600: level 1 -> 2 costs 100, 2 -> 3 costs 400, 100 left
	res, err = s.GrantExp(ctx, "kael", 550)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.Level)
	assert.Equal(t, 100, res.Exp)

	p, err := store.HeroProgress(ctx, "kael")
	require.NoError(t, err)
	assert.Equal(t, storage.HeroProgress{HeroID: "kael", Level: 3, Exp: 100}, p)
}

func TestGrantExpStopsAtCap(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHeroProgress(ctx, storage.HeroProgress{HeroID: "osric", Level: 29, Exp: 0}))

	res, err := s.GrantExp(ctx, "osric", 1_000_000)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 30, res.Level)
	assert.Equal(t, 0, res.Exp)

	res, err = s.GrantExp(ctx, "osric", 500)
	require.NoError(t, err)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 30, res.Level)
}

func TestGrantGold(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	require.NoError(t, s.GrantGold(ctx, 150))
	require.NoError(t, s.GrantGold(ctx, 0))
	gold, err := store.Gold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, gold)
}

func TestSettleThroughService(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	out := combat.Outcome{
		Victory:    true,
		StarRating: 3,
		Rewards: combat.OutcomeRewards{
			Gold: 100, Exp: 200, ExpPerHero: 100,
			Heroes: []combat.HeroReward{{HeroID: "kael", Exp: 100}, {HeroID: "osric", Exp: 100}},
		},
	}

	settled, err := combat.Settle(ctx, out, "1-1", s, store, nil)
	require.NoError(t, err)
	for _, hr := range settled.Rewards.Heroes {
		assert.True(t, hr.LeveledUp, hr.HeroID)
		assert.Equal(t, 2, hr.NewLevel)
	}
	stars, err := store.BestStars(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stars)
	gold, err := store.Gold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, gold)
}
