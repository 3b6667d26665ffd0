package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadAllMissingDirUsesDefaults(t *testing.T) {
	b, err := LoadAll(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBattle(), b.Battle)
	assert.Equal(t, DefaultProgression(), b.Progression)
	assert.Empty(t, b.Heroes.Heroes)
	assert.Contains(t, b.Synergies.MoodEffects, "brave")
}

func TestLoadAllOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "battle.yaml", "max_turns: 50\nenemy:\n  default_count: 5\n")
	writeFile(t, dir, "heroes.yaml", `
heroes:
  - id: kael
    name: Kael
    class: warrior
    mood: brave
    rarity: SSR
    stats: { hp: 1500, atk: 150, def: 75, spd: 110 }
`)
	writeFile(t, dir, "stages.yaml", `
stages:
  - id: "1-1"
    enemy_count: 2
    rewards: { gold: 100, exp: 50 }
  - id: "1-2"
`)

	b, err := LoadAll(dir)
	require.NoError(t, err)
	assert.Equal(t, 50, b.Battle.MaxTurns)
	assert.Equal(t, 5, b.Battle.Enemy.DefaultCount)
	assert.Equal(t, 0.1, b.Battle.CritRate)
	assert.Equal(t, 1000, b.Battle.Enemy.DefaultPower)

	h, ok := b.Heroes.Index()["kael"]
	require.True(t, ok)
	assert.Equal(t, 110, h.Stats.Spd)

	st, ok := b.Stages.Find("1-1")
	require.True(t, ok)
	require.NotNil(t, st.Rewards)
	assert.Equal(t, 50, st.Rewards.Exp)
	st, ok = b.Stages.Find("1-2")
	require.True(t, ok)
	assert.Nil(t, st.Rewards)
	_, ok = b.Stages.Find("9-9")
	assert.False(t, ok)
}

func TestLoadAllReportsBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skills.yaml", "skills: [oops")
	_, err := LoadAll(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestParseRuntime(t *testing.T) {
	t.Setenv("ARCANE_SEED", "7")
	t.Setenv("ARCANE_STORE", "/tmp/arcane.db")
	rt, err := ParseRuntime()
	require.NoError(t, err)
	assert.Equal(t, int64(7), rt.Seed)
	assert.Equal(t, "/tmp/arcane.db", rt.Store)
	assert.Equal(t, 8, rt.Workers)
	assert.Equal(t, "assets", rt.ConfigDir)

	t.Setenv("ARCANE_WORKERS", "many")
	_, err = ParseRuntime()
	assert.Error(t, err)
}

func TestShippedAssetsLoad(t *testing.T) {
	b, err := LoadAll(filepath.Join("..", "..", "assets"))
	require.NoError(t, err)
	assert.NotEmpty(t, b.Heroes.Heroes)
	assert.NotEmpty(t, b.Skills.Skills)
	assert.NotEmpty(t, b.Stages.Stages)
	assert.Contains(t, b.Synergies.Cults, "ember_order")
	assert.Equal(t, 60, b.Progression.MaxLevel["SSR"])
}
