package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcane_battle/internal/config"
	"arcane_battle/internal/util"
)

func TestInitRosterAlliesTakeDefaults(t *testing.T) {
	rules := config.DefaultBattle()
	st := InitRoster([]HeroRecord{{ID: "h1", Mood: "BRAVE"}}, Stage{}, rules, NewSkillBook(nil, rules), &util.Fixed{Values: []float64{0.5}})

	require.Len(t, st.Allies, 1)
	a := st.Allies[0]
	assert.Equal(t, 100, a.HP)
	assert.Equal(t, 100, a.MaxHP)
	assert.Equal(t, 10, a.Atk)
	assert.Equal(t, 10, a.Def)
	assert.Equal(t, 10, a.Spd)
	assert.Equal(t, 0.1, a.CritRate)
	assert.Equal(t, 1.5, a.CritDamage)
	assert.Equal(t, 0, a.SkillGauge)
	assert.Equal(t, 100, a.MaxSkillGauge)
	assert.Equal(t, MoodBrave, a.Mood)
	assert.Equal(t, "warrior", a.Class)
	assert.Equal(t, "h1", a.Name)
	assert.True(t, a.Alive)
	require.Len(t, a.Skills, 2)
	assert.Equal(t, SkillBasicID, a.Skills[0].ID)
	assert.Equal(t, SkillHeavyID, a.Skills[1].ID)

	assert.Len(t, st.Enemies, 3)
	assert.Equal(t, 0, st.Turn)
	assert.False(t, st.Ended)
}

func TestInitRosterEnemyGeneration(t *testing.T) {
	rules := config.DefaultBattle()
	st := InitRoster([]HeroRecord{{ID: "h1"}}, Stage{EnemyCount: 2, RecommendedPower: 1000}, rules, nil, &util.Fixed{Values: []float64{0.5}})

	require.Len(t, st.Enemies, 2)
	// budget 700, spread 1.0 at a 0.5 draw
	e := st.Enemies[1]
	assert.Equal(t, "enemy_1", e.ID)
	assert.Equal(t, "Wolf", e.Name)
	assert.Equal(t, SideEnemy, e.Side)
	assert.Equal(t, 700, e.HP)
	assert.Equal(t, 700, e.MaxHP)
	assert.Equal(t, 87, e.Atk)
	assert.Equal(t, 70, e.Def)
	assert.Equal(t, 45, e.Spd)
	assert.Equal(t, MoodStoic, e.Mood)
	assert.Equal(t, 1, e.Position)
	assert.Len(t, e.Skills, 2)
}

func TestInitRosterEnemyStatsStayInRange(t *testing.T) {
	rules := config.DefaultBattle()
	rng := util.New(7)
	for i := 0; i < 50; i++ {
		st := InitRoster([]HeroRecord{{ID: "h"}}, Stage{EnemyCount: 4, RecommendedPower: 2000}, rules, nil, rng)
		for _, e := range st.Enemies {
			budget := 500.0 + 2000.0/5
			assert.GreaterOrEqual(t, float64(e.HP), budget*0.8-1)
			assert.LessOrEqual(t, float64(e.HP), budget*1.2)
			assert.GreaterOrEqual(t, e.Spd, 30)
			assert.Less(t, e.Spd, 60)
			assert.True(t, e.Mood.Valid())
			assert.Contains(t, rules.Enemy.Names, e.Name)
		}
	}
}

func TestSkillBookResolution(t *testing.T) {
	rules := config.DefaultBattle()
	book := NewSkillBook(&config.SkillsConfig{Skills: []config.Skill{
		{ID: "basic", Name: "Strike", Multiplier: 1},
		{ID: "skill1", Name: "Smash", Multiplier: 2.5},
		{ID: "basic", Class: "mage", Name: "Bolt", Multiplier: 1, GaugeGain: 25},
		{ID: "skill1", Class: "mage", Name: "Starfall", Multiplier: 2.8},
		{ID: "basic", Hero: "kael", Name: "Ember", Multiplier: 1.1},
	}}, rules)

	kit := book.Kit("kael", "mage")
	require.Len(t, kit, 1)
	assert.Equal(t, "Ember", kit[0].Name)
	assert.Equal(t, 20, kit[0].GaugeGain)

	kit = book.Kit("lyra", "mage")
	require.Len(t, kit, 2)
	assert.Equal(t, 25, kit[0].GaugeGain)
	assert.True(t, kit[1].IsHeavy())
	assert.Equal(t, 100, kit[1].GaugeCost)

	kit = book.Kit("brom", "healer")
	require.Len(t, kit, 2)
	assert.Equal(t, "Strike", kit[0].Name)

	assert.Equal(t, DefaultKit(rules), NewSkillBook(nil, rules).Kit("x", "y"))
}

func TestInitRosterFillsRecordSkillDefaults(t *testing.T) {
	rules := config.DefaultBattle()
	rec := HeroRecord{ID: "h1", Skills: []Skill{
		{ID: SkillBasicID, Multiplier: 1},
		{ID: SkillHeavyID, Multiplier: 2.5},
	}}
	st := InitRoster([]HeroRecord{rec}, Stage{}, rules, NewSkillBook(nil, rules), &util.Fixed{Values: []float64{0.5}})

	kit := st.Allies[0].Skills
	require.Len(t, kit, 2)
	assert.Equal(t, rules.BasicGaugeGain, kit[0].GaugeGain)
	assert.Equal(t, SkillBasicID, kit[0].Name)
	assert.True(t, kit[1].IsHeavy())
	assert.Equal(t, rules.MaxSkillGauge, kit[1].GaugeCost)
	assert.Equal(t, 0, rec.Skills[0].GaugeGain)
}

func TestRecordSkillsFillTheGauge(t *testing.T) {
	h := hero("h1", 100000, 10, 1000, 100)
	h.Skills = []Skill{{ID: SkillBasicID, Multiplier: 1}, {ID: SkillHeavyID, Multiplier: 2.5}}
	b := startTestBattle(t, []HeroRecord{h}, 1, Options{AutoMode: true})
	setUnit(b.State().Enemies[0], 100000, 10, 1000, 1)

	for i := 0; i < 5; i++ {
		require.NoError(t, b.NextTurn())
	}
	ally := b.State().Allies[0]
	assert.Equal(t, ally.MaxSkillGauge, ally.SkillGauge)
	assert.True(t, ally.GaugeReady())
}
