package combat

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"arcane_battle/internal/config"
	"arcane_battle/internal/util"
)

// flatRules removes crits and variance so damage is exact.
func flatRules() config.BattleConfig {
	r := config.DefaultBattle()
	r.CritRate = 0
	r.VarianceMin, r.VarianceMax = 1, 1
	return r
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startTestBattle(t *testing.T, party []HeroRecord, enemies int, opts Options) *Battle {
	t.Helper()
	if opts.Rules.MaxSkillGauge == 0 {
		opts.Rules = flatRules()
	}
	if opts.Rand == nil {
		opts.Rand = &util.Fixed{Values: []float64{0.5}}
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	b, err := StartBattle(party, Stage{ID: "test", EnemyCount: enemies}, opts)
	require.NoError(t, err)
	return b
}

func setUnit(c *Combatant, hp, atk, def, spd int) {
	c.HP, c.MaxHP = hp, hp
	c.Atk, c.Def, c.Spd = atk, def, spd
	c.Mood = ""
	c.Alive = hp > 0
}

func hero(id string, hp, atk, def, spd int) HeroRecord {
	return HeroRecord{ID: id, Name: id, Stats: Stats{HP: hp, Atk: atk, Def: def, Spd: spd}}
}

// recorder collects every event emitted on a bus.
type recorder struct {
	events []Event
}

func newRecorder(bus *Bus) *recorder {
	r := &recorder{}
	bus.OnAll(func(ev Event) { r.events = append(r.events, ev) })
	return r
}

func (r *recorder) ofType(t EventType) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
