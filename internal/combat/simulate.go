package combat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

const (
	OpManual  = "manual"
	OpRetreat = "retreat"
)

// SimOp is a scripted player input applied before the given turn starts.
type SimOp struct {
	Turn   int    `json:"turn"`
	Op     string `json:"op"`
	Ally   string `json:"ally,omitempty"`
	Target string `json:"target,omitempty"`
}

// SimInput describes one scripted battle, as read from a -plan file.
type SimInput struct {
	Stage     string   `json:"stage"`
	Seed      int64    `json:"seed"`
	Party     []string `json:"party"`
	AutoSkill bool     `json:"auto_skill"`
	Ops       []SimOp  `json:"ops"`
}

type SimResult struct {
	Win           bool           `json:"win"`
	Reason        string         `json:"reason"`
	Turns         int            `json:"turns"`
	Stars         int            `json:"stars"`
	Outcome       Outcome        `json:"outcome"`
	Events        []Event        `json:"events,omitempty"`
	ManualSkills  int            `json:"manual_skills"`
	DamageBySkill map[string]int `json:"damage_by_skill,omitempty"`
	DamageByHero  map[string]int `json:"damage_by_hero,omitempty"`
	Meta          SimMeta        `json:"meta"`
}

type SimMeta struct {
	BattleID  string        `json:"battle_id"`
	Stage     SimStageMeta  `json:"stage"`
	Heroes    []SimUnitMeta `json:"heroes"`
	Enemies   []SimUnitMeta `json:"enemies"`
	Synergies []Synergy     `json:"synergies,omitempty"`
}

type SimStageMeta struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	EnemyCount       int    `json:"enemy_count"`
	RecommendedPower int    `json:"recommended_power"`
}

type SimUnitMeta struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
	Mood  Mood   `json:"mood"`
	MaxHP int    `json:"max_hp"`
	Atk   int    `json:"atk"`
	Def   int    `json:"def"`
	Spd   int    `json:"spd"`
}

// Env carries the per-run random source and logger.
type Env struct {
	Rng Rand
	Log *slog.Logger
}

// RunSingle plays one battle to its end. Scripted ops fire before their turn; with
// autoSkill every ready ally also fires its heavy skill at the weakest enemy before each
// turn. Events are kept only when record is set.
func RunSingle(ctx context.Context, env *Env, party []HeroRecord, stage Stage, opts Options, in SimInput, record bool) (SimResult, error) {
	res := SimResult{
		DamageBySkill: map[string]int{},
		DamageByHero:  map[string]int{},
	}

	bus := opts.Bus
	if bus == nil {
		bus = NewBus()
	}
	bus.On(EventDamageDealt, func(ev Event) {
		res.DamageBySkill[ev.Skill] += ev.Damage
		res.DamageByHero[ev.Attacker] += ev.Damage
		if ev.Manual {
			res.ManualSkills++
		}
	})
	if record {
		bus.OnAll(func(ev Event) { res.Events = append(res.Events, ev) })
	}

	opts.Bus = bus
	opts.AutoMode = true
	if env != nil {
		opts.Rand = env.Rng
		if env.Log != nil {
			opts.Logger = env.Log
		}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	b, err := StartBattle(party, stage, opts)
	if err != nil {
		return res, err
	}
	res.Meta = simMeta(b)

	ops := map[int][]SimOp{}
	for _, op := range in.Ops {
		ops[op.Turn] = append(ops[op.Turn], op)
	}

	for b.Phase() == PhaseInProgress {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		next := b.State().Turn + 1
		for _, op := range ops[next] {
			applyOp(b, op, log)
		}
		if b.Phase() != PhaseInProgress {
			break
		}
		if in.AutoSkill {
			fireReadySkills(b, log)
			if b.Phase() != PhaseInProgress {
				break
			}
		}
		if err := b.NextTurn(); err != nil {
			return res, err
		}
	}

	out, err := b.Outcome()
	if err != nil {
		return res, err
	}
	res.Outcome = out
	res.Win = out.Victory
	res.Reason = out.Reason
	res.Turns = out.TurnsElapsed
	res.Stars = out.StarRating
	return res, nil
}

func applyOp(b *Battle, op SimOp, log *slog.Logger) {
	switch op.Op {
	case OpRetreat:
		if err := b.Retreat(); err != nil {
			log.Debug("scripted retreat skipped", "turn", op.Turn, "error", err)
		}
	case OpManual:
		target := op.Target
		if target == "" {
			if t := SelectTarget(b.State().Enemies); t != nil {
				target = t.ID
			}
		}
		if _, err := b.TriggerManualSkill(op.Ally, target); err != nil {
			log.Debug("scripted manual skill skipped", "ally", op.Ally, "target", target, "error", err)
		}
	default:
		log.Warn("unknown sim op", "op", op.Op, "turn", op.Turn)
	}
}

func fireReadySkills(b *Battle, log *slog.Logger) {
	for _, a := range b.State().Allies {
		if b.Phase() == PhaseEnded {
			return
		}
		if !a.GaugeReady() {
			continue
		}
		t := SelectTarget(b.State().Enemies)
		if t == nil {
			return
		}
		if _, err := b.TriggerManualSkill(a.ID, t.ID); err != nil && !errors.Is(err, ErrGaugeNotFull) {
			log.Debug("auto skill skipped", "ally", a.ID, "error", err)
		}
	}
}

func simMeta(b *Battle) SimMeta {
	st := b.State()
	stage := b.Stage()
	meta := SimMeta{
		BattleID: st.ID,
		Stage: SimStageMeta{
			ID:               stage.ID,
			Name:             stage.Name,
			EnemyCount:       len(st.Enemies),
			RecommendedPower: stage.RecommendedPower,
		},
		Synergies: st.Synergies,
	}
	for _, c := range st.Allies {
		meta.Heroes = append(meta.Heroes, unitMeta(c))
	}
	for _, c := range st.Enemies {
		meta.Enemies = append(meta.Enemies, unitMeta(c))
	}
	return meta
}

func unitMeta(c *Combatant) SimUnitMeta {
	return SimUnitMeta{
		ID:    c.ID,
		Name:  c.Name,
		Class: c.Class,
		Mood:  c.Mood,
		MaxHP: c.MaxHP,
		Atk:   c.Atk,
		Def:   c.Def,
		Spd:   c.Spd,
	}
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
