package combat

import (
	"math"

	"arcane_battle/internal/config"
	"arcane_battle/internal/util"
)

// Hit is the resolved result of one action.
type Hit struct {
	Attacker *Combatant
	Target   *Combatant
	Skill    Skill
	Damage   int
	Crit     bool
	Matchup  MatchupResult
	Killed   bool
	Manual   bool
}

// Resolver applies single actions to the battle state. It draws from rng in a fixed
// order: crit roll, then variance (auto actions only).
type Resolver struct {
	state *BattleState
	rules config.BattleConfig
	rng   Rand
	bus   *Bus
}

func NewResolver(state *BattleState, rules config.BattleConfig, rng Rand, bus *Bus) *Resolver {
	return &Resolver{state: state, rules: rules, rng: rng, bus: bus}
}

// SelectTarget picks the living combatant with the lowest current HP; the earliest in
// roster order wins ties. Returns nil when nobody is alive.
func SelectTarget(roster []*Combatant) *Combatant {
	var best *Combatant
	for _, c := range roster {
		if !c.Alive {
			continue
		}
		if best == nil || c.HP < best.HP {
			best = c
		}
	}
	return best
}

// ComputeDamage is the battle damage formula.
func ComputeDamage(atk int, skillMult, critMult, moodMult float64, def int, defConst, variance float64) int {
	mitigation := 1.0
	if d := float64(def) + defConst; d > 0 {
		mitigation = 1 - float64(def)/d
	}
	raw := float64(atk) * skillMult * critMult * moodMult * mitigation * variance
	dmg := int(math.Floor(raw))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// AutoAction resolves an AI-controlled action for c. ok is false when c is dead or has no
// living opponent, in which case nothing happens.
func (r *Resolver) AutoAction(c *Combatant) (hit Hit, ok bool) {
	if !c.Alive {
		return Hit{}, false
	}
	target := SelectTarget(r.state.Opponents(c))
	if target == nil {
		return Hit{}, false
	}

	skill := c.BasicSkill()
	heavy := false
	if !c.IsAlly() && c.GaugeReady() {
		if sk, found := c.HeavySkill(); found {
			skill, heavy = sk, true
		}
	}

	hit = r.fire(c, target, skill, true)
	if heavy {
		c.ResetGauge()
	} else {
		c.AddGauge(skill.GaugeGain)
	}
	return hit, true
}

// ManualSkill fires the heavy skill of a ready ally at an explicit target without
// variance. Area skills hit every living enemy. Callers validate readiness and target.
func (r *Resolver) ManualSkill(attacker, target *Combatant) Hit {
	skill, found := attacker.HeavySkill()
	if !found {
		skill = Skill{ID: SkillHeavyID, Name: "Heavy Strike", Multiplier: r.rules.HeavyMultiplier, GaugeCost: attacker.MaxSkillGauge}
	}
	hit := r.fire(attacker, target, skill, false)
	hit.Manual = true
	attacker.ResetGauge()
	return hit
}

// fire resolves skill against target, or against every living opponent in roster order
// for area skills. The returned hit is the one that landed on target.
func (r *Resolver) fire(attacker, target *Combatant, skill Skill, withVariance bool) Hit {
	if !skill.IsArea() {
		return r.strike(attacker, target, skill, withVariance)
	}
	scaled := skill
	scaled.Multiplier *= areaFactor
	var primary Hit
	for _, t := range r.state.Opponents(attacker) {
		if !t.Alive {
			continue
		}
		h := r.strike(attacker, t, scaled, withVariance)
		if t == target {
			primary = h
		}
	}
	return primary
}

func (r *Resolver) strike(attacker, target *Combatant, skill Skill, withVariance bool) Hit {
	mu := Matchup(attacker.Mood, target.Mood)
	crit := r.rng.Float64() < attacker.CritRate
	critMult := 1.0
	if crit {
		critMult = attacker.CritDamage
	}
	variance := 1.0
	if withVariance {
		variance = util.Uniform(r.rng, r.rules.VarianceMin, r.rules.VarianceMax)
	}
	dmg := ComputeDamage(attacker.Atk, skill.Multiplier, critMult, mu.Multiplier, target.Def, r.rules.DefenseConstant, variance)
	killed := target.TakeDamage(dmg)

	hit := Hit{
		Attacker: attacker,
		Target:   target,
		Skill:    skill,
		Damage:   dmg,
		Crit:     crit,
		Matchup:  mu,
		Killed:   killed,
		Manual:   !withVariance,
	}
	r.bus.Emit(Event{
		Turn:      r.state.Turn,
		Type:      EventDamageDealt,
		Attacker:  attacker.ID,
		Target:    target.ID,
		Skill:     skill.ID,
		Damage:    dmg,
		Crit:      crit,
		Manual:    !withVariance,
		Advantage: mu.Advantage,
		TargetHP:  target.HP,
	})
	if crit {
		r.bus.Emit(Event{Turn: r.state.Turn, Type: EventCriticalHit, Attacker: attacker.ID, Target: target.ID, Damage: dmg})
	}
	if killed {
		r.bus.Emit(Event{Turn: r.state.Turn, Type: EventUnitDied, Target: target.ID, Attacker: attacker.ID})
	}
	return hit
}
