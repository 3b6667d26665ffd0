package combat

import (
	"arcane_battle/internal/config"
)

const (
	SkillBasicID = "basic"
	SkillHeavyID = "skill1"

	// TargetAll marks a skill that hits every living opponent.
	TargetAll = "all"
	// areaFactor scales the multiplier of each hit of an area skill.
	areaFactor = 0.7
)

type Skill struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	GaugeGain  int     `json:"gauge_gain,omitempty"`
	GaugeCost  int     `json:"gauge_cost,omitempty"`
	Target     string  `json:"target,omitempty"`
}

// IsHeavy reports whether the skill spends the gauge instead of filling it.
func (s Skill) IsHeavy() bool { return s.GaugeCost > 0 }

func (s Skill) IsArea() bool { return s.Target == TargetAll }

// normalizeSkill fills in the name, multiplier and gauge fields a kit entry left empty.
// Heavy skills always drain the whole gauge; everything else fills it.
func normalizeSkill(sk Skill, rules config.BattleConfig) Skill {
	if sk.Name == "" {
		sk.Name = sk.ID
	}
	if sk.Multiplier <= 0 {
		sk.Multiplier = 1
	}
	if sk.IsHeavy() || sk.ID == SkillHeavyID {
		sk.GaugeCost = rules.MaxSkillGauge
		sk.GaugeGain = 0
	} else if sk.GaugeGain <= 0 {
		sk.GaugeGain = rules.BasicGaugeGain
	}
	return sk
}

func normalizeKit(kit []Skill, rules config.BattleConfig) []Skill {
	out := make([]Skill, len(kit))
	for i, sk := range kit {
		out[i] = normalizeSkill(sk, rules)
	}
	return out
}

// SkillBook resolves a combatant's kit: hero id first, then class, then the generic
// entries, then the built-in two-skill kit.
type SkillBook struct {
	byHero  map[string][]Skill
	byClass map[string][]Skill
	generic []Skill
	rules   config.BattleConfig
}

func NewSkillBook(cfg *config.SkillsConfig, rules config.BattleConfig) *SkillBook {
	sb := &SkillBook{
		byHero:  map[string][]Skill{},
		byClass: map[string][]Skill{},
		rules:   rules,
	}
	if cfg == nil {
		return sb
	}
	for _, s := range cfg.Skills {
		sk := normalizeSkill(Skill{
			ID:         s.ID,
			Name:       s.Name,
			Multiplier: s.Multiplier,
			GaugeGain:  s.GaugeGain,
			GaugeCost:  s.GaugeCost,
			Target:     s.Target,
		}, rules)
		switch {
		case s.Hero != "":
			sb.byHero[s.Hero] = append(sb.byHero[s.Hero], sk)
		case s.Class != "":
			sb.byClass[s.Class] = append(sb.byClass[s.Class], sk)
		default:
			sb.generic = append(sb.generic, sk)
		}
	}
	return sb
}

func (sb *SkillBook) Kit(heroID, class string) []Skill {
	if sb == nil {
		return DefaultKit(config.DefaultBattle())
	}
	if v := sb.byHero[heroID]; heroID != "" && len(v) > 0 {
		return append([]Skill(nil), v...)
	}
	if v := sb.byClass[class]; class != "" && len(v) > 0 {
		return append([]Skill(nil), v...)
	}
	if len(sb.generic) > 0 {
		return append([]Skill(nil), sb.generic...)
	}
	return DefaultKit(sb.rules)
}

// DefaultKit is the kit substituted for records without skills.
func DefaultKit(rules config.BattleConfig) []Skill {
	return []Skill{
		{ID: SkillBasicID, Name: "Basic Attack", Multiplier: 1, GaugeGain: rules.BasicGaugeGain},
		{ID: SkillHeavyID, Name: "Heavy Strike", Multiplier: rules.HeavyMultiplier, GaugeCost: rules.MaxSkillGauge},
	}
}
