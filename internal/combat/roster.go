package combat

import (
	"fmt"
	"math"

	"arcane_battle/internal/config"
	"arcane_battle/internal/util"
)

// Rand is the random source of a battle. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Stats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	Spd int `json:"spd"`
}

// HeroRecord is one party member as handed over by the party/collection layer.
type HeroRecord struct {
	ID         string
	Name       string
	Class      string
	Cult       string
	Mood       string
	Stats      Stats
	CritRate   float64
	CritDamage float64
	Skills     []Skill
}

type Rewards struct {
	Gold int `json:"gold"`
	Exp  int `json:"exp"`
}

// Stage describes the encounter. Zero EnemyCount/RecommendedPower fall back to config
// defaults; nil Rewards fall back to the default payout.
type Stage struct {
	ID               string
	Name             string
	EnemyCount       int
	RecommendedPower int
	Rewards          *Rewards
}

func HeroFromDef(def config.HeroDef) HeroRecord {
	return HeroRecord{
		ID:         def.ID,
		Name:       def.Name,
		Class:      def.Class,
		Cult:       def.Cult,
		Mood:       def.Mood,
		Stats:      Stats{HP: def.Stats.HP, Atk: def.Stats.Atk, Def: def.Stats.Def, Spd: def.Stats.Spd},
		CritRate:   def.CritRate,
		CritDamage: def.CritDamage,
	}
}

func StageFromDef(def config.StageDef) Stage {
	st := Stage{
		ID:               def.ID,
		Name:             def.Name,
		EnemyCount:       def.EnemyCount,
		RecommendedPower: def.RecommendedPower,
	}
	if def.Rewards != nil {
		st.Rewards = &Rewards{Gold: def.Rewards.Gold, Exp: def.Rewards.Exp}
	}
	return st
}

var defaultHeroStats = Stats{HP: 100, Atk: 10, Def: 10, Spd: 10}

// InitRoster builds a fresh BattleState. The party must not be empty.
func InitRoster(party []HeroRecord, stage Stage, rules config.BattleConfig, book *SkillBook, rng Rand) *BattleState {
	st := &BattleState{StageID: stage.ID}
	for i, h := range party {
		st.Allies = append(st.Allies, newAlly(h, i, rules, book))
	}

	count := stage.EnemyCount
	if count <= 0 {
		count = rules.Enemy.DefaultCount
	}
	power := stage.RecommendedPower
	if power <= 0 {
		power = rules.Enemy.DefaultPower
	}
	for i := 0; i < count; i++ {
		st.Enemies = append(st.Enemies, newEnemy(i, power, rules, rng))
	}
	return st
}

func newAlly(h HeroRecord, pos int, rules config.BattleConfig, book *SkillBook) *Combatant {
	stats := h.Stats
	if stats == (Stats{}) {
		stats = defaultHeroStats
	}
	name := h.Name
	if name == "" {
		name = h.ID
	}
	if name == "" {
		name = "???"
	}
	class := h.Class
	if class == "" {
		class = rules.DefaultClass
	}
	mood, _ := ParseMood(h.Mood)
	critRate := h.CritRate
	if critRate <= 0 {
		critRate = rules.CritRate
	}
	critDmg := h.CritDamage
	if critDmg <= 0 {
		critDmg = rules.CritDamage
	}
	skills := normalizeKit(h.Skills, rules)
	if len(skills) == 0 {
		skills = book.Kit(h.ID, class)
	}
	return &Combatant{
		ID:             h.ID,
		Name:           name,
		Side:           SideAlly,
		Class:          class,
		Cult:           h.Cult,
		Position:       pos,
		HP:             stats.HP,
		MaxHP:          stats.HP,
		Atk:            stats.Atk,
		Def:            stats.Def,
		Spd:            stats.Spd,
		CritRate:       critRate,
		CritDamage:     critDmg,
		Mood:           mood,
		SynergyBonuses: map[string]float64{},
		MaxSkillGauge:  rules.MaxSkillGauge,
		Skills:         skills,
		Alive:          stats.HP > 0,
	}
}

func newEnemy(i, power int, rules config.BattleConfig, rng Rand) *Combatant {
	ec := rules.Enemy
	budget := ec.BaseBudget + float64(power)/ec.PowerDivisor
	spread := func() float64 { return util.Uniform(rng, ec.SpreadMin, ec.SpreadMax) }

	name := fmt.Sprintf("Enemy %d", i+1)
	if len(ec.Names) > 0 {
		name = ec.Names[util.Index(rng, len(ec.Names))]
	}
	hp := int(math.Floor(budget * spread()))
	atk := int(math.Floor(budget / ec.AtkDivisor * spread()))
	def := int(math.Floor(budget / ec.DefDivisor * spread()))
	spd := int(math.Floor(ec.SpdMin + rng.Float64()*ec.SpdRange))
	mood := Moods[util.Index(rng, len(Moods))]
	if hp < 1 {
		hp = 1
	}

	return &Combatant{
		ID:             fmt.Sprintf("enemy_%d", i),
		Name:           name,
		Side:           SideEnemy,
		Position:       i,
		HP:             hp,
		MaxHP:          hp,
		Atk:            atk,
		Def:            def,
		Spd:            spd,
		CritRate:       rules.CritRate,
		CritDamage:     rules.CritDamage,
		Mood:           mood,
		SynergyBonuses: map[string]float64{},
		MaxSkillGauge:  rules.MaxSkillGauge,
		Skills:         DefaultKit(rules),
		Alive:          true,
	}
}
