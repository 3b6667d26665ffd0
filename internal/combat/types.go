package combat

import "strings"

type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "ally"
}

// Combatant is one fighting unit. HP and gauge are only changed through its methods so
// that 0 <= HP <= MaxHP, Alive == (HP > 0) and 0 <= SkillGauge <= MaxSkillGauge hold.
type Combatant struct {
	ID       string
	Name     string
	Side     Side
	Class    string
	Cult     string
	Position int

	HP    int
	MaxHP int
	Atk   int
	Def   int
	Spd   int

	CritRate       float64
	CritDamage     float64
	Mood           Mood
	SynergyBonuses map[string]float64

	SkillGauge    int
	MaxSkillGauge int
	Skills        []Skill

	Alive bool

	// slotConsumed is set by a manual skill and swallows the next scheduled action.
	slotConsumed bool
}

func (c *Combatant) IsAlly() bool { return c.Side == SideAlly }

// GaugeReady reports whether the heavy skill can be used.
func (c *Combatant) GaugeReady() bool {
	return c.Alive && c.SkillGauge >= c.MaxSkillGauge
}

// TakeDamage lowers HP, clamps at 0 and returns true if the hit was lethal.
func (c *Combatant) TakeDamage(dmg int) bool {
	if dmg < 0 {
		dmg = 0
	}
	wasAlive := c.Alive
	c.HP -= dmg
	if c.HP < 0 {
		c.HP = 0
	}
	c.Alive = c.HP > 0
	return wasAlive && !c.Alive
}

func (c *Combatant) AddGauge(n int) {
	c.SkillGauge += n
	if c.SkillGauge > c.MaxSkillGauge {
		c.SkillGauge = c.MaxSkillGauge
	}
	if c.SkillGauge < 0 {
		c.SkillGauge = 0
	}
}

func (c *Combatant) ResetGauge() { c.SkillGauge = 0 }

func (c *Combatant) HPRatio() float64 {
	if !c.Alive || c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

func (c *Combatant) BasicSkill() Skill {
	for _, sk := range c.Skills {
		if sk.ID == SkillBasicID {
			return sk
		}
	}
	if len(c.Skills) > 0 {
		return c.Skills[0]
	}
	return Skill{ID: SkillBasicID, Name: "Basic Attack", Multiplier: 1, GaugeGain: 20}
}

// HeavySkill returns the full-gauge skill, if the kit has one.
func (c *Combatant) HeavySkill() (Skill, bool) {
	for _, sk := range c.Skills {
		if sk.ID == SkillHeavyID {
			return sk, true
		}
	}
	if len(c.Skills) > 1 {
		return c.Skills[1], true
	}
	return Skill{}, false
}

// BattleState is the mutable aggregate of one fight.
type BattleState struct {
	ID      string
	StageID string

	Allies  []*Combatant
	Enemies []*Combatant

	Turn                int
	Ended               bool
	AutoMode            bool
	AwaitingManualInput bool

	Synergies []Synergy
}

// Find returns the combatant with the given id on either side.
func (s *BattleState) Find(id string) *Combatant {
	for _, c := range s.Allies {
		if c.ID == id {
			return c
		}
	}
	for _, c := range s.Enemies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Opponents returns the roster opposing c.
func (s *BattleState) Opponents(c *Combatant) []*Combatant {
	if c.IsAlly() {
		return s.Enemies
	}
	return s.Allies
}

func AliveCount(roster []*Combatant) int {
	n := 0
	for _, c := range roster {
		if c.Alive {
			n++
		}
	}
	return n
}

func names(cs []*Combatant) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Name
	}
	return strings.Join(parts, " > ")
}
