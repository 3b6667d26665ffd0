package combat

import (
	"log/slog"
	"math"
	"sort"
)

type SynergyType string

const (
	SynergyCult    SynergyType = "cult"
	SynergyMood    SynergyType = "mood"
	SynergyRole    SynergyType = "role"
	SynergySpecial SynergyType = "special"
)

// Synergy is a party-wide bonus. Effect values are percentages.
type Synergy struct {
	Type   SynergyType        `json:"type"`
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Effect map[string]float64 `json:"effect"`
}

// SynergyCatalog computes the synergies a set of heroes unlocks.
type SynergyCatalog interface {
	ComputeSynergies(heroIDs []string) ([]Synergy, error)
}

const FallbackSynergyID = "class_fallback"

var effectAliases = map[string]string{
	"critRate":        "crit_rate",
	"critDmg":         "crit_dmg",
	"critDamage":      "crit_dmg",
	"skillDmg":        "skill_dmg",
	"damageReduction": "damage_reduction",
	"counterRate":     "counter_rate",
}

// ResolveSynergies asks the catalog for the party's synergies. A failing or empty catalog
// yields the class-count fallback instead.
func ResolveSynergies(allies []*Combatant, catalog SynergyCatalog, log *slog.Logger) []Synergy {
	if log == nil {
		log = slog.Default()
	}
	if catalog != nil {
		ids := make([]string, 0, len(allies))
		for _, a := range allies {
			if a.ID != "" {
				ids = append(ids, a.ID)
			}
		}
		syns, err := catalog.ComputeSynergies(ids)
		if err != nil {
			log.Warn("synergy catalog failed, using class fallback", "error", err)
		} else if len(syns) > 0 {
			return syns
		}
	}
	fb := FallbackSynergy(allies)
	if len(fb.Effect) == 0 {
		return nil
	}
	return []Synergy{fb}
}

// FallbackSynergy applies the class-count rule. Every class meeting a threshold adds its
// tier independently.
func FallbackSynergy(allies []*Combatant) Synergy {
	counts := map[string]int{}
	for _, a := range allies {
		counts[a.Class]++
	}
	classes := make([]string, 0, len(counts))
	for cls := range counts {
		classes = append(classes, cls)
	}
	sort.Strings(classes)

	effect := map[string]float64{}
	for _, cls := range classes {
		switch n := counts[cls]; {
		case n >= 4:
			effect["atk"] += 20
			effect["def"] += 15
			effect["spd"] += 10
		case n >= 3:
			effect["atk"] += 15
			effect["def"] += 10
		case n >= 2:
			effect["atk"] += 10
		}
	}
	return Synergy{Type: SynergyRole, ID: FallbackSynergyID, Name: "Class resonance", Effect: effect}
}

// ApplySynergies mutates every ally's stats once per synergy, in order.
func ApplySynergies(allies []*Combatant, synergies []Synergy) {
	for _, a := range allies {
		if a.SynergyBonuses == nil {
			a.SynergyBonuses = map[string]float64{}
		}
		for _, syn := range synergies {
			applyEffect(a, syn.Effect)
		}
	}
}

func applyEffect(c *Combatant, effect map[string]float64) {
	norm := make(map[string]float64, len(effect))
	for k, v := range effect {
		if alias, ok := effectAliases[k]; ok {
			k = alias
		}
		norm[k] += v
	}

	if v := norm["atk"]; v != 0 {
		c.Atk = scaleStat(c.Atk, v)
	}
	if v := norm["def"]; v != 0 {
		c.Def = scaleStat(c.Def, v)
	}
	if v := norm["hp"]; v != 0 {
		raiseHP(c, v)
	}
	if v := norm["spd"]; v != 0 {
		c.Spd = scaleStat(c.Spd, v)
	}
	if v := norm["all"]; v != 0 {
		c.Atk = scaleStat(c.Atk, v)
		c.Def = scaleStat(c.Def, v)
		raiseHP(c, v)
		c.Spd = scaleStat(c.Spd, v)
	}

	for k, v := range norm {
		switch k {
		case "atk", "def", "hp", "spd", "all":
			continue
		}
		c.SynergyBonuses[k] += v / 100
		switch k {
		case "crit_rate":
			c.CritRate += v / 100
		case "crit_dmg":
			c.CritDamage += v / 100
		}
	}
}

// raiseHP scales MaxHP; applied before the first turn, so HP follows it.
func raiseHP(c *Combatant, pct float64) {
	c.MaxHP = scaleStat(c.MaxHP, pct)
	if c.Alive {
		c.HP = c.MaxHP
	}
}

func scaleStat(stat int, pct float64) int {
	v := int(math.Floor(float64(stat) * (100 + pct) / 100))
	if v < 0 {
		return 0
	}
	return v
}
