// Package synergy computes the party synergies unlocked by cult, mood, role and
// hero combinations.
package synergy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"arcane_battle/internal/combat"
	"arcane_battle/internal/config"
)

var ErrNoHeroData = errors.New("synergy: no hero data loaded")

const neutralMood = "neutral"

var (
	attackerClasses = []string{"mage", "archer", "assassin"}
	tankClasses     = []string{"warrior", "tank"}
	supportClasses  = []string{"healer", "support"}
	defenderClasses = []string{"warrior", "tank", "healer"}
)

type Catalog struct {
	cfg    config.SynergiesConfig
	heroes map[string]config.HeroDef
}

var _ combat.SynergyCatalog = (*Catalog)(nil)

func New(cfg config.SynergiesConfig, heroes *config.HeroesConfig) *Catalog {
	return &Catalog{cfg: cfg, heroes: heroes.Index()}
}

// ComputeSynergies returns the cult, mood, role and special synergies of the party in
// that order. Unknown ids are ignored.
func (c *Catalog) ComputeSynergies(heroIDs []string) ([]combat.Synergy, error) {
	if len(c.heroes) == 0 {
		return nil, ErrNoHeroData
	}
	party := make([]config.HeroDef, 0, len(heroIDs))
	for _, id := range heroIDs {
		if h, ok := c.heroes[id]; ok {
			party = append(party, h)
		}
	}
	if len(party) == 0 {
		return nil, nil
	}

	var out []combat.Synergy
	if s, ok := c.cultSynergy(party); ok {
		out = append(out, s)
	}
	out = append(out, c.moodSynergies(party)...)
	out = append(out, roleSynergies(party)...)
	out = append(out, c.specialSynergies(heroIDs)...)
	return out, nil
}

func (c *Catalog) cultSynergy(party []config.HeroDef) (combat.Synergy, bool) {
	counts := map[string]int{}
	var order []string
	for _, h := range party {
		if h.Cult == "" {
			continue
		}
		if counts[h.Cult] == 0 {
			order = append(order, h.Cult)
		}
		counts[h.Cult]++
	}
	// Ties go to the cult seen first.
	dominant, best := "", 0
	for _, cult := range order {
		if counts[cult] > best {
			dominant, best = cult, counts[cult]
		}
	}
	if best < 2 {
		return combat.Synergy{}, false
	}

	def := c.cfg.Cults[dominant]
	base := func(key string, fallback float64) float64 {
		if v := def.Bonus[key]; v != 0 {
			return pct(v)
		}
		return pct(fallback)
	}
	name := def.Name
	if name == "" {
		name = dominant
	}

	var effect map[string]float64
	var title string
	switch {
	case best >= 4:
		effect = map[string]float64{
			"atk": base("atk", 0.10) + 15,
			"def": base("def", 0.05) + 10,
			"hp":  base("hp", 0) + 10,
			"spd": base("spd", 0) + 5,
		}
		title = "complete"
	case best == 3:
		effect = map[string]float64{
			"atk": base("atk", 0.10) + 8,
			"def": base("def", 0.05) + 5,
		}
		title = "bond"
	default:
		effect = map[string]float64{"atk": base("atk", 0.10)}
		title = "resonance"
	}
	return combat.Synergy{
		Type:   combat.SynergyCult,
		ID:     fmt.Sprintf("cult_%s_%d", dominant, best),
		Name:   name + " " + title,
		Effect: effect,
	}, true
}

func (c *Catalog) moodSynergies(party []config.HeroDef) []combat.Synergy {
	counts := map[string]int{}
	var order []string
	for _, h := range party {
		m := strings.ToLower(h.Mood)
		if m == "" {
			m = neutralMood
		}
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	var out []combat.Synergy
	for _, m := range order {
		n := counts[m]
		if n < 2 {
			continue
		}
		if n > 4 {
			n = 4
		}
		effect := c.cfg.MoodEffects[m][n]
		if len(effect) == 0 {
			continue
		}
		out = append(out, combat.Synergy{
			Type:   combat.SynergyMood,
			ID:     fmt.Sprintf("mood_%s_%d", m, n),
			Name:   fmt.Sprintf("%s x%d", m, n),
			Effect: copyEffect(effect),
		})
	}

	distinct := 0
	for _, m := range order {
		if m != neutralMood {
			distinct++
		}
	}
	if distinct >= 3 {
		out = append(out, combat.Synergy{
			Type:   combat.SynergyMood,
			ID:     "mood_balance",
			Name:   "Balance of moods",
			Effect: map[string]float64{"all": 5},
		})
	}
	if counts[string(combat.MoodMystic)] > 0 {
		out = append(out, combat.Synergy{
			Type:   combat.SynergyMood,
			ID:     "mystic_presence",
			Name:   "Mystic presence",
			Effect: map[string]float64{"skill_dmg": 10},
		})
	}
	return out
}

func roleSynergies(party []config.HeroDef) []combat.Synergy {
	counts := map[string]int{}
	for _, h := range party {
		cls := strings.ToLower(h.Class)
		if cls == "" {
			cls = "warrior"
		}
		counts[cls]++
	}
	sum := func(classes []string) int {
		n := 0
		for _, c := range classes {
			n += counts[c]
		}
		return n
	}

	var out []combat.Synergy
	if sum(attackerClasses) > 0 && sum(tankClasses) > 0 && sum(supportClasses) > 0 {
		out = append(out, combat.Synergy{
			Type:   combat.SynergyRole,
			ID:     "balanced_team",
			Name:   "Balanced team",
			Effect: map[string]float64{"all": 8},
		})
	}
	if sum(attackerClasses) >= 3 {
		out = append(out, combat.Synergy{
			Type:   combat.SynergyRole,
			ID:     "full_offense",
			Name:   "Full offense",
			Effect: map[string]float64{"atk": 20, "crit_rate": 10},
		})
	}
	if sum(defenderClasses) >= 3 {
		out = append(out, combat.Synergy{
			Type:   combat.SynergyRole,
			ID:     "turtle_formation",
			Name:   "Turtle formation",
			Effect: map[string]float64{"def": 20, "hp": 15},
		})
	}
	return out
}

func (c *Catalog) specialSynergies(heroIDs []string) []combat.Synergy {
	present := map[string]bool{}
	for _, id := range heroIDs {
		present[id] = true
	}
	var out []combat.Synergy
	for _, sp := range c.cfg.Specials {
		if len(sp.Characters) == 0 {
			continue
		}
		all := true
		for _, id := range sp.Characters {
			if !present[id] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		name := sp.Name
		if name == "" {
			name = sp.ID
		}
		out = append(out, combat.Synergy{
			Type:   combat.SynergySpecial,
			ID:     sp.ID,
			Name:   name,
			Effect: copyEffect(sp.Effect),
		})
	}
	return out
}

// pct turns a fractional bonus into a percentage, rounded to hundredths so 0.1 reads as 10.
func pct(frac float64) float64 {
	return math.Round(frac*100*100) / 100
}

func copyEffect(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
