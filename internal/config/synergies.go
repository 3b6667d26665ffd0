package config

// SynergiesConfig is the data behind the synergy catalog.
type SynergiesConfig struct {
	Cults       map[string]CultDef                   `yaml:"cults"`
	MoodEffects map[string]map[int]map[string]float64 `yaml:"mood_effects"`
	Specials    []SpecialDef                         `yaml:"specials"`
}

type CultDef struct {
	Name  string             `yaml:"name"`
	Bonus map[string]float64 `yaml:"bonus"` // fractional, e.g. atk: 0.10
}

type SpecialDef struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Characters []string           `yaml:"characters"`
	Effect     map[string]float64 `yaml:"effect"`
}

func DefaultSynergies() SynergiesConfig {
	return SynergiesConfig{
		Cults: map[string]CultDef{},
		MoodEffects: map[string]map[int]map[string]float64{
			"brave": {
				2: {"atk": 8},
				3: {"atk": 15, "spd": 5},
				4: {"atk": 25, "spd": 10, "lifesteal": 5},
			},
			"calm": {
				2: {"def": 8, "hp": 5},
				3: {"def": 15, "hp": 10},
				4: {"def": 25, "hp": 15, "damage_reduction": 10},
			},
			"cunning": {
				2: {"crit_rate": 5, "crit_dmg": 10},
				3: {"crit_rate": 10, "crit_dmg": 20},
				4: {"crit_rate": 15, "crit_dmg": 35, "evasion": 10},
			},
			"wild": {
				2: {"spd": 10},
				3: {"spd": 18, "atk": 8},
				4: {"spd": 25, "atk": 15, "counter_rate": 15},
			},
			"mystic": {
				2: {"skill_dmg": 12},
				3: {"skill_dmg": 20, "spd": 5},
				4: {"skill_dmg": 30, "all": 5},
			},
		},
	}
}
