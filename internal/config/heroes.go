package config

type HeroesConfig struct {
	Heroes []HeroDef `yaml:"heroes"`
}

type HeroDef struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Class      string   `yaml:"class"`
	Cult       string   `yaml:"cult"`
	Mood       string   `yaml:"mood"`
	Rarity     string   `yaml:"rarity"`
	Stats      StatsDef `yaml:"stats"`
	CritRate   float64  `yaml:"crit_rate"`
	CritDamage float64  `yaml:"crit_damage"`
	Note       string   `yaml:"note"`
}

type StatsDef struct {
	HP  int `yaml:"hp"`
	Atk int `yaml:"atk"`
	Def int `yaml:"def"`
	Spd int `yaml:"spd"`
}

// Index returns the hero definitions keyed by id.
func (hc *HeroesConfig) Index() map[string]HeroDef {
	out := map[string]HeroDef{}
	if hc == nil {
		return out
	}
	for _, h := range hc.Heroes {
		out[h.ID] = h
	}
	return out
}
