package config

type SkillsConfig struct {
	Skills []Skill `yaml:"skills"`
}

// Skill is one kit entry. Entries bind to a hero id first, then to a class; entries with
// neither form the generic kit.
type Skill struct {
	ID         string  `yaml:"id"`
	Hero       string  `yaml:"hero"`
	Class      string  `yaml:"class"`
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
	GaugeGain  int     `yaml:"gauge_gain"`
	GaugeCost  int     `yaml:"gauge_cost"`
	Target     string  `yaml:"target"`
	Note       string  `yaml:"note"`
}
