package config

type StagesConfig struct {
	Stages []StageDef `yaml:"stages"`
}

type StageDef struct {
	ID               string     `yaml:"id"`
	Name             string     `yaml:"name"`
	EnemyCount       int        `yaml:"enemy_count"`
	RecommendedPower int        `yaml:"recommended_power"`
	Rewards          *RewardDef `yaml:"rewards"`
}

type RewardDef struct {
	Gold int `yaml:"gold"`
	Exp  int `yaml:"exp"`
}

// Find returns the stage with the given id.
func (sc *StagesConfig) Find(id string) (StageDef, bool) {
	if sc == nil {
		return StageDef{}, false
	}
	for _, s := range sc.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDef{}, false
}
