package config

// BattleConfig holds the tuning knobs of the battle core. The defaults reproduce the
// reference damage formula and enemy generator; assets/battle.yaml may override them.
type BattleConfig struct {
	CritRate        float64 `yaml:"crit_rate"`
	CritDamage      float64 `yaml:"crit_damage"`
	MaxSkillGauge   int     `yaml:"max_skill_gauge"`
	BasicGaugeGain  int     `yaml:"basic_gauge_gain"`
	HeavyMultiplier float64 `yaml:"heavy_multiplier"`
	DefenseConstant float64 `yaml:"defense_constant"`
	VarianceMin     float64 `yaml:"variance_min"`
	VarianceMax     float64 `yaml:"variance_max"`
	MaxTurns        int     `yaml:"max_turns"` // 0 disables the timeout
	DefaultClass    string  `yaml:"default_class"`

	Enemy   EnemyConfig   `yaml:"enemy"`
	Outcome OutcomeConfig `yaml:"outcome"`
}

// EnemyConfig drives procedural enemy generation.
type EnemyConfig struct {
	DefaultCount int      `yaml:"default_count"`
	DefaultPower int      `yaml:"default_power"`
	BaseBudget   float64  `yaml:"base_budget"`
	PowerDivisor float64  `yaml:"power_divisor"`
	SpreadMin    float64  `yaml:"spread_min"`
	SpreadMax    float64  `yaml:"spread_max"`
	AtkDivisor   float64  `yaml:"atk_divisor"`
	DefDivisor   float64  `yaml:"def_divisor"`
	SpdMin       float64  `yaml:"spd_min"`
	SpdRange     float64  `yaml:"spd_range"`
	Names        []string `yaml:"names"`
}

type OutcomeConfig struct {
	QuickClearTurns int `yaml:"quick_clear_turns"`
	DefaultGold     int `yaml:"default_gold"`
	DefaultExp      int `yaml:"default_exp"`
}

func DefaultBattle() BattleConfig {
	return BattleConfig{
		CritRate:        0.1,
		CritDamage:      1.5,
		MaxSkillGauge:   100,
		BasicGaugeGain:  20,
		HeavyMultiplier: 2.5,
		DefenseConstant: 200,
		VarianceMin:     0.9,
		VarianceMax:     1.1,
		MaxTurns:        200,
		DefaultClass:    "warrior",
		Enemy: EnemyConfig{
			DefaultCount: 3,
			DefaultPower: 1000,
			BaseBudget:   500,
			PowerDivisor: 5,
			SpreadMin:    0.8,
			SpreadMax:    1.2,
			AtkDivisor:   8,
			DefDivisor:   10,
			SpdMin:       30,
			SpdRange:     30,
			Names: []string{
				"Slime", "Goblin", "Orc", "Skeleton", "Zombie",
				"Wolf", "Bat", "Spider", "Serpent", "Demon",
			},
		},
		Outcome: OutcomeConfig{
			QuickClearTurns: 20,
			DefaultGold:     100,
			DefaultExp:      50,
		},
	}
}
