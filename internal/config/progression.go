package config

type ProgressionConfig struct {
	CurveFactor int            `yaml:"curve_factor"`
	MaxLevel    map[string]int `yaml:"max_level"`
	FallbackCap int            `yaml:"fallback_cap"`
}

func DefaultProgression() ProgressionConfig {
	return ProgressionConfig{
		CurveFactor: 100,
		MaxLevel: map[string]int{
			"N":   30,
			"R":   40,
			"SR":  50,
			"SSR": 60,
		},
		FallbackCap: 30,
	}
}
