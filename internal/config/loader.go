package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bundle is every config file of a config dir.
type Bundle struct {
	Battle      BattleConfig
	Heroes      HeroesConfig
	Skills      SkillsConfig
	Stages      StagesConfig
	Synergies   SynergiesConfig
	Progression ProgressionConfig
}

// Defaults returns a bundle with built-in values and no heroes, skills or stages.
func Defaults() *Bundle {
	return &Bundle{
		Battle:      DefaultBattle(),
		Synergies:   DefaultSynergies(),
		Progression: DefaultProgression(),
	}
}

// loadYAML decodes path over out. A missing file leaves out untouched.
func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func LoadAll(dir string) (*Bundle, error) {
	b := Defaults()
	files := []struct {
		name string
		out  any
	}{
		{"battle.yaml", &b.Battle},
		{"heroes.yaml", &b.Heroes},
		{"skills.yaml", &b.Skills},
		{"stages.yaml", &b.Stages},
		{"synergies.yaml", &b.Synergies},
		{"progression.yaml", &b.Progression},
	}
	for _, f := range files {
		if err := loadYAML(filepath.Join(dir, f.name), f.out); err != nil {
			return nil, err
		}
	}
	return b, nil
}
