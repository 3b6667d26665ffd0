// Package progression grants battle rewards: exp with level-ups capped by rarity, and gold.
package progression

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"arcane_battle/internal/combat"
	"arcane_battle/internal/config"
	"arcane_battle/internal/storage"
)

type Service struct {
	store  storage.Store
	cfg    config.ProgressionConfig
	rarity map[string]string
	log    *slog.Logger
}

var _ combat.Progression = (*Service)(nil)

func New(store storage.Store, cfg config.ProgressionConfig, heroes *config.HeroesConfig, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CurveFactor <= 0 {
		cfg = config.DefaultProgression()
	}
	rarity := map[string]string{}
	for id, h := range heroes.Index() {
		rarity[id] = strings.ToUpper(h.Rarity)
	}
	return &Service{store: store, cfg: cfg, rarity: rarity, log: log}
}

// ExpForLevel is the exp needed to go from level to level+1.
func (s *Service) ExpForLevel(level int) int {
	return level * level * s.cfg.CurveFactor
}

func (s *Service) MaxLevel(heroID string) int {
	if lvl, ok := s.cfg.MaxLevel[s.rarity[heroID]]; ok {
		return lvl
	}
	if s.cfg.FallbackCap > 0 {
		return s.cfg.FallbackCap
	}
	return 30
}

// GrantExp adds amount to the hero and applies as many level-ups as it pays for. Exp past
// the cap is discarded.
func (s *Service) GrantExp(ctx context.Context, heroID string, amount int) (combat.LevelResult, error) {
	p, err := s.store.HeroProgress(ctx, heroID)
	if err != nil {
		return combat.LevelResult{}, fmt.Errorf("load progress: %w", err)
	}
	maxLevel := s.MaxLevel(heroID)
	res := combat.LevelResult{HeroID: heroID, Level: p.Level, Exp: p.Exp}
	if p.Level >= maxLevel || amount <= 0 {
		return res, nil
	}

	start := p.Level
	p.Exp += amount
	for p.Level < maxLevel {
		need := s.ExpForLevel(p.Level)
		if p.Exp < need {
			break
		}
		p.Exp -= need
		p.Level++
	}
	if p.Level >= maxLevel {
		p.Exp = 0
	}
	if err := s.store.SaveHeroProgress(ctx, p); err != nil {
		return res, fmt.Errorf("save progress: %w", err)
	}

	res.Level = p.Level
	res.Exp = p.Exp
	res.LeveledUp = p.Level > start
	if res.LeveledUp {
		s.log.Debug("level up", "hero", heroID, "from", start, "to", p.Level)
	}
	return res, nil
}

func (s *Service) GrantGold(ctx context.Context, amount int) error {
	if amount <= 0 {
		return nil
	}
	total, err := s.store.AddGold(ctx, amount)
	if err != nil {
		return fmt.Errorf("grant gold: %w", err)
	}
	s.log.Debug("gold granted", "amount", amount, "total", total)
	return nil
}
