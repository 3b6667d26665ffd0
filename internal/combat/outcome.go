package combat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"arcane_battle/internal/config"
)

var ErrInProgress = errors.New("combat: battle has not ended")

type HeroReward struct {
	HeroID    string `json:"hero_id"`
	Exp       int    `json:"exp"`
	LeveledUp bool   `json:"leveled_up,omitempty"`
	NewLevel  int    `json:"new_level,omitempty"`
}

type OutcomeRewards struct {
	Gold       int          `json:"gold"`
	Exp        int          `json:"exp"`
	ExpPerHero int          `json:"exp_per_hero"`
	Heroes     []HeroReward `json:"heroes,omitempty"`
}

// Outcome is the scored result of an ended battle. Defeats carry no stars and no rewards.
type Outcome struct {
	Victory      bool           `json:"victory"`
	TurnsElapsed int            `json:"turns_elapsed"`
	StarRating   int            `json:"star_rating"`
	Reason       string         `json:"reason"`
	Rewards      OutcomeRewards `json:"rewards"`
}

// LevelResult is what the progression collaborator reports after granting exp.
type LevelResult struct {
	HeroID    string
	Level     int
	Exp       int
	LeveledUp bool
}

type Progression interface {
	GrantExp(ctx context.Context, heroID string, amount int) (LevelResult, error)
	GrantGold(ctx context.Context, amount int) error
}

// ClearRecorder keeps the best star rating per stage.
type ClearRecorder interface {
	BestStars(ctx context.Context, stageID string) (int, error)
	RecordClear(ctx context.Context, stageID string, stars int) error
}

// StarRating scores a victory from the allies' condition and the turns it took.
func StarRating(allies []*Combatant, turns, quickClearTurns int) int {
	total := len(allies)
	if total == 0 {
		return 1
	}
	alive := AliveCount(allies)
	ratio := 0.0
	for _, a := range allies {
		ratio += a.HPRatio()
	}
	ratio /= float64(total)

	stars := 1
	switch {
	case alive == total && ratio > 0.5:
		stars = 3
	case alive >= (total+1)/2:
		stars = 2
	}
	if turns <= quickClearTurns && stars < 3 {
		stars++
	}
	return stars
}

// Evaluate scores the state. The reason is derived from which side is wiped out; callers
// that know better (retreat, timeout) overwrite it.
func Evaluate(state *BattleState, stage Stage, rules config.BattleConfig) Outcome {
	out := Outcome{TurnsElapsed: state.Turn}
	switch {
	case AliveCount(state.Enemies) == 0:
		out.Victory = true
		out.Reason = ReasonCleared
	case AliveCount(state.Allies) == 0:
		out.Reason = ReasonWiped
	}
	if !out.Victory {
		return out
	}

	out.StarRating = StarRating(state.Allies, state.Turn, rules.Outcome.QuickClearTurns)

	rw := Rewards{Gold: rules.Outcome.DefaultGold, Exp: rules.Outcome.DefaultExp}
	if stage.Rewards != nil {
		rw = *stage.Rewards
	}
	perHero := 0
	if n := len(state.Allies); n > 0 {
		perHero = int(math.Floor(float64(rw.Exp) / float64(n)))
	}
	out.Rewards = OutcomeRewards{Gold: rw.Gold, Exp: rw.Exp, ExpPerHero: perHero}
	for _, a := range state.Allies {
		out.Rewards.Heroes = append(out.Rewards.Heroes, HeroReward{HeroID: a.ID, Exp: perHero})
	}
	return out
}

// Outcome scores the battle once it has ended.
func (b *Battle) Outcome() (Outcome, error) {
	if b.phase != PhaseEnded {
		return Outcome{}, ErrInProgress
	}
	out := Evaluate(b.state, b.stage, b.rules)
	out.Victory = b.victory
	out.Reason = b.reason
	if !b.victory {
		out.StarRating = 0
		out.Rewards = OutcomeRewards{}
	}
	return out, nil
}

// Settle pays out a victory: gold once, exp per hero, and the clear record when the new
// rating beats the stored best. Either collaborator may be nil. Defeats are a no-op.
func Settle(ctx context.Context, out Outcome, stageID string, prog Progression, rec ClearRecorder, log *slog.Logger) (Outcome, error) {
	if !out.Victory {
		return out, nil
	}
	if log == nil {
		log = slog.Default()
	}

	if prog != nil {
		if err := prog.GrantGold(ctx, out.Rewards.Gold); err != nil {
			return out, fmt.Errorf("grant gold: %w", err)
		}
		heroes := make([]HeroReward, len(out.Rewards.Heroes))
		copy(heroes, out.Rewards.Heroes)
		for i, hr := range heroes {
			if hr.HeroID == "" {
				continue
			}
			res, err := prog.GrantExp(ctx, hr.HeroID, hr.Exp)
			if err != nil {
				return out, fmt.Errorf("grant exp to %s: %w", hr.HeroID, err)
			}
			heroes[i].LeveledUp = res.LeveledUp
			heroes[i].NewLevel = res.Level
			if res.LeveledUp {
				log.Info("hero leveled up", "hero", hr.HeroID, "level", res.Level)
			}
		}
		out.Rewards.Heroes = heroes
	}

	if rec != nil && stageID != "" {
		best, err := rec.BestStars(ctx, stageID)
		if err != nil {
			return out, fmt.Errorf("read best stars for %s: %w", stageID, err)
		}
		if out.StarRating > best {
			if err := rec.RecordClear(ctx, stageID, out.StarRating); err != nil {
				return out, fmt.Errorf("record clear for %s: %w", stageID, err)
			}
			log.Info("stage record", "stage", stageID, "stars", out.StarRating, "previous", best)
		}
	}
	return out, nil
}
