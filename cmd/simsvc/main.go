package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"arcane_battle/internal/combat"
	"arcane_battle/internal/config"
	"arcane_battle/internal/progression"
	"arcane_battle/internal/storage"
	"arcane_battle/internal/storage/postgres"
	"arcane_battle/internal/storage/sqlite"
	"arcane_battle/internal/synergy"
	"arcane_battle/internal/util"
)

func main() {
	if err := run(); err != nil {
		slog.Error("simsvc failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	rt, err := config.ParseRuntime()
	if err != nil {
		return err
	}

	var cfgDir, out, stageID, partyList, planPath, storeDSN, logLevel string
	var seed int64
	var n, workers int
	var saveLog, autoSkill, settle bool
	flag.StringVar(&cfgDir, "config", rt.ConfigDir, "config dir")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&stageID, "stage", "", "stage id (empty = default encounter)")
	flag.StringVar(&partyList, "party", "", "comma separated hero ids (empty = first four heroes)")
	flag.StringVar(&planPath, "plan", "", "JSON file with scripted inputs for a single run")
	flag.StringVar(&storeDSN, "store", rt.Store, "sqlite path or postgres:// DSN; empty keeps progress in memory")
	flag.StringVar(&logLevel, "log-level", rt.LogLevel, "debug, info, warn or error")
	flag.Int64Var(&seed, "seed", rt.Seed, "seed")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", rt.Workers, "concurrent simulations in batch mode")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.BoolVar(&autoSkill, "auto-skill", true, "fire ready ally skills automatically")
	flag.BoolVar(&settle, "settle", true, "grant rewards and record clears")
	flag.Parse()

	setupLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bundle, err := config.LoadAll(cfgDir)
	if err != nil {
		return err
	}

	in := combat.SimInput{Stage: stageID, Seed: seed, AutoSkill: autoSkill}
	if planPath != "" {
		if in, err = readPlan(planPath); err != nil {
			return err
		}
		if in.Seed == 0 {
			in.Seed = seed
		}
	}
	if in.Stage == "" {
		in.Stage = stageID
	}
	if len(in.Party) == 0 && partyList != "" {
		in.Party = strings.Split(partyList, ",")
	}

	party := buildParty(bundle, in.Party)
	stage := combat.Stage{ID: in.Stage}
	if def, ok := bundle.Stages.Find(in.Stage); ok {
		stage = combat.StageFromDef(def)
	} else if in.Stage != "" {
		return fmt.Errorf("unknown stage %q", in.Stage)
	}

	store, err := openStore(ctx, storeDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	sim := &simulator{
		bundle:  bundle,
		book:    combat.NewSkillBook(&bundle.Skills, bundle.Battle),
		catalog: synergy.New(bundle.Synergies, &bundle.Heroes),
		prog:    progression.New(store, bundle.Progression, &bundle.Heroes, slog.Default()),
		store:   store,
		settle:  settle,
	}

	if n <= 1 {
		return sim.single(ctx, party, stage, in, saveLog, out)
	}
	return sim.batch(ctx, party, stage, in, n, workers, out)
}

type simulator struct {
	bundle  *config.Bundle
	book    *combat.SkillBook
	catalog combat.SynergyCatalog
	prog    *progression.Service
	store   storage.Store
	settle  bool

	// settling is read-modify-write on hero progress
	settleMu sync.Mutex
}

func (s *simulator) options() combat.Options {
	return combat.Options{
		Rules:   s.bundle.Battle,
		Skills:  s.book,
		Catalog: s.catalog,
	}
}

// finish persists the run and, for victories, pays out rewards.
func (s *simulator) finish(ctx context.Context, res *combat.SimResult, stage combat.Stage) error {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	rec := storage.BattleRecord{
		ID:        res.Meta.BattleID,
		StageID:   stage.ID,
		Victory:   res.Win,
		Reason:    res.Reason,
		Turns:     res.Turns,
		Stars:     res.Stars,
		CreatedAt: time.Now(),
	}
	if err := s.store.RecordBattle(ctx, rec); err != nil {
		return err
	}
	if !s.settle {
		return nil
	}
	settled, err := combat.Settle(ctx, res.Outcome, stage.ID, s.prog, s.store, slog.Default())
	if err != nil {
		return err
	}
	res.Outcome = settled
	return nil
}

func (s *simulator) single(ctx context.Context, party []combat.HeroRecord, stage combat.Stage, in combat.SimInput, saveLog bool, out string) error {
	env := &combat.Env{Rng: util.New(in.Seed)}
	res, err := combat.RunSingle(ctx, env, party, stage, s.options(), in, saveLog)
	if err != nil {
		return err
	}
	if err := s.finish(ctx, &res, stage); err != nil {
		return err
	}
	if err := os.WriteFile(out, combat.MarshalPretty(res), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Printf("Single simsvc finished. Win=%v, Reason=%s, Turns=%d, Stars=%d -> %s\n", res.Win, res.Reason, res.Turns, res.Stars, out)
	return nil
}

type batchStats struct {
	Wins     int
	SumTurns int
	Stars    [4]int
	Reasons  map[string]int
	BySkill  map[string]int
	ByHero   map[string]int
	Manual   int
}

func (s *simulator) batch(ctx context.Context, party []combat.HeroRecord, stage combat.Stage, in combat.SimInput, n, workers int, out string) error {
	st := batchStats{
		Reasons: map[string]int{},
		BySkill: map[string]int{},
		ByHero:  map[string]int{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			env := &combat.Env{Rng: util.New(in.Seed + int64(i)*7919)}
			res, err := combat.RunSingle(gctx, env, party, stage, s.options(), in, false)
			if err != nil {
				return err
			}
			if err := s.finish(gctx, &res, stage); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if res.Win {
				st.Wins++
			}
			st.SumTurns += res.Turns
			st.Stars[res.Stars]++
			st.Reasons[res.Reason]++
			st.Manual += res.ManualSkills
			for k, v := range res.DamageBySkill {
				st.BySkill[k] += v
			}
			for k, v := range res.DamageByHero {
				st.ByHero[k] += v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	totalDmg := 0
	for _, v := range st.BySkill {
		totalDmg += v
	}
	percent := func(m map[string]int) map[string]any {
		out := map[string]any{}
		for k, v := range m {
			share := 0.0
			if totalDmg > 0 {
				share = float64(v) / float64(totalDmg)
			}
			out[k] = map[string]any{"total": v, "ratio": share}
		}
		return out
	}

	summary := map[string]any{
		"runs":          n,
		"stage":         stage.ID,
		"win_rate":      float64(st.Wins) / float64(n),
		"avg_turns":     float64(st.SumTurns) / float64(n),
		"stars":         map[string]int{"0": st.Stars[0], "1": st.Stars[1], "2": st.Stars[2], "3": st.Stars[3]},
		"reasons":       st.Reasons,
		"manual_skills": st.Manual,
		"total_damage":  totalDmg,
		"by_skill":      percent(st.BySkill),
		"by_hero":       percent(st.ByHero),
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
	return nil
}

var fallbackParty = []combat.HeroRecord{
	{ID: "kael", Name: "Kael", Class: "warrior", Mood: "brave", Stats: combat.Stats{HP: 1500, Atk: 150, Def: 75, Spd: 110}},
	{ID: "lyra", Name: "Lyra", Class: "mage", Mood: "mystic", Stats: combat.Stats{HP: 1200, Atk: 120, Def: 60, Spd: 105}},
	{ID: "brom", Name: "Brom", Class: "healer", Mood: "calm", Stats: combat.Stats{HP: 1000, Atk: 100, Def: 50, Spd: 100}},
}

// buildParty resolves hero ids against heroes.yaml. Unknown ids become default heroes.
func buildParty(b *config.Bundle, ids []string) []combat.HeroRecord {
	index := b.Heroes.Index()
	if len(ids) == 0 {
		for i, h := range b.Heroes.Heroes {
			if i == 4 {
				break
			}
			ids = append(ids, h.ID)
		}
	}
	if len(ids) == 0 {
		return fallbackParty
	}
	party := make([]combat.HeroRecord, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if def, ok := index[id]; ok {
			party = append(party, combat.HeroFromDef(def))
			continue
		}
		slog.Warn("unknown hero, using default stats", "hero", id)
		party = append(party, combat.HeroRecord{ID: id})
	}
	return party
}

func readPlan(path string) (combat.SimInput, error) {
	var in combat.SimInput
	b, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("reading plan %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return in, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	return in, nil
}

func openStore(ctx context.Context, dsn string) (storage.Store, error) {
	switch {
	case dsn == "":
		return storage.NewMemory(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		st, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		st, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
