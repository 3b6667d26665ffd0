package combat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"arcane_battle/internal/config"
	"arcane_battle/internal/util"
)

type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseAwaitingInput
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

const (
	ReasonCleared = "cleared"
	ReasonWiped   = "wiped"
	ReasonRetreat = "retreat"
	ReasonTimeout = "timeout"
)

var (
	ErrEmptyParty       = errors.New("combat: party is empty")
	ErrNotStarted       = errors.New("combat: battle has not started")
	ErrBattleEnded      = errors.New("combat: battle has ended")
	ErrNotAwaitingInput = errors.New("combat: battle is not awaiting manual input")
	ErrAwaitingInput    = errors.New("combat: battle is awaiting manual input")
	ErrGaugeNotFull     = errors.New("combat: skill gauge is not full")
	ErrUnitDown         = errors.New("combat: unit is not alive")
	ErrUnknownCombatant = errors.New("combat: unknown combatant")
	ErrInvalidTarget    = errors.New("combat: invalid target")
)

type Options struct {
	Rules    config.BattleConfig
	Skills   *SkillBook
	Catalog  SynergyCatalog
	Rand     Rand
	Bus      *Bus
	Logger   *slog.Logger
	AutoMode bool
	ID       string
}

// Battle owns one fight from roster setup to its terminal phase. Only Battle sets
// BattleState.Ended.
type Battle struct {
	state *BattleState
	stage Stage
	rules config.BattleConfig

	phase   Phase
	victory bool
	reason  string

	resolver *Resolver
	sched    *Scheduler
	bus      *Bus
	log      *slog.Logger
}

// StartBattle builds the roster, applies synergies once and enters InProgress.
func StartBattle(party []HeroRecord, stage Stage, opts Options) (*Battle, error) {
	if len(party) == 0 {
		return nil, ErrEmptyParty
	}
	rules := opts.Rules
	if rules.MaxSkillGauge <= 0 {
		rules = config.DefaultBattle()
	}
	rng := opts.Rand
	if rng == nil {
		rng = util.New(time.Now().UnixNano())
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewBus()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	book := opts.Skills
	if book == nil {
		book = NewSkillBook(nil, rules)
	}

	state := InitRoster(party, stage, rules, book, rng)
	state.ID = opts.ID
	if state.ID == "" {
		state.ID = uuid.NewString()
	}
	state.AutoMode = opts.AutoMode

	b := &Battle{
		state: state,
		stage: stage,
		rules: rules,
		phase: PhaseNotStarted,
		bus:   bus,
		log:   log.With("battle", state.ID),
	}
	b.resolver = NewResolver(state, rules, rng, bus)
	b.sched = NewScheduler(state, b.resolver, bus, log)

	state.Synergies = ResolveSynergies(state.Allies, opts.Catalog, b.log)
	ApplySynergies(state.Allies, state.Synergies)

	b.phase = PhaseInProgress
	b.log.Info("battle start",
		"stage", stage.ID,
		"allies", len(state.Allies),
		"enemies", len(state.Enemies),
		"synergies", len(state.Synergies),
		"auto", state.AutoMode)
	bus.Emit(Event{Turn: 0, Type: EventBattleStart})
	return b, nil
}

func (b *Battle) State() *BattleState { return b.state }
func (b *Battle) Phase() Phase        { return b.phase }
func (b *Battle) Bus() *Bus           { return b.bus }
func (b *Battle) Stage() Stage        { return b.stage }

// Result reports the terminal result once the battle has ended.
func (b *Battle) Result() (victory bool, reason string, ended bool) {
	return b.victory, b.reason, b.phase == PhaseEnded
}

// TurnOrder returns the ids of living combatants in the order the next turn would use.
func (b *Battle) TurnOrder() []string {
	order := b.sched.TurnOrder()
	ids := make([]string, len(order))
	for i, c := range order {
		ids[i] = c.ID
	}
	return ids
}

func (b *Battle) checkActive() error {
	switch b.phase {
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseEnded:
		return ErrBattleEnded
	case PhaseAwaitingInput:
		return ErrAwaitingInput
	}
	return nil
}

// NextTurn runs one full turn, finishing a partially stepped one if needed, then
// evaluates end conditions.
func (b *Battle) NextTurn() error {
	if err := b.checkActive(); err != nil {
		return err
	}
	b.sched.RunTurn()
	b.finishTurn()
	return nil
}

// StepAction advances the battle by a single action, starting a turn when none is in flight.
func (b *Battle) StepAction() error {
	if err := b.checkActive(); err != nil {
		return err
	}
	if !b.sched.InTurn() {
		b.sched.BeginTurn()
	}
	b.sched.StepAction()
	if !b.sched.InTurn() {
		b.finishTurn()
	}
	return nil
}

// AdvanceManualTurn is the external "next turn" signal while awaiting input.
func (b *Battle) AdvanceManualTurn() error {
	switch b.phase {
	case PhaseEnded:
		return ErrBattleEnded
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseAwaitingInput:
	default:
		return ErrNotAwaitingInput
	}
	b.resume()
	return b.NextTurn()
}

// SetAutoMode toggles automatic turn progression. Enabling it while awaiting input
// resumes immediately with the next turn.
func (b *Battle) SetAutoMode(on bool) error {
	switch b.phase {
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseEnded:
		return ErrBattleEnded
	}
	b.state.AutoMode = on
	if on && b.phase == PhaseAwaitingInput {
		b.resume()
		return b.NextTurn()
	}
	return nil
}

// TriggerManualSkill fires a ready ally's heavy skill at targetID outside the turn
// cadence. The ally's next scheduled automatic action is consumed. Between turns the
// battle ends at once if the skill decided it; mid-turn the check waits for the turn
// to drain.
func (b *Battle) TriggerManualSkill(allyID, targetID string) (Hit, error) {
	switch b.phase {
	case PhaseNotStarted:
		return Hit{}, ErrNotStarted
	case PhaseEnded:
		return Hit{}, ErrBattleEnded
	}
	ally := b.state.Find(allyID)
	if ally == nil || !ally.IsAlly() {
		return Hit{}, fmt.Errorf("%w: ally %q", ErrUnknownCombatant, allyID)
	}
	if !ally.Alive {
		return Hit{}, fmt.Errorf("%w: %s", ErrUnitDown, allyID)
	}
	if !ally.GaugeReady() {
		return Hit{}, fmt.Errorf("%w: %s at %d/%d", ErrGaugeNotFull, allyID, ally.SkillGauge, ally.MaxSkillGauge)
	}
	target := b.state.Find(targetID)
	if target == nil || target.IsAlly() || !target.Alive {
		return Hit{}, fmt.Errorf("%w: %q", ErrInvalidTarget, targetID)
	}

	hit := b.resolver.ManualSkill(ally, target)
	ally.slotConsumed = true
	b.log.Debug("manual skill", "ally", allyID, "target", targetID, "damage", hit.Damage, "crit", hit.Crit)
	b.bus.Emit(Event{Turn: b.state.Turn, Type: EventTurnOrder, Order: b.TurnOrder()})
	if !b.sched.InTurn() {
		b.settled()
	}
	return hit, nil
}

// Retreat ends the battle in defeat immediately.
func (b *Battle) Retreat() error {
	switch b.phase {
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseEnded:
		return ErrBattleEnded
	}
	b.sched.queue = nil
	b.sched.inTurn = false
	b.end(false, ReasonRetreat)
	return nil
}

// Run plays turns until the battle ends, stops for manual input, or ctx is done.
func (b *Battle) Run(ctx context.Context) error {
	for b.phase == PhaseInProgress {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.NextTurn(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Battle) resume() {
	b.phase = PhaseInProgress
	b.state.AwaitingManualInput = false
}

// settled ends the battle when one side is wiped out. Victory is checked first.
func (b *Battle) settled() bool {
	switch {
	case AliveCount(b.state.Enemies) == 0:
		b.end(true, ReasonCleared)
	case AliveCount(b.state.Allies) == 0:
		b.end(false, ReasonWiped)
	default:
		return false
	}
	return true
}

func (b *Battle) finishTurn() {
	if b.settled() {
		return
	}
	switch {
	case b.rules.MaxTurns > 0 && b.state.Turn >= b.rules.MaxTurns:
		b.end(false, ReasonTimeout)
	case !b.state.AutoMode:
		b.phase = PhaseAwaitingInput
		b.state.AwaitingManualInput = true
		b.bus.Emit(Event{Turn: b.state.Turn, Type: EventAwaitingInput})
	}
}

func (b *Battle) end(victory bool, reason string) {
	b.phase = PhaseEnded
	b.victory = victory
	b.reason = reason
	b.state.Ended = true
	b.state.AwaitingManualInput = false
	b.log.Info("battle end",
		"victory", victory,
		"reason", reason,
		"turn", b.state.Turn,
		"survivors", AliveCount(b.state.Allies))
	b.bus.Emit(Event{Turn: b.state.Turn, Type: EventBattleEnd, Victory: victory, Reason: reason})
}

// UnitView is a read-only copy of one combatant for presentation.
type UnitView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Side       string `json:"side"`
	Position   int    `json:"position"`
	Mood       Mood   `json:"mood"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"max_hp"`
	SkillGauge int    `json:"skill_gauge"`
	MaxGauge   int    `json:"max_gauge"`
	Ready      bool   `json:"ready"`
	Alive      bool   `json:"alive"`
}

type Snapshot struct {
	ID       string     `json:"id"`
	Turn     int        `json:"turn"`
	Phase    string     `json:"phase"`
	AutoMode bool       `json:"auto_mode"`
	Awaiting bool       `json:"awaiting_input"`
	Allies   []UnitView `json:"allies"`
	Enemies  []UnitView `json:"enemies"`
}

// Snapshot copies the current state; mutating it does not affect the battle.
func (b *Battle) Snapshot() Snapshot {
	return Snapshot{
		ID:       b.state.ID,
		Turn:     b.state.Turn,
		Phase:    b.phase.String(),
		AutoMode: b.state.AutoMode,
		Awaiting: b.state.AwaitingManualInput,
		Allies:   viewAll(b.state.Allies),
		Enemies:  viewAll(b.state.Enemies),
	}
}

func viewAll(cs []*Combatant) []UnitView {
	out := make([]UnitView, len(cs))
	for i, c := range cs {
		out[i] = UnitView{
			ID:         c.ID,
			Name:       c.Name,
			Side:       c.Side.String(),
			Position:   c.Position,
			Mood:       c.Mood,
			HP:         c.HP,
			MaxHP:      c.MaxHP,
			SkillGauge: c.SkillGauge,
			MaxGauge:   c.MaxSkillGauge,
			Ready:      c.GaugeReady(),
			Alive:      c.Alive,
		}
	}
	return out
}
