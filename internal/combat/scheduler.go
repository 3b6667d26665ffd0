package combat

import (
	"log/slog"
	"sort"
)

// Scheduler runs turns one action at a time. Turn order is recomputed at the start of
// every turn, so deaths and stat changes only affect the next turn.
type Scheduler struct {
	state    *BattleState
	resolver *Resolver
	bus      *Bus
	log      *slog.Logger

	queue  []*Combatant
	inTurn bool
}

func NewScheduler(state *BattleState, resolver *Resolver, bus *Bus, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{state: state, resolver: resolver, bus: bus, log: log}
}

// TurnOrder returns the living combatants by speed, fastest first. Ties keep roster order,
// allies before enemies.
func (s *Scheduler) TurnOrder() []*Combatant {
	order := make([]*Combatant, 0, len(s.state.Allies)+len(s.state.Enemies))
	for _, c := range s.state.Allies {
		if c.Alive {
			order = append(order, c)
		}
	}
	for _, c := range s.state.Enemies {
		if c.Alive {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Spd > order[j].Spd
	})
	return order
}

func (s *Scheduler) InTurn() bool { return s.inTurn }

// Pending returns how many actions remain in the current turn.
func (s *Scheduler) Pending() int { return len(s.queue) }

func (s *Scheduler) BeginTurn() {
	s.state.Turn++
	s.queue = s.TurnOrder()
	s.inTurn = true

	ids := make([]string, len(s.queue))
	for i, c := range s.queue {
		ids[i] = c.ID
	}
	s.log.Debug("turn start", "battle", s.state.ID, "turn", s.state.Turn, "order", names(s.queue))
	s.bus.Emit(Event{Turn: s.state.Turn, Type: EventTurnStart, Order: ids})
}

// StepAction executes the next queued action. It returns false once the turn is drained.
func (s *Scheduler) StepAction() bool {
	if !s.inTurn {
		return false
	}
	if len(s.queue) == 0 {
		s.inTurn = false
		return false
	}
	c := s.queue[0]
	s.queue = s.queue[1:]

	switch {
	case !c.Alive:
	case c.slotConsumed:
		c.slotConsumed = false
		s.log.Debug("slot consumed by manual skill", "battle", s.state.ID, "unit", c.ID)
	default:
		if hit, ok := s.resolver.AutoAction(c); ok {
			s.log.Debug("action",
				"battle", s.state.ID,
				"turn", s.state.Turn,
				"attacker", c.ID,
				"target", hit.Target.ID,
				"skill", hit.Skill.ID,
				"damage", hit.Damage,
				"crit", hit.Crit)
		}
	}

	if len(s.queue) == 0 {
		s.inTurn = false
	}
	return s.inTurn
}

// RunTurn begins a turn, or finishes the one in flight, and drains it.
func (s *Scheduler) RunTurn() {
	if !s.inTurn {
		s.BeginTurn()
	}
	for s.StepAction() {
	}
}
