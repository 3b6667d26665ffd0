package combat

type EventType string

const (
	EventBattleStart   EventType = "battle_start"
	EventTurnStart     EventType = "turn_start"
	EventDamageDealt   EventType = "damage_dealt"
	EventCriticalHit   EventType = "critical_hit"
	EventUnitDied      EventType = "unit_died"
	EventTurnOrder     EventType = "turn_order"
	EventAwaitingInput EventType = "awaiting_input"
	EventBattleEnd     EventType = "battle_end"
)

// Event is what the presentation layer binds to. Only the fields relevant to Type are set.
type Event struct {
	Turn      int       `json:"turn"`
	Type      EventType `json:"type"`
	Attacker  string    `json:"attacker,omitempty"`
	Target    string    `json:"target,omitempty"`
	Skill     string    `json:"skill,omitempty"`
	Damage    int       `json:"damage,omitempty"`
	Crit      bool      `json:"crit,omitempty"`
	Manual    bool      `json:"manual,omitempty"`
	Advantage Advantage `json:"advantage,omitempty"`
	TargetHP  int       `json:"target_hp,omitempty"`
	Order     []string  `json:"order,omitempty"`
	Victory   bool      `json:"victory,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type Listener func(Event)

// Bus fans events out to subscribers in subscription order. It is not safe for
// concurrent use; a battle runs on one goroutine.
type Bus struct {
	byType map[EventType][]Listener
	all    []Listener
}

func NewBus() *Bus {
	return &Bus{byType: map[EventType][]Listener{}}
}

func (b *Bus) On(t EventType, fn Listener) {
	b.byType[t] = append(b.byType[t], fn)
}

func (b *Bus) OnAll(fn Listener) {
	b.all = append(b.all, fn)
}

func (b *Bus) Emit(ev Event) {
	if b == nil {
		return
	}
	for _, fn := range b.byType[ev.Type] {
		fn(ev)
	}
	for _, fn := range b.all {
		fn(ev)
	}
}
