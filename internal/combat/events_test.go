package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.On(EventUnitDied, func(Event) { got = append(got, "died-1") })
	bus.OnAll(func(ev Event) { got = append(got, "all:"+string(ev.Type)) })
	bus.On(EventUnitDied, func(Event) { got = append(got, "died-2") })

	bus.Emit(Event{Type: EventUnitDied})
	bus.Emit(Event{Type: EventTurnStart})

	assert.Equal(t, []string{"died-1", "died-2", "all:unit_died", "all:turn_start"}, got)
}

func TestNilBusEmitIsSafe(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Emit(Event{Type: EventBattleEnd}) })
}
