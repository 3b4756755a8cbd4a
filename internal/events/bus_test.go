package events_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/events"
)

type testListener struct {
	id       string
	priority int
	handler  func(events.Event) error
}

func (l *testListener) ID() string    { return l.id }
func (l *testListener) Priority() int { return l.priority }
func (l *testListener) HandleEvent(e events.Event) error {
	return l.handler(e)
}

func recording(id string, priority int, order *[]string) *testListener {
	return &testListener{id: id, priority: priority, handler: func(events.Event) error {
		*order = append(*order, id)
		return nil
	}}
}

func sheet() *character.Character {
	return &character.Character{ID: "chr_1", Bio: character.Biography{Name: "Ada"}, Sanity: 50}
}

func TestBus_Priority(t *testing.T) {
	bus := events.NewBus(nil)
	var order []string

	bus.Subscribe(events.EventTypeSkillRolled, recording("low", 300, &order))
	bus.Subscribe(events.EventTypeSkillRolled, recording("high", 100, &order))
	bus.Subscribe(events.EventTypeSkillRolled, recording("medium", 200, &order))
	bus.Subscribe(events.EventTypeDamageTaken, recording("other", 0, &order))

	err := bus.Emit(&events.SkillRolledEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSkillRolled, sheet()),
		Skill:     "Spot",
		Result:    &skill.Result{Roll: 10, Total: 10, Success: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "medium", "low"}, order)
}

func TestBus_CancelStopsPropagation(t *testing.T) {
	bus := events.NewBus(nil)
	var order []string

	bus.Subscribe(events.EventTypeCharacterDeleted, &testListener{id: "guard", priority: 1, handler: func(e events.Event) error {
		order = append(order, "guard")
		e.Cancel()
		return nil
	}})
	bus.Subscribe(events.EventTypeCharacterDeleted, recording("after", 2, &order))

	event := &events.CharacterEvent{BaseEvent: events.BaseEvent{Type: events.EventTypeCharacterDeleted, CharacterID: "chr_1"}}
	require.NoError(t, bus.Emit(event))
	assert.Equal(t, []string{"guard"}, order)
	assert.True(t, event.IsCancelled())
}

func TestBus_ListenerError(t *testing.T) {
	bus := events.NewBus(nil)
	boom := errors.New("boom")
	bus.Subscribe(events.EventTypeFatigueChanged, &testListener{id: "broken", handler: func(events.Event) error {
		return boom
	}})

	err := bus.Emit(&events.FatigueChangedEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeFatigueChanged, sheet()),
		Amount:    2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "chr_1", brperr.GetMeta(err)["character_id"])
}

func TestBus_NilEvent(t *testing.T) {
	err := events.NewBus(nil).Emit(nil)
	assert.True(t, brperr.IsInvalidArgument(err))
}

func TestBus_UnsubscribeAndClear(t *testing.T) {
	bus := events.NewBus(zap.NewNop())
	var order []string
	bus.Subscribe(events.EventTypeDamageHealed, recording("a", 1, &order))
	bus.Subscribe(events.EventTypeDamageHealed, recording("b", 2, &order))

	bus.Unsubscribe(events.EventTypeDamageHealed, "a")
	event := &events.DamageHealedEvent{BaseEvent: events.NewBaseEvent(events.EventTypeDamageHealed, sheet())}
	require.NoError(t, bus.Emit(event))
	assert.Equal(t, []string{"b"}, order)

	bus.Clear()
	require.NoError(t, bus.Emit(event))
	assert.Equal(t, []string{"b"}, order)
}

func TestLogListener(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := events.NewBus(nil)
	bus.SubscribeAll(events.NewLogListener(zap.New(core)))

	c := sheet()
	c.Sanity = 42
	c.TemporarilyInsane = true
	require.NoError(t, bus.Emit(&events.SanityRolledEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSanityRolled, c),
		Result:    &character.SanityResult{Roll: 88, Loss: 8},
	}))
	require.NoError(t, bus.Emit(&events.ExperienceSpentEvent{
		BaseEvent:    events.NewBaseEvent(events.EventTypeExperienceSpent, c),
		Improvements: []*skill.Improvement{{Skill: "Spot", Checked: true, Gain: 3}, {Skill: "Dodge", Checked: true, Gain: 2}},
		POWGain:      1,
	}))

	entries := logs.All()
	require.Len(t, entries, 2)

	sanity := entries[0].ContextMap()
	assert.Equal(t, "sanity.rolled", entries[0].Message)
	assert.Equal(t, "chr_1", sanity["character_id"])
	assert.Equal(t, int64(8), sanity["loss"])
	assert.Equal(t, true, sanity["temporarily_insane"])

	experience := entries[1].ContextMap()
	assert.Equal(t, int64(2), experience["checks"])
	assert.Equal(t, int64(5), experience["skill_points"])
	assert.Equal(t, int64(1), experience["pow_gain"])
}

func TestLogListener_ContestEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := events.NewBus(nil)
	bus.SubscribeAll(events.NewLogListener(zap.New(core)))

	c := sheet()
	require.NoError(t, bus.Emit(&events.OpposedRolledEvent{
		BaseEvent:  events.NewBaseEvent(events.EventTypeOpposedRolled, c),
		Skill:      "Spot",
		Method:     "highest",
		OpponentID: "chr_2",
		Won:        true,
	}))
	require.NoError(t, bus.Emit(&events.SanityResetEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSanityReset, c),
		Cleared:   7,
	}))

	entries := logs.All()
	require.Len(t, entries, 2)

	opposed := entries[0].ContextMap()
	assert.Equal(t, "opposed.rolled", entries[0].Message)
	assert.Equal(t, "chr_2", opposed["opponent_id"])
	assert.Equal(t, true, opposed["won"])

	assert.Equal(t, "sanity.reset", entries[1].Message)
	assert.Equal(t, int64(7), entries[1].ContextMap()["cleared"])
}
