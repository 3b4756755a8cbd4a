package main

import (
	"fmt"
	"io"

	"github.com/KirkDiggler/brp-sheet/internal/events"
)

// noticeListener tells the table when a roll changed a character's state
type noticeListener struct {
	out io.Writer
}

func (l *noticeListener) ID() string    { return "notice" }
func (l *noticeListener) Priority() int { return 100 }

func (l *noticeListener) HandleEvent(event events.Event) error {
	c := event.GetCharacter()
	if c == nil {
		return nil
	}

	switch e := event.(type) {
	case *events.DamageTakenEvent:
		switch {
		case e.Condition.Dying:
			fmt.Fprintf(l.out, "! %s is dying\n", c.Bio.Name)
		case e.Condition.Unconscious:
			fmt.Fprintf(l.out, "! %s falls unconscious\n", c.Bio.Name)
		case e.Condition.MajorWoundTimer != nil:
			fmt.Fprintf(l.out, "! %s suffers a major wound\n", c.Bio.Name)
		}
	case *events.SanityRolledEvent:
		switch {
		case c.PermanentlyInsane:
			fmt.Fprintf(l.out, "! %s is permanently insane\n", c.Bio.Name)
		case c.TemporarilyInsane:
			fmt.Fprintf(l.out, "! %s is temporarily insane\n", c.Bio.Name)
		}
	case *events.POWCheckedEvent:
		if e.Won {
			fmt.Fprintf(l.out, "! %s may improve POW at the next experience pass\n", c.Bio.Name)
		}
	case *events.ExperienceSpentEvent:
		if e.POWGain > 0 {
			fmt.Fprintf(l.out, "! %s gains %d POW\n", c.Bio.Name, e.POWGain)
		}
	}
	return nil
}

func subscribeNotices(bus *events.Bus, out io.Writer) {
	listener := &noticeListener{out: out}
	for _, t := range []events.EventType{
		events.EventTypeDamageTaken,
		events.EventTypeSanityRolled,
		events.EventTypePOWChecked,
		events.EventTypeExperienceSpent,
	} {
		bus.Subscribe(t, listener)
	}
}
