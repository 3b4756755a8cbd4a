package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/variants/raven"
	charService "github.com/KirkDiggler/brp-sheet/internal/services/character"
)

func printSheet(out io.Writer, sheet character.Sheet) error {
	c := sheet.Base()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s (%s)\n", c.Bio.Name, c.ID, c.Kind)
	if c.Bio.Profession != "" {
		fmt.Fprintf(w, "Profession\t%s\n", c.Bio.Profession)
	}
	s := c.Scores
	fmt.Fprintf(w, "STR %d\tCON %d\tPOW %d\tDEX %d\n", s.STR, s.CON, s.POW, s.DEX)
	fmt.Fprintf(w, "CHA %d\tINT %d\tSIZ %d\tEDU %d\n", s.CHA, s.INT, s.SIZ, s.EDU)
	fmt.Fprintf(w, "Hit points\t%d/%d\tmajor wound %d\n", c.HitPoints(), c.MaxHitPoints, c.MajorWoundLevel)
	fmt.Fprintf(w, "Damage modifier\t%s\n", c.DamageModifier)
	fmt.Fprintf(w, "Power points\t%d/%d\n", c.PowerPoints, c.MaxPowerPoints)
	fmt.Fprintf(w, "Sanity\t%d\trecent loss %d\n", c.Sanity, c.RecentSanityLoss)
	fmt.Fprintf(w, "Fatigue\t%d\n", c.Fatigue)
	if r, ok := sheet.(*raven.Character); ok {
		fmt.Fprintf(w, "Guilt\t%d\n", r.Guilt)
	}
	if flags := statusFlags(c); len(flags) > 0 {
		fmt.Fprintf(w, "Status\t%s\n", strings.Join(flags, ", "))
	}

	fmt.Fprintln(w, "\nLocation\tHP\tDamage")
	for _, loc := range shared.Locations {
		hp, ok := c.MaxHitPointsByLocation[loc]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", loc, hp, c.LocationDamage[loc])
	}

	fmt.Fprintln(w, "\nSkill\tChance\t")
	for _, name := range c.SkillNames() {
		sk := c.Skills[name].Base()
		mark := ""
		if sk.Pending() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, sk.Chance, mark)
	}
	return w.Flush()
}

func statusFlags(c *character.Character) []string {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{c.MinorWound, "minor wound"},
		{c.MajorWound, "major wound"},
		{c.FatalWound, "fatal wound"},
		{c.TemporarilyInsane, "temporarily insane"},
		{c.PermanentlyInsane, "permanently insane"},
		{c.POWImprovement == character.ImprovementPending, "POW check pending"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	return flags
}

func printList(out io.Writer, sheets []character.Sheet) error {
	if len(sheets) == 0 {
		fmt.Fprintln(out, "no characters")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tKind\tHP\tSanity")
	for _, sheet := range sheets {
		c := sheet.Base()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\n", c.ID, c.Bio.Name, c.Kind, c.HitPoints(), c.MaxHitPoints, c.Sanity)
	}
	return w.Flush()
}

func printCondition(out io.Writer, condition *character.Condition) {
	fmt.Fprintf(out, "applied %d, armor absorbed %d\n", condition.Applied, condition.Absorbed)
	if condition.MajorWoundTimer != nil {
		fmt.Fprintf(out, "major wound: %d hit points left\n", *condition.MajorWoundTimer)
	}
	for _, part := range []struct {
		label string
		loc   shared.Location
	}{
		{"disabled", condition.Disabled},
		{"maimed", condition.Maimed},
		{"severed", condition.Severed},
	} {
		if part.loc != shared.LocationNone {
			fmt.Fprintf(out, "%s: %s\n", part.label, part.loc)
		}
	}
	if condition.PermanentInjury {
		fmt.Fprintln(out, "permanent injury")
	}
	if condition.Unconscious {
		fmt.Fprintln(out, "unconscious")
	}
	if condition.Dying {
		fmt.Fprintln(out, "dying")
	}
}

func printExperience(out io.Writer, exp *charService.ExperienceOutput) {
	if len(exp.Improvements) == 0 && exp.POWGain == 0 {
		fmt.Fprintln(out, "no experience checks pending")
		return
	}
	for _, imp := range exp.Improvements {
		if imp.Gain > 0 {
			fmt.Fprintf(out, "%s: rolled %02d, +%d\n", imp.Skill, imp.Roll, imp.Gain)
			continue
		}
		fmt.Fprintf(out, "%s: rolled %02d, no gain\n", imp.Skill, imp.Roll)
	}
	if exp.POWGain > 0 {
		fmt.Fprintf(out, "POW +%d\n", exp.POWGain)
	}
}
