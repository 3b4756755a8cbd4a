package character

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// Condition reports what a hit did. It is informational; the caller decides
// what happens next.
type Condition struct {
	Unconscious bool `json:"unconscious"`
	// MajorWoundTimer is set when a single hit caused a major wound and holds
	// the hit points left
	MajorWoundTimer *int            `json:"major_wound_timer,omitempty"`
	PermanentInjury bool            `json:"permanent_injury"`
	Disabled        shared.Location `json:"disabled,omitempty"`
	Maimed          shared.Location `json:"maimed,omitempty"`
	Severed         shared.Location `json:"severed,omitempty"`
	Dying           bool            `json:"dying"`
	// Absorbed is the damage stopped by armor
	Absorbed int `json:"absorbed"`
	Applied  int `json:"applied"`
}

func (c *Character) locationMax(target shared.Location) (int, error) {
	hp, ok := c.MaxHitPointsByLocation[target]
	if !ok {
		return 0, shared.UnknownLocation(target)
	}
	return hp, nil
}

func (c *Character) armorProtection() (int, error) {
	protection, err := dice.Resolve(c.getDiceRoller(), c.Equipment.ArmorProtection)
	if err != nil {
		return 0, brperr.Wrap(err, "failed to roll armor protection")
	}
	return protection, nil
}

func (c *Character) luckSkill() (skill.Skill, error) {
	luck, ok := c.Skills[rulebook.SkillLuck]
	if !ok {
		return nil, brperr.NotFoundf("character has no %s skill", rulebook.SkillLuck).
			WithMeta("skill", rulebook.SkillLuck)
	}
	return luck, nil
}

// luckFails rolls Luck with the lucky rule and reports a failure
func luckFails(luck skill.Skill, roller dice.Roller) (bool, error) {
	result, err := luck.Roll(roller, &skill.RollOptions{Lucky: true})
	if err != nil {
		return false, err
	}
	return result.Failure, nil
}

// TakeDamage applies a hit. An empty target is general damage; otherwise the
// hit lands on that body location.
func (c *Character) TakeDamage(amount int, bypassArmor bool, target shared.Location) (*Condition, error) {
	condition := &Condition{}

	var locationMax int
	if target != shared.LocationNone {
		var err error
		if locationMax, err = c.locationMax(target); err != nil {
			return nil, err
		}
	}

	if !bypassArmor {
		protection, err := c.armorProtection()
		if err != nil {
			return nil, err
		}
		condition.Absorbed = min(max(protection, 0), max(amount, 0))
		amount -= protection
	}
	if amount <= 0 {
		return condition, nil
	}
	condition.Applied = amount

	if target == shared.LocationNone {
		return condition, c.takeGeneralDamage(amount, condition)
	}
	c.takeLocatedDamage(amount, target, locationMax, condition)
	return condition, nil
}

// takeGeneralDamage makes every Luck roll before touching the sheet, so a
// missing Luck skill or a failed roll leaves it as it was
func (c *Character) takeGeneralDamage(amount int, condition *Condition) error {
	damage := c.Damage + amount
	minor := !c.MinorWound && damage >= c.MajorWoundLevel
	major := amount >= c.MajorWoundLevel

	var knockedOut, injured bool
	if minor || major {
		luck, err := c.luckSkill()
		if err != nil {
			return err
		}
		experience := luck.Base().Experience
		if minor {
			if knockedOut, err = luckFails(luck, c.getDiceRoller()); err != nil {
				luck.Base().Experience = experience
				return err
			}
		}
		if major {
			if injured, err = luckFails(luck, c.getDiceRoller()); err != nil {
				luck.Base().Experience = experience
				return err
			}
		}
	}

	c.Damage = damage
	if minor {
		c.MinorWound = true
		condition.Unconscious = knockedOut
	}
	if major {
		c.MajorWound = true
		timer := c.MaxHitPoints - c.Damage
		condition.MajorWoundTimer = &timer
		condition.PermanentInjury = injured
	}

	if c.Damage >= c.MaxHitPoints {
		c.FatalWound = true
		condition.Unconscious = true
		condition.Dying = true
	}
	return nil
}

func (c *Character) takeLocatedDamage(amount int, target shared.Location, locationMax int, condition *Condition) {
	remaining := c.MaxHitPoints - c.Damage
	if remaining <= 2 {
		condition.Unconscious = true
	}
	if remaining <= 0 {
		condition.Dying = true
	}

	if c.LocationDamage == nil {
		c.LocationDamage = make(map[shared.Location]int)
	}
	c.LocationDamage[target] += amount
	c.Damage += min(amount, 2*locationMax)

	taken := c.LocationDamage[target]
	if taken >= locationMax {
		condition.Disabled = target
	}
	if taken >= 2*locationMax {
		condition.Unconscious = true
	}
	if taken >= 3*locationMax {
		condition.Maimed = target
	}
	if taken >= 4*locationMax {
		condition.Severed = target
	}
}

// HealDamage removes damage from the general pool and, when a target is
// given, from that location. healWounds clears every wound flag.
func (c *Character) HealDamage(amount int, healWounds bool, target shared.Location) error {
	if amount < 0 {
		return brperr.InvalidArgumentf("cannot heal a negative amount, got %d", amount)
	}
	if target != shared.LocationNone {
		if _, err := c.locationMax(target); err != nil {
			return err
		}
	}

	c.Damage = max(0, c.Damage-amount)
	if healWounds {
		c.MinorWound = false
		c.MajorWound = false
		c.FatalWound = false
	}
	if target != shared.LocationNone {
		c.LocationDamage[target] = max(0, c.LocationDamage[target]-amount)
	}
	return nil
}
