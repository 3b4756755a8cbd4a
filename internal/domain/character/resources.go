package character

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// WeaponSlot selects one of the carried weapons
type WeaponSlot string

const (
	WeaponPrimary   WeaponSlot = "primary"
	WeaponSecondary WeaponSlot = "secondary"
	WeaponRanged    WeaponSlot = "ranged"
)

// WeaponDamage is a rolled weapon hit
type WeaponDamage struct {
	Weapon   int
	Modifier int
	Total    int
}

// RollWeaponDamage rolls the weapon in slot. Hand weapons add the damage
// modifier; ranged weapons do not.
func (c *Character) RollWeaponDamage(slot WeaponSlot) (*WeaponDamage, error) {
	var weapon string
	switch slot {
	case WeaponPrimary:
		weapon = c.Equipment.PrimaryWeapon
	case WeaponSecondary:
		weapon = c.Equipment.SecondaryWeapon
	case WeaponRanged:
		weapon = c.Equipment.RangedWeapon
	default:
		return nil, brperr.Validationf("weapon slot %q is not valid", string(slot)).
			WithMeta("slot", string(slot))
	}

	out := &WeaponDamage{}
	var err error
	if out.Weapon, err = dice.Resolve(c.getDiceRoller(), weapon); err != nil {
		return nil, err
	}
	if slot != WeaponRanged {
		if out.Modifier, err = dice.Resolve(c.getDiceRoller(), c.DamageModifier); err != nil {
			return nil, err
		}
	}
	out.Total = max(out.Weapon+out.Modifier, 0)
	return out, nil
}

// SpendPowerPoints pays for a power
func (c *Character) SpendPowerPoints(amount int) error {
	if amount < 0 {
		return brperr.InvalidArgumentf("cannot spend a negative amount, got %d", amount)
	}
	if amount > c.PowerPoints {
		return brperr.InvalidArgumentf("not enough power points: have %d, need %d", c.PowerPoints, amount).
			WithMeta("power_points", c.PowerPoints)
	}
	c.PowerPoints -= amount
	return nil
}

// RegainPowerPoints restores power points up to the maximum
func (c *Character) RegainPowerPoints(amount int) {
	c.PowerPoints = min(max(c.PowerPoints+amount, 0), c.MaxPowerPoints)
}
