package rulebook

import (
	"fmt"

	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
)

// MaxSanity is the ceiling for sanity before forbidden knowledge lowers it
const MaxSanity = 100

// Derived holds the attributes computed once when a character is built
type Derived struct {
	DamageModifier             string
	MaxHitPoints               int
	MajorWoundLevel            int
	MaxHitPointsByLocation     map[shared.Location]int
	Fatigue                    int
	Sanity                     int
	TemporaryInsanityThreshold int
	PowerPoints                int
}

// Derive computes every derived attribute. tough selects the optional total
// hit points rule.
func Derive(s shared.Scores, tough bool) Derived {
	hp := HitPoints(s.CON, s.SIZ, tough)
	sanity := StartingSanity(s.POW)
	return Derived{
		DamageModifier:             DamageModifier(s.STR, s.SIZ),
		MaxHitPoints:               hp,
		MajorWoundLevel:            MajorWoundLevel(hp),
		MaxHitPointsByLocation:     LocationHitPoints(hp),
		Fatigue:                    s.STR + s.CON,
		Sanity:                     sanity,
		TemporaryInsanityThreshold: TemporaryInsanityThreshold(sanity),
		PowerPoints:                s.POW,
	}
}

// DamageModifier is the dice string added to melee damage for STR+SIZ
func DamageModifier(str, siz int) string {
	s := str + siz
	switch {
	case s <= 12:
		return "-1d6"
	case s <= 16:
		return "-1d4"
	case s <= 24:
		return "0"
	case s <= 32:
		return "1d4"
	case s <= 40:
		return "1d6"
	default:
		return fmt.Sprintf("%dd6", (s-41)/16+2)
	}
}

func HitPoints(con, siz int, tough bool) int {
	if tough {
		return con + siz
	}
	return shared.CeilDiv(con+siz, 2)
}

func MajorWoundLevel(maxHP int) int {
	return shared.CeilDiv(maxHP, 2)
}

// LocationHitPoints splits max hit points over the body locations
func LocationHitPoints(maxHP int) map[shared.Location]int {
	third := shared.CeilDiv(maxHP, 3)
	quarter := shared.CeilDiv(maxHP, 4)
	return map[shared.Location]int{
		shared.LocationLeftLeg:  third,
		shared.LocationRightLeg: third,
		shared.LocationAbdomen:  third,
		shared.LocationHead:     third,
		shared.LocationLeftArm:  quarter,
		shared.LocationRightArm: quarter,
		shared.LocationChest:    shared.CeilDiv(2*maxHP, 5),
	}
}

func StartingSanity(pow int) int {
	return min(5*pow, MaxSanity)
}

// TemporaryInsanityThreshold is the recent loss that drives a character
// temporarily insane
func TemporaryInsanityThreshold(sanity int) int {
	return shared.CeilDiv(sanity, 2)
}
