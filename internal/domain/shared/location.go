package shared

import brperr "github.com/KirkDiggler/brp-sheet/internal/errors"

// Location is a body location with its own hit point pool
type Location string

const (
	LocationNone     Location = ""
	LocationLeftLeg  Location = "left_leg"
	LocationRightLeg Location = "right_leg"
	LocationAbdomen  Location = "abdomen"
	LocationChest    Location = "chest"
	LocationLeftArm  Location = "left_arm"
	LocationRightArm Location = "right_arm"
	LocationHead     Location = "head"
)

// Locations lists the humanoid hit locations
var Locations = []Location{
	LocationLeftLeg,
	LocationRightLeg,
	LocationAbdomen,
	LocationChest,
	LocationLeftArm,
	LocationRightArm,
	LocationHead,
}

// UnknownLocation builds the error returned for a location a character does
// not track
func UnknownLocation(target Location) error {
	return brperr.Validationf("body location %q is not tracked", string(target)).
		WithMeta("location", string(target))
}
