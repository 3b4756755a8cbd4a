package dice

import (
	"strconv"
	"strings"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// ParseRollString splits a roll string of the form "NdM" (any case) into its
// count and sides
func ParseRollString(roll string) (count, sides int, err error) {
	parts := strings.Split(strings.ToLower(roll), "d")
	if len(parts) != 2 {
		return 0, 0, invalidRollString(roll)
	}

	count, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, invalidRollString(roll)
	}
	sides, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, invalidRollString(roll)
	}

	return count, sides, nil
}

// RollString parses an "NdM" string and rolls it with r
func RollString(r Roller, roll string) (*RollResult, error) {
	count, sides, err := ParseRollString(roll)
	if err != nil {
		return nil, err
	}
	return r.Roll(count, sides, 0)
}

// Resolve turns an amount into a number. Plain integers are returned as is;
// anything else is rolled as a dice string. A leading minus negates the
// rolled dice, so damage modifiers such as "-1d4" resolve to a penalty.
func Resolve(r Roller, amount string) (int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, nil
	}
	if value, err := strconv.Atoi(amount); err == nil {
		return value, nil
	}

	sign := 1
	switch {
	case strings.HasPrefix(amount, "-"):
		sign = -1
		amount = amount[1:]
	case strings.HasPrefix(amount, "+"):
		amount = amount[1:]
	}

	result, err := RollString(r, amount)
	if err != nil {
		return 0, err
	}
	return sign * result.Total, nil
}

func invalidRollString(roll string) error {
	return brperr.Parsef("%s is not a valid string roll", roll).WithMeta("roll", roll)
}
