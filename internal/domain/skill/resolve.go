package skill

import (
	"math"

	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// RollOptions carries everything the roller of a skill contributes
type RollOptions struct {
	CategoryBonus shared.CategoryModifiers
	ArmorPenalty  shared.CategoryModifiers
	// Fatigue only counts when negative
	Fatigue int
	// Difficulty multiplies the chance. 2 is an easy roll, 0.5 a hard one.
	// Zero means 1.
	Difficulty float64
	Modifier   int
	// Advantage above zero keeps the best of several dice, below zero the worst
	Advantage int
	// Lucky lets a skill with no chance succeed on a roll of 1
	Lucky bool
}

// Rank orders outcomes for opposed rolls
type Rank int

const (
	RankFumble Rank = iota + 1
	RankFailure
	RankSuccess
	RankSpecial
	RankCritical
)

func (r Rank) String() string {
	switch r {
	case RankFumble:
		return "fumble"
	case RankFailure:
		return "failure"
	case RankSuccess:
		return "success"
	case RankSpecial:
		return "special"
	case RankCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Result is a graded roll. Fumble implies Failure; Critical implies Special
// implies Success.
type Result struct {
	Fumble   bool
	Failure  bool
	Success  bool
	Special  bool
	Critical bool
	// Lucky marks a success granted by the lucky rule
	Lucky bool
	Roll  int
	Total int
}

// Rank grades the result
func (r *Result) Rank() Rank {
	switch {
	case r.Fumble:
		return RankFumble
	case r.Failure:
		return RankFailure
	case r.Critical:
		return RankCritical
	case r.Special:
		return RankSpecial
	default:
		return RankSuccess
	}
}

// FumbleThreshold is the lowest raw roll that fumbles at the given chance.
// The band narrows as the chance grows and is empty above 100.
func FumbleThreshold(chance int) int {
	return 100 - shared.FloorDiv(100-chance, 20)
}

// Resolve rolls s once
func Resolve(roller dice.Roller, s Skill, opts *RollOptions) (*Result, error) {
	if roller == nil {
		return nil, brperr.InvalidArgument("dice roller is required")
	}
	if s == nil || s.Base() == nil {
		return nil, brperr.InvalidArgument("skill is required")
	}
	if opts == nil {
		opts = &RollOptions{}
	}

	base := s.Base()
	difficulty := opts.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	fatigue := min(opts.Fatigue, 0)

	pct, err := roller.RollPercentile(opts.Advantage)
	if err != nil {
		return nil, brperr.Wrapf(err, "failed to roll %s", base.Name)
	}
	roll := pct.Total

	result := &Result{Roll: roll, Failure: true}

	if base.Chance == 0 && roll == 1 && opts.Lucky {
		result.Failure = false
		result.Success = true
		result.Lucky = true
		result.Total = roll
		return result, nil
	}

	result.Total = roll +
		opts.CategoryBonus.Get(base.Category) -
		opts.ArmorPenalty.Get(base.Category) +
		opts.Modifier +
		fatigue

	if roll >= FumbleThreshold(base.Chance) {
		result.Fumble = true
		return result, nil
	}

	target := difficulty * float64(base.Chance)
	if float64(result.Total) > target {
		return result, nil
	}

	result.Failure = false
	result.Success = true
	if base.Improvable {
		base.Experience = ExperiencePending
	}
	if float64(result.Total) <= math.Ceil(target/5) {
		result.Special = true
		if float64(result.Total) <= math.Ceil(target/20) {
			result.Critical = true
		}
	}

	return result, nil
}
