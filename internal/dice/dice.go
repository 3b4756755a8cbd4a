// Package dice is the randomness source for the rules engine: percentile
// rolls with advantage, sums of NdM and parsing of "NdM" roll strings.
package dice

import (
	"fmt"
	"strings"
)

// PercentileSides is the size of the percentile die
const PercentileSides = 100

type RollResult struct {
	// Total is the kept value plus the bonus. For a plain roll every die is
	// kept; for a percentile roll only the selected die is.
	Total int
	// Rolls holds every die rolled, in order
	Rolls []int
	Bonus int
	Count int
	Sides int
	// RawTotal is Total without the bonus
	RawTotal int
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Bonus != 0 {
		return fmt.Sprintf("%dd%d%+d %s = %d", r.Count, r.Sides, r.Bonus, compact, r.Total)
	}
	return fmt.Sprintf("%dd%d %s = %d", r.Count, r.Sides, compact, r.Total)
}

// sum rolls count dice of the given sides from src. A non-positive count or
// size rolls nothing and totals zero.
func sum(src Source, count, sides, bonus int) *RollResult {
	result := &RollResult{
		Bonus: bonus,
		Count: count,
		Sides: sides,
	}
	if count < 1 || sides < 1 {
		result.Total = bonus
		return result
	}

	result.Rolls = make([]int, count)
	for i := 0; i < count; i++ {
		roll := src.Intn(sides) + 1
		result.Rolls[i] = roll
		result.RawTotal += roll
	}
	result.Total = result.RawTotal + bonus
	return result
}

// percentile rolls |advantage|+1 percentile dice from src. Positive advantage
// keeps the lowest die, anything else keeps the highest.
func percentile(src Source, advantage int) *RollResult {
	return Select(drawPercentile(src, advantage), advantage)
}

func drawPercentile(src Source, advantage int) []int {
	count := advantage
	if count < 0 {
		count = -count
	}
	count++

	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = src.Intn(PercentileSides) + 1
	}
	return rolls
}

// Select builds a percentile result from already rolled dice using the
// advantage rule. It is shared by every Roller implementation.
func Select(rolls []int, advantage int) *RollResult {
	kept := 0
	for i, roll := range rolls {
		switch {
		case i == 0:
			kept = roll
		case advantage > 0 && roll < kept:
			kept = roll
		case advantage <= 0 && roll > kept:
			kept = roll
		}
	}

	return &RollResult{
		Total:    kept,
		Rolls:    rolls,
		Count:    len(rolls),
		Sides:    PercentileSides,
		RawTotal: kept,
	}
}
