package character

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// SanityResult reports a sanity roll
type SanityResult struct {
	Success bool
	Roll    int
	Loss    int
}

// SanityRoll rolls against current sanity and applies the matching loss.
// Losses are integers or NdM roll strings and are rolled once. A negative
// loss is rejected and leaves the sheet untouched.
func (c *Character) SanityRoll(lossOnSuccess, lossOnFail string) (*SanityResult, error) {
	roll, err := c.getDiceRoller().RollPercentile(0)
	if err != nil {
		return nil, err
	}

	result := &SanityResult{
		Roll:    roll.Total,
		Success: roll.Total <= c.Sanity,
	}
	amount := lossOnFail
	if result.Success {
		amount = lossOnSuccess
	}
	result.Loss, err = dice.Resolve(c.getDiceRoller(), amount)
	if err != nil {
		return nil, err
	}
	if result.Loss < 0 {
		return nil, brperr.Validationf("sanity loss cannot be negative: %d", result.Loss).
			WithMeta("loss", amount)
	}

	c.Sanity = clampSanity(c.Sanity - result.Loss)
	c.RecentSanityLoss += result.Loss
	if c.RecentSanityLoss >= c.TemporaryInsanityThreshold {
		c.TemporarilyInsane = true
	}
	if c.Sanity <= 0 {
		c.PermanentlyInsane = true
	}
	return result, nil
}

// SanityCeiling is the most sanity the character can hold. Forbidden
// knowledge lowers it for good.
func (c *Character) SanityCeiling() int {
	return rulebook.MaxSanity - c.SkillChance(rulebook.SkillBlasphemousLore)
}

// RecoverSanity restores sanity up to the ceiling and ends temporary
// insanity. Permanent insanity stays.
func (c *Character) RecoverSanity(amount string) (int, error) {
	recovered, err := dice.Resolve(c.getDiceRoller(), amount)
	if err != nil {
		return 0, err
	}
	if recovered < 0 {
		return 0, brperr.Validationf("sanity recovery cannot be negative: %d", recovered).
			WithMeta("amount", amount)
	}
	c.Sanity = clampSanity(min(c.Sanity+recovered, c.SanityCeiling()))
	c.TemporarilyInsane = false
	return c.Sanity, nil
}

// ResetRecentSanityLoss starts a new episode for the temporary insanity check
func (c *Character) ResetRecentSanityLoss() {
	c.RecentSanityLoss = 0
}

// ModifyFatigue adjusts fatigue without bounds
func (c *Character) ModifyFatigue(amount int) {
	c.Fatigue += amount
}

func clampSanity(sanity int) int {
	return min(max(sanity, 0), rulebook.MaxSanity)
}
