package skill

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// DefaultImprovementDie is the die rolled for experience gains
const DefaultImprovementDie = 6

// Improvement reports a spent experience check
type Improvement struct {
	Skill string
	// Checked is false when there was nothing to spend
	Checked bool
	Roll    int
	Gain    int
}

// ExperienceRoll spends a pending experience check on s. The roll plus half
// of INT, rounded up, must meet the chance (capped at 100) for the skill to
// grow by 1d improvementDie. The check returns to idle either way.
func ExperienceRoll(roller dice.Roller, s Skill, intelligence, improvementDie int) (*Improvement, error) {
	if s == nil || s.Base() == nil {
		return nil, brperr.InvalidArgument("skill is required")
	}
	base := s.Base()
	out := &Improvement{Skill: base.Name}

	if base.Experience != ExperiencePending {
		return out, nil
	}
	if !base.Improvable {
		base.Experience = ExperienceIdle
		return out, nil
	}
	if roller == nil {
		return nil, brperr.InvalidArgument("dice roller is required")
	}

	pct, err := roller.RollPercentile(0)
	if err != nil {
		return nil, brperr.Wrapf(err, "failed experience roll for %s", base.Name)
	}
	out.Checked = true
	out.Roll = pct.Total

	if pct.Total+shared.CeilDiv(intelligence, 2) >= min(base.Chance, 100) {
		gain, err := roller.Roll(1, improvementDie, 0)
		if err != nil {
			return nil, brperr.Wrapf(err, "failed improvement roll for %s", base.Name)
		}
		out.Gain = gain.Total
		base.Improve(gain.Total)
	}

	base.Experience = ExperienceIdle
	return out, nil
}
