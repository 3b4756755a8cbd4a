package dice

// randomRoller implements Roller on top of a Source
type randomRoller struct {
	src Source
}

// NewRandomRoller creates a roller drawing from the process wide generator
func NewRandomRoller() Roller {
	return &randomRoller{src: NewGlobalSource()}
}

// NewRandomRollerWithSource creates a roller drawing from src
func NewRandomRollerWithSource(src Source) Roller {
	if src == nil {
		src = NewGlobalSource()
	}
	return &randomRoller{src: src}
}

func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	return sum(r.src, count, sides, bonus), nil
}

func (r *randomRoller) RollPercentile(advantage int) (*RollResult, error) {
	return percentile(r.src, advantage), nil
}
