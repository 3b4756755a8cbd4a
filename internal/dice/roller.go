package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls count dice with the given sides and adds a bonus.
	// A non-positive count or size totals the bonus alone.
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollPercentile rolls |advantage|+1 percentile dice, keeping the lowest
	// when advantage is positive and the highest otherwise
	RollPercentile(advantage int) (*RollResult, error)
}
