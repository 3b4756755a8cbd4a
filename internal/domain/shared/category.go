package shared

// Category groups skills that share a characteristic driven bonus
type Category string

const (
	// CategoryNone is used by characteristic rolls, which take no bonus
	CategoryNone          Category = ""
	CategoryCombat        Category = "combat"
	CategoryCommunication Category = "communication"
	CategoryManipulation  Category = "manipulation"
	CategoryMental        Category = "mental"
	CategoryPerception    Category = "perception"
	CategoryPhysical      Category = "physical"
)

// Categories lists the six skill categories
var Categories = []Category{
	CategoryCombat,
	CategoryCommunication,
	CategoryManipulation,
	CategoryMental,
	CategoryPerception,
	CategoryPhysical,
}

// CategoryModifiers maps a category to a roll modifier. Missing categories
// count as zero.
type CategoryModifiers map[Category]int

// Get returns the modifier for c, zero when absent or when m is nil
func (m CategoryModifiers) Get(c Category) int {
	if m == nil {
		return 0
	}
	return m[c]
}

// ZeroCategoryModifiers returns a map holding zero for every category
func ZeroCategoryModifiers() CategoryModifiers {
	out := make(CategoryModifiers, len(Categories))
	for _, c := range Categories {
		out[c] = 0
	}
	return out
}

// Clone returns an independent copy
func (m CategoryModifiers) Clone() CategoryModifiers {
	if m == nil {
		return nil
	}
	out := make(CategoryModifiers, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
