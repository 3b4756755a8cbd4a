package rulebook

import "github.com/KirkDiggler/brp-sheet/internal/domain/shared"

// AverageCharacteristic is the value that contributes nothing to a bonus
const AverageCharacteristic = 10

// CategoryBonus combines a primary, two secondary and one negative
// characteristic into a single modifier
func CategoryBonus(primary, secondary1, secondary2, negative int) int {
	return (primary - AverageCharacteristic) +
		shared.FloorDiv(secondary1-AverageCharacteristic, 2) +
		shared.FloorDiv(secondary2-AverageCharacteristic, 2) +
		(AverageCharacteristic - negative)
}

// CategoryBonuses computes the normal bonus for all six categories
func CategoryBonuses(s shared.Scores) shared.CategoryModifiers {
	return shared.CategoryModifiers{
		shared.CategoryCombat:        CategoryBonus(s.DEX, s.INT, s.STR, AverageCharacteristic),
		shared.CategoryCommunication: CategoryBonus(s.INT, s.POW, s.CHA, AverageCharacteristic),
		shared.CategoryManipulation:  CategoryBonus(s.DEX, s.INT, s.STR, AverageCharacteristic),
		shared.CategoryMental:        CategoryBonus(s.INT, s.POW, s.EDU, AverageCharacteristic),
		shared.CategoryPerception:    CategoryBonus(s.INT, s.POW, s.CON, AverageCharacteristic),
		shared.CategoryPhysical:      CategoryBonus(s.DEX, s.STR, s.CON, s.SIZ),
	}
}

// SimpleCategoryBonuses uses half of one governing characteristic per
// category, rounded up
func SimpleCategoryBonuses(s shared.Scores) shared.CategoryModifiers {
	return shared.CategoryModifiers{
		shared.CategoryCombat:        shared.CeilDiv(s.DEX, 2),
		shared.CategoryCommunication: shared.CeilDiv(s.CHA, 2),
		shared.CategoryManipulation:  shared.CeilDiv(s.DEX, 2),
		shared.CategoryMental:        shared.CeilDiv(s.INT, 2),
		shared.CategoryPerception:    shared.CeilDiv(s.POW, 2),
		shared.CategoryPhysical:      shared.CeilDiv(s.STR, 2),
	}
}

// SelectCategoryBonuses applies the optional rules in priority order. The
// normal bonus wins over the simple one; with neither every bonus is zero.
func SelectCategoryBonuses(s shared.Scores, useNormal, useSimple bool) shared.CategoryModifiers {
	switch {
	case useNormal:
		return CategoryBonuses(s)
	case useSimple:
		return SimpleCategoryBonuses(s)
	default:
		return shared.ZeroCategoryModifiers()
	}
}
