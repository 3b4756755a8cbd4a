package shared

// FloorDiv divides rounding toward negative infinity, so (9-10)/2 is -1
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv divides rounding toward positive infinity
func CeilDiv(a, b int) int {
	return -FloorDiv(-a, b)
}
