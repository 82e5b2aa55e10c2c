package ticket

import "math"

// addUint64 returns a+b, failing with CodeIntegerOverflow instead of wrapping.
func addUint64(a, b uint64) (uint64, error) {
	if math.MaxUint64-a < b {
		return 0, NewError(CodeIntegerOverflow, "unsigned addition %d + %d overflows", a, b)
	}
	return a + b, nil
}

// mulUint64 returns a*b, failing with CodeIntegerOverflow instead of wrapping.
func mulUint64(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, NewError(CodeIntegerOverflow, "unsigned multiplication %d * %d overflows", a, b)
	}
	return a * b, nil
}
