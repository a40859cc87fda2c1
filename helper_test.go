package ofs

import (
	"fmt"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// floatEqual compares within a relative tolerance, falling back to an
// absolute one near zero where relative comparisons reject rounding residue.
func floatEqual(a, b float64) bool {
	if math.Max(math.Abs(a), math.Abs(b)) < 1e-6 {
		return true
	}
	return floats.EqualWithinRel(a, b, 1e-3)
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floatEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}
