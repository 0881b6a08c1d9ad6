// Package filling provides the integer coefficient pairs that identify Dehn
// fillings, together with the canonicalization rules used by the search grid.
package filling

import "fmt"

// Filling is a Dehn-filling slope (x, y). The search space is folded by the
// central symmetry (x, y) ~ (-x, -y): y ranges over non-negative integers,
// and on the y = 0 axis only non-negative x is kept because (x, 0) and
// (-x, 0) are the same filling.
type Filling struct {
	X, Y int
}

// Canonical maps a filling to its representative under the central-symmetry
// identification: y > 0 is kept as is, y < 0 is negated, and y = 0 takes the
// non-negative x. Applying Canonical twice yields the same result as once.
func (f Filling) Canonical() Filling {
	switch {
	case f.Y > 0:
		return f
	case f.Y < 0:
		return Filling{X: -f.X, Y: -f.Y}
	case f.X < 0:
		return Filling{X: -f.X, Y: 0}
	default:
		return f
	}
}

// InRange reports whether the filling lies inside the search grid of
// half-width numb: x in [-numb, numb], y in [0, numb].
func (f Filling) InRange(numb int) bool {
	return f.X >= -numb && f.X <= numb && f.Y >= 0 && f.Y <= numb
}

// String renders the filling in the bracketed report form, e.g. "[3, 1]".
func (f Filling) String() string {
	return fmt.Sprintf("[%d, %d]", f.X, f.Y)
}
