// Package symmetry holds the known volume-formula symmetries of cusped
// manifolds: the record type, the flat-file database loader, the immutable
// in-memory store, and the high-precision verifier.
package symmetry

import (
	"errors"
	"fmt"

	"github.com/volumetry/dehnscan/internal/filling"
)

// ErrBadDeterminant is returned when a record violates a*d - b*c = n*n.
var ErrBadDeterminant = errors.New("symmetry: determinant does not equal n^2")

// Record is one symmetry of a manifold's volume formula. The five integers
// (a, b, c, d, n) encode the matrix
//
//	[a/n  b/n]
//	[c/n  d/n]
//
// in PSL(2, Q), with a*d - b*c = n^2. It acts on filling coefficients by
// (x, y) -> ((a*x + b*y)/n, (c*x + d*y)/n), defined only when both numerators
// are divisible by n.
type Record struct {
	A, B, C, D, N int
}

// Validate checks the determinant invariant. Every record in a well-formed
// database satisfies it; a violation means corrupt data, not a volume bug.
// Orientation-reversing symmetries carry determinant -n^2, so both signs are
// accepted.
func (r Record) Validate() error {
	if r.N <= 0 {
		return fmt.Errorf("%v: n must be positive: %w", r, ErrBadDeterminant)
	}
	det := r.A*r.D - r.B*r.C
	if det != r.N*r.N && det != -r.N*r.N {
		return fmt.Errorf("%v: %w", r, ErrBadDeterminant)
	}
	return nil
}

// Apply maps a filling through the record. ok is false when the image is not
// integral (x0 or y0 not divisible by n), in which case the record simply does
// not apply to that filling.
func (r Record) Apply(f filling.Filling) (image filling.Filling, ok bool) {
	x0 := r.A*f.X + r.B*f.Y
	y0 := r.C*f.X + r.D*f.Y
	if x0%r.N != 0 || y0%r.N != 0 {
		return filling.Filling{}, false
	}
	return filling.Filling{X: x0 / r.N, Y: y0 / r.N}, true
}

// String renders the record in the database form, e.g. "[0, 4, 1, 0, 2]".
func (r Record) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d, %d]", r.A, r.B, r.C, r.D, r.N)
}
