package symmetry

import (
	"context"
	"fmt"
	"io"

	"github.com/volumetry/dehnscan/internal/filling"
	"github.com/volumetry/dehnscan/internal/volume"
)

// Verifier checks that every loaded symmetry actually preserves volume at the
// highest precision tier. It is an independent sanity pass over the database,
// decoupled from the coincidence search: a mismatch is a finding about the
// data, not a program fault.
type Verifier struct {
	Store  *Store
	Oracle volume.Oracle
}

// Violation is one symmetry that failed to preserve volume for a filling
// ratio (p, q).
type Violation struct {
	Manifold string
	Record   Record
	P, Q     int
}

// Check verifies every record of every manifold in the store against the
// filling ratio (p, q): the volume of M(n*p, n*q) must equal the volume of
// M(p*a+q*b, p*c+q*d) exactly at 212 bits. Oracle failures on both sides of a
// record are treated as agreement, since neither filling is hyperbolic.
func (v *Verifier) Check(ctx context.Context, p, q int) ([]Violation, error) {
	var violations []Violation
	for _, e := range v.Store.Entries() {
		for _, r := range e.Records {
			if err := ctx.Err(); err != nil {
				return violations, err
			}
			orig := v.Oracle.Volume(ctx, e.Manifold, filling.Filling{X: p * r.N, Y: q * r.N}, volume.TierHigh)
			sym := v.Oracle.Volume(ctx, e.Manifold, filling.Filling{X: p*r.A + q*r.B, Y: p*r.C + q*r.D}, volume.TierHigh)
			if !highPrecEqual(orig, sym) {
				violations = append(violations, Violation{Manifold: e.Manifold, Record: r, P: p, Q: q})
			}
		}
	}
	return violations, nil
}

func highPrecEqual(a, b volume.Result) bool {
	if a.Status != b.Status {
		return false
	}
	if a.Status != volume.Hyperbolic {
		return true
	}
	return a.Exact.Cmp(b.Exact) == 0
}

// Report writes the verification report for one (p, q) query: one error line
// per violation, or the single success line when there are none.
func Report(w io.Writer, p, q int, violations []Violation) {
	if len(violations) == 0 {
		fmt.Fprintf(w, "All symmetries verified for n(%d, %d).\n", p, q)
		return
	}
	for _, viol := range violations {
		fmt.Fprintf(w, "Symmetry error detected for %s at n(%d, %d).\n", viol.Manifold, viol.P, viol.Q)
	}
}
