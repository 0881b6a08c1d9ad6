package scan

import (
	"context"
	"log"
	"math/big"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/volumetry/dehnscan/internal/filling"
	"github.com/volumetry/dehnscan/internal/symmetry"
	"github.com/volumetry/dehnscan/internal/volume"
)

// Matcher finds pairs of Dehn fillings whose volumes coincide but are not
// related by any known symmetry of the manifold's volume formula.
//
// The search walks the grid in row-major order (x then y), using each
// unprocessed hyperbolic cell as an anchor. Raw candidates are every cell
// within Tolerance of the anchor's base-precision volume; candidates that are
// symmetry images of the anchor are removed and remembered so they never
// anchor a later pass. Survivors are escalated twice, first to the 64-bit
// tier against PrecTolerance and then to the 212-bit tier against
// HighTolerance: distinct fillings can agree to 1e-9 by numerical accident,
// and the cheap tier rejects most accidents before the expensive one runs.
//
// The traversal order is part of the contract: the exclusion set and the
// group cap make the scan stateful, so a different order can report different
// groups.
type Matcher struct {
	Oracle volume.Oracle

	// Tolerance is the base-tier matching width; PrecTolerance and
	// HighTolerance gate the two escalations.
	Tolerance     float64
	PrecTolerance float64
	HighTolerance *big.Float

	// GroupCap stops the scan once this many unexplained groups have been
	// found, the signal that unidentified symmetries likely exist.
	GroupCap int

	// Logf receives inline diagnostics for failed escalations. Defaults to
	// log.Printf.
	Logf func(format string, v ...interface{})
}

// Default matcher parameters. The escalation thresholds follow the precision
// of the tiers they guard: 64-bit values agree to about 1e-15, 212-bit values
// to about 1e-63.
const (
	DefaultTolerance     = 1e-9
	DefaultPrecTolerance = 1e-15
	DefaultHighTolerance = "1e-62"
	DefaultGroupCap      = 5
)

// NewMatcher returns a matcher with the default thresholds.
func NewMatcher(o volume.Oracle) *Matcher {
	return &Matcher{
		Oracle:        o,
		Tolerance:     DefaultTolerance,
		PrecTolerance: DefaultPrecTolerance,
		HighTolerance: MustParseHighTolerance(DefaultHighTolerance),
		GroupCap:      DefaultGroupCap,
	}
}

// MustParseHighTolerance parses a decimal threshold such as "1e-62" at the
// high tier's full precision. It panics on malformed input and is intended
// for constants and validated configuration.
func MustParseHighTolerance(s string) *big.Float {
	tol, _, err := big.ParseFloat(s, 10, volume.HighPrecBits, big.ToNearestEven)
	if err != nil {
		panic("scan: bad high tolerance " + s + ": " + err.Error())
	}
	return tol
}

// Group is one unexplained coincidence: the anchor together with every
// filling whose volume survived both precision escalations, plus the
// symmetry-explained fillings echoed for context in the report.
type Group struct {
	Anchor filling.Filling

	// Matches holds the confirmed coincident fillings in grid order,
	// including the anchor itself.
	Matches []filling.Filling

	// Explained holds the symmetry images of the anchor that were removed
	// from the candidate set, in discovery order.
	Explained []filling.Filling
}

// String renders the group the way the report prints it: confirmed matches
// followed by the symmetry-explained fillings.
func (g Group) String() string {
	out := "["
	for i, f := range g.Matches {
		if i > 0 {
			out += ", "
		}
		out += f.String()
	}
	for _, f := range g.Explained {
		out += ", " + f.String()
	}
	return out + "]"
}

func (m *Matcher) logf(format string, v ...interface{}) {
	if m.Logf != nil {
		m.Logf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// Scan searches the grid for unexplained coincidence groups. capped reports
// whether the scan stopped early at GroupCap. The only error returned is
// context cancellation; oracle failures degrade to rejected candidates.
func (m *Matcher) Scan(ctx context.Context, manifold string, g *Grid, syms []symmetry.Record, cache *volume.Cache) (groups []Group, capped bool, err error) {
	numb := g.Numb()
	rows, cols := g.Dims()
	excluded := make(map[filling.Filling]struct{})

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if err := ctx.Err(); err != nil {
				return groups, false, err
			}
			anchor := g.fillingAt(row, col)
			anchorVol, ok := g.Volume(anchor)
			if !ok {
				continue
			}
			if _, done := excluded[anchor]; done {
				continue
			}

			flags := g.matchFlags(anchorVol, m.Tolerance)

			// Remove candidates that the known symmetries already explain,
			// and retire them from future anchoring whether or not their
			// volumes matched.
			explained := m.excludeSymmetric(anchor, syms, numb, g, flags)
			for _, e := range explained {
				excluded[e] = struct{}{}
			}

			flagged := flaggedFillings(g, flags)
			if len(flagged) <= 1 {
				continue
			}

			confirmed := m.escalate(ctx, manifold, anchor, flagged, cache, excluded)
			if len(confirmed) <= 1 {
				continue
			}

			groups = append(groups, Group{Anchor: anchor, Matches: confirmed, Explained: explained})
			if len(groups) >= m.GroupCap {
				return groups, true, nil
			}
		}
	}
	return groups, false, nil
}

// excludeSymmetric computes the canonical symmetry images of the anchor that
// land inside the grid, clears their match flags, and returns them
// deduplicated in discovery order.
func (m *Matcher) excludeSymmetric(anchor filling.Filling, syms []symmetry.Record, numb int, g *Grid, flags []bool) []filling.Filling {
	var explained []filling.Filling
	for _, r := range syms {
		image, ok := r.Apply(anchor)
		if !ok {
			// Non-integral image: the record does not apply to this anchor.
			continue
		}
		can := image.Canonical()
		if !can.InRange(numb) || can == anchor {
			continue
		}
		row, col := g.cell(can)
		flags[row*(numb+1)+col] = false
		if !containsFilling(explained, can) {
			explained = append(explained, can)
		}
	}
	return explained
}

// escalate confirms or rejects each flagged candidate against the anchor at
// the two higher precision tiers. Confirmed candidates join the exclusion set
// so they never open a search of their own. The returned slice keeps grid
// order and includes the anchor.
func (m *Matcher) escalate(ctx context.Context, manifold string, anchor filling.Filling, flagged []filling.Filling, cache *volume.Cache, excluded map[filling.Filling]struct{}) []filling.Filling {
	anchorPrec := cache.Prec(ctx, m.Oracle, manifold, anchor)
	if anchorPrec.Status == volume.Failed {
		m.logf("%s: prec volume error for %v: %v", manifold, anchor, anchorPrec.Err)
	}

	var anchorHigh volume.Result
	anchorHighDone := false

	confirmed := make([]filling.Filling, 0, len(flagged))
	for _, cand := range flagged {
		if cand == anchor {
			confirmed = append(confirmed, cand)
			continue
		}
		candPrec := cache.Prec(ctx, m.Oracle, manifold, cand)
		if candPrec.Status == volume.Failed {
			m.logf("%s: prec volume error for %v: %v", manifold, cand, candPrec.Err)
		}
		if !withinFloat(anchorPrec, candPrec, m.PrecTolerance) {
			continue
		}

		// The anchor's 212-bit volume is computed once, on the first
		// candidate that survives the 64-bit filter.
		if !anchorHighDone {
			anchorHigh = cache.High(ctx, m.Oracle, manifold, anchor)
			anchorHighDone = true
			if anchorHigh.Status == volume.Failed {
				m.logf("%s: high prec volume error for %v: %v", manifold, anchor, anchorHigh.Err)
			}
		}
		candHigh := cache.High(ctx, m.Oracle, manifold, cand)
		if candHigh.Status == volume.Failed {
			m.logf("%s: high prec volume error for %v: %v", manifold, cand, candHigh.Err)
		}
		if !withinBig(anchorHigh, candHigh, m.HighTolerance) {
			continue
		}

		confirmed = append(confirmed, cand)
		excluded[cand] = struct{}{}
	}
	return confirmed
}

// withinFloat reports whether two escalated results agree within tol. A
// result without a usable volume never agrees.
func withinFloat(a, b volume.Result, tol float64) bool {
	if !a.IsHyperbolic() || !b.IsHyperbolic() {
		return false
	}
	return scalar.EqualWithinAbs(a.Value, b.Value, tol)
}

func withinBig(a, b volume.Result, tol *big.Float) bool {
	if !a.IsHyperbolic() || !b.IsHyperbolic() {
		return false
	}
	d := new(big.Float).SetPrec(volume.HighPrecBits)
	d.Sub(a.Exact, b.Exact)
	d.Abs(d)
	return d.Cmp(tol) <= 0
}

// flaggedFillings collects the flagged cells in grid order.
func flaggedFillings(g *Grid, flags []bool) []filling.Filling {
	rows, cols := g.Dims()
	var out []filling.Filling
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if flags[row*cols+col] {
				out = append(out, g.fillingAt(row, col))
			}
		}
	}
	return out
}

func containsFilling(fs []filling.Filling, f filling.Filling) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}
