// Package volume defines the interface to the external hyperbolic-volume
// solver, the three precision tiers of the coincidence search, and the caches
// for escalated-precision results.
package volume

import (
	"context"
	"math/big"

	"github.com/volumetry/dehnscan/internal/filling"
)

// MinHyperbolicVolume is the volume of the Weeks manifold, the smallest
// closed hyperbolic 3-manifold. Base-tier results below it cannot belong to a
// hyperbolic filling and are classified NonHyperbolic.
const MinHyperbolicVolume = 0.942

// HighPrecBits is the mantissa width of the highest precision tier,
// about 63 decimal digits.
const HighPrecBits = 212

// Tier selects the numerical precision of a volume computation. Higher tiers
// cost more; the search escalates through them only to disambiguate
// near-coincidences.
type Tier int

const (
	// TierBase is the solver's default precision, roughly 10 significant
	// digits. Grid volumes are computed at this tier.
	TierBase Tier = iota
	// TierPrec is the 64-bit tier used for the first escalation.
	TierPrec
	// TierHigh is the 212-bit tier used for final confirmation.
	TierHigh
)

// Bits returns the mantissa width requested from the solver for the tier.
func (t Tier) Bits() int {
	switch t {
	case TierPrec:
		return 64
	case TierHigh:
		return HighPrecBits
	default:
		return 53
	}
}

func (t Tier) String() string {
	switch t {
	case TierBase:
		return "base"
	case TierPrec:
		return "prec"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Status classifies a volume computation. There is no sentinel value: a
// failure and a non-hyperbolic filling are distinct from any legitimate
// volume.
type Status int

const (
	// Hyperbolic means the solver produced a volume for a hyperbolic filling.
	Hyperbolic Status = iota
	// NonHyperbolic means the filling is valid but carries no complete
	// hyperbolic structure (or its volume fell below MinHyperbolicVolume).
	NonHyperbolic
	// Failed means the solver could not compute the filling at all.
	Failed
)

// Result is the outcome of one oracle call. Value is set for Hyperbolic
// results at TierBase and TierPrec; Exact carries the 212-bit value for
// Hyperbolic results at TierHigh. Err is set only for Failed results.
type Result struct {
	Status Status
	Value  float64
	Exact  *big.Float
	Err    error
}

// IsHyperbolic reports whether the result carries a usable volume.
func (r Result) IsHyperbolic() bool { return r.Status == Hyperbolic }

// Oracle computes hyperbolic volumes of Dehn fillings. Implementations must
// be safe for sequential reuse across manifolds; the search never calls an
// oracle concurrently.
type Oracle interface {
	// Volume computes the volume of the f-filling of the named manifold at
	// the given precision tier. Errors are reported through the Result, never
	// by panicking: a failed computation must not abort a batch scan.
	Volume(ctx context.Context, manifold string, f filling.Filling, tier Tier) Result
}
