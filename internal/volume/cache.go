package volume

import (
	"context"

	"github.com/volumetry/dehnscan/internal/filling"
)

// Cache memoizes escalated-precision volumes per filling so the matcher never
// asks the oracle for the same tier of the same coefficients twice. Presence
// in the map is the "already computed" signal; there is no sentinel value, so
// failed computations are remembered too. A cache is scoped to one manifold.
type Cache struct {
	prec map[filling.Filling]Result
	high map[filling.Filling]Result
}

// NewCache returns an empty per-manifold cache.
func NewCache() *Cache {
	return &Cache{
		prec: make(map[filling.Filling]Result),
		high: make(map[filling.Filling]Result),
	}
}

// Prec returns the TierPrec volume of f, computing it through o on first use.
func (c *Cache) Prec(ctx context.Context, o Oracle, manifold string, f filling.Filling) Result {
	if r, ok := c.prec[f]; ok {
		return r
	}
	r := o.Volume(ctx, manifold, f, TierPrec)
	c.prec[f] = r
	return r
}

// High returns the TierHigh volume of f, computing it through o on first use.
func (c *Cache) High(ctx context.Context, o Oracle, manifold string, f filling.Filling) Result {
	if r, ok := c.high[f]; ok {
		return r
	}
	r := o.Volume(ctx, manifold, f, TierHigh)
	c.high[f] = r
	return r
}
