package volume

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volumetry/dehnscan/internal/filling"
)

func TestCacheComputesThrough(t *testing.T) {
	o := NewTableOracle()
	f := filling.Filling{X: 1, Y: 2}
	o.Set("m003", f, "2.5")
	c := NewCache()
	ctx := context.Background()

	r1 := c.Prec(ctx, o, "m003", f)
	r2 := c.Prec(ctx, o, "m003", f)
	require.Equal(t, Hyperbolic, r1.Status)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, o.Calls[TierPrec], "second lookup must hit the cache")

	h1 := c.High(ctx, o, "m003", f)
	h2 := c.High(ctx, o, "m003", f)
	require.Equal(t, Hyperbolic, h1.Status)
	assert.Zero(t, h1.Exact.Cmp(h2.Exact))
	assert.Equal(t, 1, o.Calls[TierHigh])
}

func TestCacheTiersAreIndependent(t *testing.T) {
	o := NewTableOracle()
	f := filling.Filling{X: 1, Y: 1}
	o.Set("m003", f, "3.0")
	c := NewCache()
	ctx := context.Background()

	c.Prec(ctx, o, "m003", f)
	c.High(ctx, o, "m003", f)
	assert.Equal(t, 1, o.Calls[TierPrec])
	assert.Equal(t, 1, o.Calls[TierHigh])
}

func TestCacheRemembersFailures(t *testing.T) {
	// A failed computation is cached too: there is no sentinel value that
	// could be confused with "not yet computed".
	o := NewTableOracle()
	f := filling.Filling{X: 7, Y: 7}
	c := NewCache()
	ctx := context.Background()

	r1 := c.Prec(ctx, o, "m003", f)
	r2 := c.Prec(ctx, o, "m003", f)
	assert.Equal(t, Failed, r1.Status)
	assert.Equal(t, Failed, r2.Status)
	assert.Equal(t, 1, o.Calls[TierPrec])
}
