package volume

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volumetry/dehnscan/internal/filling"
)

func TestParseSolverOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		tier Tier
		want Status
	}{
		{"base volume", "2.029883212819", TierBase, Hyperbolic},
		{"base below threshold", "0.5", TierBase, NonHyperbolic},
		{"base at threshold", "0.942", TierBase, Hyperbolic},
		{"prec not clamped", "0.5", TierPrec, Hyperbolic},
		{"nonhyperbolic word", "nonhyperbolic", TierBase, NonHyperbolic},
		{"nonhyperbolic case folded", "NonHyperbolic", TierHigh, NonHyperbolic},
		{"garbage", "not-a-number", TierBase, Failed},
		{"high garbage", "not-a-number", TierHigh, Failed},
		{"high volume", "2.029883212819307250042405108549040571883378615060599584034978214", TierHigh, Hyperbolic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSolverOutput(tt.out, tt.tier)
			if got.Status != tt.want {
				t.Errorf("parseSolverOutput(%q, %v).Status = %v, want %v", tt.out, tt.tier, got.Status, tt.want)
			}
		})
	}
}

func TestParseSolverOutputHighPrecision(t *testing.T) {
	// Two values agreeing to float64 but not at 212 bits must parse to
	// distinct big.Floats.
	a := parseSolverOutput("2.000000000000000000000000000000001", TierHigh)
	b := parseSolverOutput("2.000000000000000000000000000000002", TierHigh)
	require.Equal(t, Hyperbolic, a.Status)
	require.Equal(t, Hyperbolic, b.Status)
	assert.NotZero(t, a.Exact.Cmp(b.Exact))
	assert.Equal(t, uint(HighPrecBits), a.Exact.Prec())
}

func TestExecOracle(t *testing.T) {
	ctx := context.Background()
	f := filling.Filling{X: 1, Y: 2}

	t.Run("success", func(t *testing.T) {
		o := &ExecOracle{Command: "/bin/sh", Args: []string{"-c", "echo 2.5"}}
		r := o.Volume(ctx, "m003", f, TierBase)
		require.Equal(t, Hyperbolic, r.Status)
		assert.Equal(t, 2.5, r.Value)
	})

	t.Run("solver failure carries stderr", func(t *testing.T) {
		o := &ExecOracle{Command: "/bin/sh", Args: []string{"-c", "echo degenerate filling >&2; exit 3"}}
		r := o.Volume(ctx, "m003", f, TierBase)
		require.Equal(t, Failed, r.Status)
		assert.ErrorContains(t, r.Err, "degenerate filling")
	})

	t.Run("missing binary", func(t *testing.T) {
		o := NewExecOracle("/nonexistent/solver", time.Second)
		r := o.Volume(ctx, "m003", f, TierBase)
		assert.Equal(t, Failed, r.Status)
	})

	t.Run("arguments are passed through", func(t *testing.T) {
		// The solver sees manifold, x, y, bits after the wrapper args.
		o := &ExecOracle{Command: "/bin/sh", Args: []string{"-c", `test "$1 $2 $3 $4" = "m003 1 2 64" && echo 2.5 || echo bad >&2`, "solver"}}
		r := o.Volume(ctx, "m003", f, TierPrec)
		require.Equal(t, Hyperbolic, r.Status)
	})
}
