package volume

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/volumetry/dehnscan/internal/filling"
)

// NonHyperbolicOutput is the word the solver prints on stdout when a filling
// carries no complete hyperbolic structure.
const NonHyperbolicOutput = "nonhyperbolic"

// ExecOracle computes volumes by invoking an external solver binary once per
// call. The solver contract: it receives the manifold name, the two filling
// coefficients and the requested mantissa bits as arguments, prints a single
// decimal number (or the word "nonhyperbolic") on stdout, and exits non-zero
// when the computation fails.
type ExecOracle struct {
	// Command is the solver binary; Args are placed before the computed
	// arguments, so wrapper invocations like {"python", "-m", "snapvol"} work.
	Command string
	Args    []string

	// Timeout bounds a single solver invocation. Zero means no limit beyond
	// the caller's context.
	Timeout time.Duration
}

// NewExecOracle returns an oracle running the given solver command.
func NewExecOracle(command string, timeout time.Duration) *ExecOracle {
	return &ExecOracle{Command: command, Timeout: timeout}
}

// Volume implements Oracle.
func (o *ExecOracle) Volume(ctx context.Context, manifold string, f filling.Filling, tier Tier) Result {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(o.Args)+4)
	args = append(args, o.Args...)
	args = append(args, manifold, strconv.Itoa(f.X), strconv.Itoa(f.Y), strconv.Itoa(tier.Bits()))

	cmd := exec.CommandContext(ctx, o.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return Result{Status: Failed, Err: fmt.Errorf("solver %s: %w", o.Command, err)}
	}

	return parseSolverOutput(strings.TrimSpace(stdout.String()), tier)
}

// parseSolverOutput interprets one line of solver stdout at the given tier.
// Base-tier values below MinHyperbolicVolume are folded into NonHyperbolic,
// matching the grid's treatment of degenerate fillings.
func parseSolverOutput(out string, tier Tier) Result {
	if strings.EqualFold(out, NonHyperbolicOutput) {
		return Result{Status: NonHyperbolic}
	}
	if tier == TierHigh {
		exact, _, err := big.ParseFloat(out, 10, HighPrecBits, big.ToNearestEven)
		if err != nil {
			return Result{Status: Failed, Err: fmt.Errorf("parse solver output %q: %w", out, err)}
		}
		return Result{Status: Hyperbolic, Exact: exact}
	}
	v, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return Result{Status: Failed, Err: fmt.Errorf("parse solver output %q: %w", out, err)}
	}
	if tier == TierBase && v < MinHyperbolicVolume {
		return Result{Status: NonHyperbolic}
	}
	return Result{Status: Hyperbolic, Value: v}
}
