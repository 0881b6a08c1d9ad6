package scan

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/volumetry/dehnscan/internal/symmetry"
	"github.com/volumetry/dehnscan/internal/volume"
)

// Scanner runs the coincidence search over a list of manifolds and writes the
// per-manifold console report. Each manifold gets one report line: its name,
// the echo of its identified symmetries, every unexplained group found, and
// either the "Unidentified symmetries?" marker when the group cap was hit or
// nothing. A failure inside one manifold's scan never stops the batch.
type Scanner struct {
	Oracle  volume.Oracle
	Store   *symmetry.Store
	Matcher *Matcher

	// Numb is the grid half-width: fillings range over [-Numb, Numb] x [0, Numb].
	Numb int

	// HeatmapDir, when set, receives one volume-grid heatmap PNG per
	// manifold.
	HeatmapDir string

	// Logf receives inline diagnostics. Defaults to log.Printf.
	Logf func(format string, v ...interface{})
}

// NewScanner returns a scanner with a default matcher over the oracle.
func NewScanner(o volume.Oracle, store *symmetry.Store, numb int) *Scanner {
	return &Scanner{
		Oracle:  o,
		Store:   store,
		Matcher: NewMatcher(o),
		Numb:    numb,
	}
}

func (s *Scanner) logf(format string, v ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// Run scans each manifold in order, writing the report to w. The only error
// returned is context cancellation; everything else degrades per manifold.
func (s *Scanner) Run(ctx context.Context, w io.Writer, manifolds []string) error {
	for _, name := range manifolds {
		if err := s.scanOne(ctx, w, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanOne(ctx context.Context, w io.Writer, name string) error {
	fmt.Fprint(w, name)

	syms := s.Store.Records(name)
	if len(syms) > 0 {
		fmt.Fprint(w, " Identified symmetries:")
		for _, r := range syms {
			fmt.Fprintf(w, " %s", r)
		}
	}

	grid, err := ComputeGrid(ctx, s.Oracle, name, s.Numb, s.Logf)
	if err != nil {
		fmt.Fprintln(w)
		return err
	}

	groups, capped, err := s.Matcher.Scan(ctx, name, grid, syms, volume.NewCache())
	for _, grp := range groups {
		fmt.Fprintf(w, " %s", grp)
	}
	if err != nil {
		fmt.Fprintln(w)
		return err
	}
	if capped {
		fmt.Fprintln(w, " Unidentified symmetries?")
	} else {
		fmt.Fprintln(w)
	}

	if s.HeatmapDir != "" {
		if err := SaveHeatmap(grid, name, s.HeatmapDir); err != nil {
			s.logf("%s: heatmap: %v", name, err)
		}
	}
	return nil
}
