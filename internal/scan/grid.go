// Package scan implements the coincidence search: the base-precision volume
// grid, the matcher that pairs fillings by approximate volume equality while
// excluding matches explained by known symmetries, and the per-manifold
// driver with its console report.
package scan

import (
	"context"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/volumetry/dehnscan/internal/filling"
	"github.com/volumetry/dehnscan/internal/volume"
)

// Grid holds base-precision volumes for every filling in the search range
// x in [-numb, numb], y in [0, numb]. Row index is x+numb, column index is y,
// the same layout the anchor loop iterates in. Cell validity is tracked in a
// parallel mask rather than a numeric sentinel: an invalid cell (failed or
// non-hyperbolic filling) has no volume at all.
type Grid struct {
	numb  int
	vols  *mat.Dense
	valid []bool
}

// NewGrid returns an all-invalid grid of half-width numb.
func NewGrid(numb int) *Grid {
	rows, cols := 2*numb+1, numb+1
	return &Grid{
		numb:  numb,
		vols:  mat.NewDense(rows, cols, nil),
		valid: make([]bool, rows*cols),
	}
}

// Numb returns the grid half-width.
func (g *Grid) Numb() int { return g.numb }

// Dims returns the row and column counts.
func (g *Grid) Dims() (rows, cols int) { return 2*g.numb + 1, g.numb + 1 }

func (g *Grid) cell(f filling.Filling) (row, col int) {
	return f.X + g.numb, f.Y
}

func (g *Grid) fillingAt(row, col int) filling.Filling {
	return filling.Filling{X: row - g.numb, Y: col}
}

// Volume returns the base-precision volume of f and whether the cell is
// valid. Fillings outside the grid are invalid.
func (g *Grid) Volume(f filling.Filling) (float64, bool) {
	if !f.InRange(g.numb) {
		return 0, false
	}
	row, col := g.cell(f)
	if !g.valid[row*(g.numb+1)+col] {
		return 0, false
	}
	return g.vols.At(row, col), true
}

// Set records the base-tier result for f. Only hyperbolic results make the
// cell valid.
func (g *Grid) Set(f filling.Filling, r volume.Result) {
	row, col := g.cell(f)
	if r.IsHyperbolic() {
		g.vols.Set(row, col, r.Value)
		g.valid[row*(g.numb+1)+col] = true
		return
	}
	g.vols.Set(row, col, 0)
	g.valid[row*(g.numb+1)+col] = false
}

// matchFlags returns a row-major flag slice marking every valid cell whose
// volume lies within tol of anchorVol. The anchor's own cell is flagged too.
func (g *Grid) matchFlags(anchorVol, tol float64) []bool {
	rows, cols := g.Dims()
	var diff mat.Dense
	diff.Apply(func(_, _ int, v float64) float64 {
		d := v - anchorVol
		if d < 0 {
			return -d
		}
		return d
	}, g.vols)

	flags := make([]bool, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			flags[i] = g.valid[i] && diff.At(row, col) <= tol
		}
	}
	return flags
}

// ComputeGrid fills a grid with base-precision volumes of the named manifold.
// Cells with y = 0 and x <= 0 are redundant under the central-symmetry
// identification and stay invalid without an oracle call. Oracle failures are
// logged through logf and leave the cell invalid; they never abort the
// computation. The only error returned is context cancellation.
func ComputeGrid(ctx context.Context, o volume.Oracle, manifold string, numb int, logf func(format string, v ...interface{})) (*Grid, error) {
	if logf == nil {
		logf = log.Printf
	}
	g := NewGrid(numb)
	for x := -numb; x <= numb; x++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for y := 0; y <= numb; y++ {
			if y == 0 && x <= 0 {
				continue
			}
			f := filling.Filling{X: x, Y: y}
			r := o.Volume(ctx, manifold, f, volume.TierBase)
			if r.Status == volume.Failed {
				logf("%s: volume error for %v: %v", manifold, f, r.Err)
			}
			g.Set(f, r)
		}
	}
	return g, nil
}
