package scan

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// gridXYZ adapts a volume grid to plotter.GridXYZ. The plot x-axis carries
// the first filling coefficient, the y-axis the second. Invalid cells map to
// NaN so the heatmap leaves them blank.
type gridXYZ struct {
	g *Grid
}

func (d gridXYZ) Dims() (c, r int) {
	rows, cols := d.g.Dims()
	return rows, cols
}

func (d gridXYZ) Z(c, r int) float64 {
	v, ok := d.g.Volume(d.g.fillingAt(c, r))
	if !ok {
		return math.NaN()
	}
	return v
}

func (d gridXYZ) X(c int) float64 { return float64(c - d.g.Numb()) }

func (d gridXYZ) Y(r int) float64 { return float64(r) }

// SaveHeatmap writes a heatmap PNG of the manifold's base-precision volume
// grid into dir, named after the manifold. It is a debug aid for eyeballing
// where coincidence plateaus sit in the filling range.
func SaveHeatmap(g *Grid, manifold, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("heatmap dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Dehn filling volumes (numb=%d)", manifold, g.Numb())
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	h := plotter.NewHeatMap(gridXYZ{g}, moreland.SmoothBlueRed().Palette(255))
	p.Add(h)

	file := filepath.Join(dir, fmt.Sprintf("%s_volumes.png", manifold))
	if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
