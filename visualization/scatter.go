// Package visualization renders predicted-versus-actual plots with gonum/plot.
package visualization

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// ScatterOption configures PredictionScatter.
type ScatterOption func(*scatterConfig)

type scatterConfig struct {
	title  string
	names  []string
	width  vg.Length
	height vg.Length
}

// WithTitle sets the plot title.
func WithTitle(title string) ScatterOption {
	return func(c *scatterConfig) {
		c.title = title
	}
}

// WithSeriesNames names the target columns in the legend.
func WithSeriesNames(names ...string) ScatterOption {
	return func(c *scatterConfig) {
		c.names = names
	}
}

// WithSize sets the image size in inches.
func WithSize(width, height float64) ScatterOption {
	return func(c *scatterConfig) {
		c.width = vg.Length(width) * vg.Inch
		c.height = vg.Length(height) * vg.Inch
	}
}

// supportedFormats are the extensions plot.Save can render.
var supportedFormats = []string{".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff"}

// PredictionScatter draws one scatter series per target column of predicted
// against actual, plus the y = x reference line, and saves it to path. The
// image format follows the file extension.
func PredictionScatter(predicted, actual mat.Matrix, path string, opts ...ScatterOption) error {
	cfg := scatterConfig{
		title:  "Predicted vs actual",
		width:  5 * vg.Inch,
		height: 5 * vg.Inch,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rp, cp := predicted.Dims()
	ra, ca := actual.Dims()
	if rp != ra || cp != ca {
		return errors.NewShapeMismatchError("PredictionScatter", [2]int{ra, ca}, [2]int{rp, cp})
	}
	if ra == 0 || ca == 0 {
		return errors.NewValueError("PredictionScatter", "empty matrix")
	}
	if len(cfg.names) > 0 && len(cfg.names) != ca {
		return errors.NewValueErrorf("PredictionScatter", "%d series names for %d columns", len(cfg.names), ca)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !isSupported(ext) {
		return errors.NewValueErrorf("PredictionScatter", "unsupported image format %q", ext)
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"
	p.Add(plotter.NewGrid())

	for j := 0; j < ca; j++ {
		pts := make(plotter.XYs, ra)
		for i := range pts {
			pts[i].X = actual.At(i, j)
			pts[i].Y = predicted.At(i, j)
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrapf(err, "scatter series %d", j)
		}
		s.GlyphStyle.Color = plotutil.Color(j)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)

		name := fmt.Sprintf("target %d", j)
		if len(cfg.names) > 0 {
			name = cfg.names[j]
		}
		p.Legend.Add(name, s)
	}

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	identity.Color = plotutil.Color(ca)
	p.Add(identity)
	p.Legend.Add("y = x", identity)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return errors.NewIOError("save plot", path, err)
	}
	return nil
}

func isSupported(ext string) bool {
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}
