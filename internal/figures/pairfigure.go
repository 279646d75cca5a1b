// Package figures renders landmark overlays for visual inspection of
// annotator agreement. It sits outside the numeric engine: nothing in
// internal/landmark depends on it.
package figures

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/regbench/landmark.report/internal/landmark"
)

var (
	refColor     = color.RGBA{G: 160, A: 255}
	inColor      = color.RGBA{R: 200, A: 255}
	agreeColor   = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	outlierColor = color.RGBA{R: 220, A: 255}
)

// PairFigure builds an overlay of two corresponding landmark sets.
// Corresponding points are joined by a line: dashed where the pair
// agrees with the fitted affine transform, solid red where it is flagged
// as an outlier. Points are numbered from 1 next to the reference set.
func PairFigure(ref, in landmark.PointSet, names [2]string) (*plot.Plot, error) {
	outliers, _, err := landmark.ClassifyOutliers(ref, in, landmark.DefaultStdCoef)
	if err != nil {
		return nil, fmt.Errorf("pair figure: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", names[0], names[1])
	// Image coordinates: origin top-left, y grows downward.
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	for i := range outliers {
		line, err := plotter.NewLine(plotter.XYs{
			{X: ref[i].X, Y: ref[i].Y},
			{X: in[i].X, Y: in[i].Y},
		})
		if err != nil {
			return nil, err
		}
		line.Width = vg.Points(1)
		if outliers[i] {
			line.Color = outlierColor
		} else {
			line.Color = agreeColor
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
	}

	refScatter, err := scatter(ref, refColor)
	if err != nil {
		return nil, err
	}
	inScatter, err := scatter(in, inColor)
	if err != nil {
		return nil, err
	}
	p.Add(refScatter, inScatter)
	p.Legend.Add(names[0], refScatter)
	p.Legend.Add(names[1], inScatter)

	labels, err := pointLabels(ref)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	return p, nil
}

// SavePairFigure renders the overlay and writes it to path; the format
// follows the file extension (.png, .svg, .pdf).
func SavePairFigure(path string, ref, in landmark.PointSet, names [2]string) error {
	p, err := PairFigure(ref, in, names)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save figure %s: %w", path, err)
	}
	return nil
}

func scatter(ps landmark.PointSet, c color.Color) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(ps))
	for i, p := range ps {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(3)
	return s, nil
}

func pointLabels(ps landmark.PointSet) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(ps))
	texts := make([]string, len(ps))
	for i, p := range ps {
		xys[i] = plotter.XY{X: p.X + 5, Y: p.Y + 5}
		texts[i] = strconv.Itoa(i + 1)
	}
	return plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
}
