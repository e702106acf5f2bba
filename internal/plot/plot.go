// Package plot renders an original temperature series against its resampled
// counterpart.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"thermospline/internal/series"
)

// Render writes a PNG comparing the original samples (points) with the
// resampled series (dashed line) for one property.
func Render(path, property string, original, resampled series.Series) error {
	p := plot.New()
	p.Title.Text = property
	p.X.Label.Text = "time"
	p.Y.Label.Text = "temperature"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}

	origPts := toXYs(original)
	origLine, err := plotter.NewLine(origPts)
	if err != nil {
		return fmt.Errorf("failed to build original line: %w", err)
	}
	origScatter, err := plotter.NewScatter(origPts)
	if err != nil {
		return fmt.Errorf("failed to build original points: %w", err)
	}
	origScatter.GlyphStyle.Radius = vg.Points(2)

	resLine, err := plotter.NewLine(toXYs(resampled))
	if err != nil {
		return fmt.Errorf("failed to build resampled line: %w", err)
	}
	resLine.LineStyle.Color = color.RGBA{R: 196, A: 255}
	resLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	p.Add(origLine, origScatter, resLine)
	p.Legend.Add("original", origLine, origScatter)
	p.Legend.Add("resampled", resLine)
	p.Legend.Top = true

	if err := p.Save(12*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

func toXYs(s series.Series) plotter.XYs {
	pts := make(plotter.XYs, len(s))
	for i, smp := range s {
		pts[i].X = float64(smp.Time.Unix())
		pts[i].Y = smp.Value
	}
	return pts
}
