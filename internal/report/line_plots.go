package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/pjc_analyzer_go/internal/analysis"
)

var ErrNoFinitePoints = errors.New("no finite values to plot")

var (
	reliabilityRed  = color.RGBA{R: 255, A: 255}
	reliabilityBlue = color.RGBA{B: 255, A: 255}
)

// CreateReliabilityPlot draws the hit rate of every bin against the upper
// edge of its forecast probability bin, one line per kept file row, over
// the perfect reliability diagonal. Non-finite hit rates are left out.
func (r *Renderer) CreateReliabilityPlot(hr *analysis.Series, info ChartInfo) ([]byte, error) {
	if hr == nil || hr.Len() == 0 || hr.NumRows == 0 {
		return nil, analysis.ErrNoRows
	}

	p := plot.New()
	p.Title.Text = info.ReliabilityTitle()
	p.X.Label.Text = fmt.Sprintf("Forecast probability (%s)", info.FcstModel)
	p.Y.Label.Text = fmt.Sprintf("Analysis (%s)", info.AnalModel)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	edges := analysis.ProbabilityEdges(hr.Len())
	p.X.Tick.Marker = plot.ConstantTicks(probabilityTicks(edges))
	p.Add(plotter.NewGrid())

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create diagonal")
	}
	diag.Color = reliabilityBlue
	diag.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(diag)

	linesPlotted := false
	for row := 0; row < hr.NumRows; row++ {
		vals := hr.Row(row)
		pts := make(plotter.XYs, 0, len(vals))
		for k, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				r.Log.WithField("bin", hr.Bins[k].Label).Warnf("Hit rate undefined for row %d, skipping point", row+1)
				continue
			}
			pts = append(pts, plotter.XY{X: edges[k+1], Y: v})
			// Hit rates above 1 come from negative counts; widen the axis rather than clip.
			p.Y.Max = math.Max(p.Y.Max, v)
			p.Y.Min = math.Min(p.Y.Min, v)
		}
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create line for row %d", row+1)
		}
		line.Color = reliabilityRed
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		points.Shape = draw.CircleGlyph{}
		points.Color = reliabilityRed
		points.Radius = vg.Points(3)
		p.Add(line, points)

		label := info.StormID
		if hr.NumRows > 1 {
			label = fmt.Sprintf("%s (row %d)", info.StormID, row+1)
		}
		p.Legend.Add(label, line, points)
		linesPlotted = true
	}
	if !linesPlotted {
		return nil, errors.Wrap(ErrNoFinitePoints, "reliability diagram")
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(10)

	return r.png(p)
}
