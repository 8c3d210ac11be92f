package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/pjc_analyzer_go/internal/analysis"
)

var likelihoodGreen = color.RGBA{G: 128, A: 255}

// CreateLikelihoodPlot draws, for every forecast probability bin, the
// likelihood of the event being observed next to its complement. When
// several file rows were kept each bar shows the mean over the rows.
func (r *Renderer) CreateLikelihoodPlot(lh *analysis.Series, info ChartInfo) ([]byte, error) {
	if lh == nil || lh.Len() == 0 || lh.NumRows == 0 {
		return nil, analysis.ErrNoRows
	}
	if lh.NumRows > 1 {
		r.Log.Infof("Likelihood bars average %d rows", lh.NumRows)
	}

	observed := r.finiteBars(lh.BinMeans(), lh)
	notObserved := r.finiteBars(analysis.Complement(lh).BinMeans(), lh)

	p := plot.New()
	p.Title.Text = info.LikelihoodTitle()
	p.X.Label.Text = fmt.Sprintf("Forecast probability (%s)", info.FcstModel)
	p.Y.Label.Text = "Likelihood"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	barWidth := r.Width * 0.5 / vg.Length(2*lh.Len()+2)

	notBars, err := plotter.NewBarChart(notObserved, barWidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create not-observed bars")
	}
	notBars.Color = color.White
	notBars.LineStyle.Color = likelihoodGreen
	notBars.LineStyle.Width = vg.Points(1.5)
	notBars.Offset = -barWidth / 2

	obsBars, err := plotter.NewBarChart(observed, barWidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create observed bars")
	}
	obsBars.Color = likelihoodGreen
	obsBars.LineStyle.Color = likelihoodGreen
	obsBars.Offset = barWidth / 2

	p.Add(notBars, obsBars)
	p.Legend.Add("Not observed", notBars)
	p.Legend.Add("Observed", obsBars)
	p.Legend.Top = true

	edges := analysis.ProbabilityEdges(lh.Len())
	names := make([]string, lh.Len())
	for i := range names {
		names[i] = fmt.Sprintf("%.2g", edges[i+1])
	}
	p.NominalX(names...)

	return r.png(p)
}

// finiteBars replaces NaN and infinite bar heights with 0, which gonum/plot
// refuses to draw.
func (r *Renderer) finiteBars(vals []float64, s *analysis.Series) plotter.Values {
	out := make(plotter.Values, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			r.Log.WithField("bin", s.Bins[i].Label).Warn("Likelihood undefined, drawing empty bar")
			continue
		}
		out[i] = v
	}
	return out
}
