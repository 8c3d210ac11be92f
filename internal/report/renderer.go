package report

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Renderer draws the charts to PNG bytes at a fixed size.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
	Log    logrus.FieldLogger
}

// NewRenderer returns a Renderer for images of widthIn x heightIn inches.
func NewRenderer(widthIn, heightIn float64, log logrus.FieldLogger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{
		Width:  vg.Length(widthIn) * vg.Inch,
		Height: vg.Length(heightIn) * vg.Inch,
		Log:    log,
	}
}

func (r *Renderer) png(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create plot writer")
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, errors.Wrap(err, "failed to write plot to buffer")
	}
	return buf.Bytes(), nil
}

// probabilityTicks labels each probability edge.
func probabilityTicks(edges []float64) []plot.Tick {
	ticks := make([]plot.Tick, len(edges))
	for i, e := range edges {
		ticks[i] = plot.Tick{Value: e, Label: fmt.Sprintf("%.2g", e)}
	}
	return ticks
}
