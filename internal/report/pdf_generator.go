package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/user/pjc_analyzer_go/internal/analysis"
)

const (
	inchToMm              = 25.4
	pdfPageWidthPortrait  = 8.5 * inchToMm // Letter portrait
	pdfPageHeightPortrait = 11 * inchToMm
	pdfMargin             = 0.5 * inchToMm
	pdfContentWidth       = pdfPageWidthPortrait - (2 * pdfMargin)
)

// Image keys used by BuildPDFReport.
const (
	ReliabilityImage = "reliability"
	LikelihoodImage  = "likelihood"
)

// textStyle is a font plus text and fill colors.
type textStyle struct {
	weight string
	size   float64
	text   [3]int
	fill   [3]int
}

var pdfStyles = map[string]textStyle{
	"h1":          {weight: "B", size: 16},
	"h2":          {weight: "B", size: 13},
	"normal":      {size: 10},
	"tableHeader": {weight: "B", size: 9, fill: [3]int{200, 200, 200}},
	"tableCell":   {size: 9, text: [3]int{50, 50, 50}},
	"tableNA":     {weight: "I", size: 9, text: [3]int{150, 150, 150}},
}

// pdfStyler places flowing content and tracks the vertical position itself.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	lineHeight float64
	y          float64
	bottom     float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	return &pdfStyler{
		pdf:        pdf,
		lineHeight: 6, // mm
		y:          pdfMargin,
		bottom:     pdfPageHeightPortrait - pdfMargin,
	}
}

func (s *pdfStyler) use(name string) {
	st, ok := pdfStyles[name]
	if !ok {
		st = pdfStyles["normal"]
	}
	s.pdf.SetFont("Arial", st.weight, st.size)
	s.pdf.SetTextColor(st.text[0], st.text[1], st.text[2])
	s.pdf.SetFillColor(st.fill[0], st.fill[1], st.fill[2])
}

// reserve starts a new page when h more millimetres do not fit.
func (s *pdfStyler) reserve(h float64) {
	if s.y+h > s.bottom {
		s.pdf.AddPage()
		s.y = pdfMargin
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.use(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.reserve(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.y)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.y = s.pdf.GetY() + 1
}

func (s *pdfStyler) skip(h float64) {
	s.reserve(h)
	s.y += h
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.reserve(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.y, width, height, false, "PNG", 0, "")
	s.y += height

	if caption != "" {
		s.skip(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.skip(2)
}

func (s *pdfStyler) tableRow(cells []string, widths []float64, style string, fill bool) {
	s.reserve(s.lineHeight)
	x := pdfMargin
	for i, cell := range cells {
		cellStyle := style
		if cell == "n/a" {
			cellStyle = "tableNA"
		}
		s.use(cellStyle)
		s.pdf.SetXY(x, s.y)
		s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
		x += widths[i]
	}
	s.y += s.lineHeight
}

// aspectRatio is height/width of a PNG, 3:4 when it cannot be decoded.
func aspectRatio(png []byte) float64 {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil || cfg.Width == 0 {
		return 0.75
	}
	return float64(cfg.Height) / float64(cfg.Width)
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// BuildPDFReport writes a single PDF with a per-bin summary table and the
// chart images. Either series may be nil when its pass produced nothing.
func BuildPDFReport(filepath string, info ChartInfo, hr, lh *analysis.Series, plotImages map[string][]byte) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetTitle(fmt.Sprintf("%s %s-%s verification", info.StormID, info.FcstModel, info.AnalModel), false)
	pdf.SetCreator("pjc_analyzer", false)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	styler.writeParagraph(fmt.Sprintf("%s Probabilistic Verification: %s", info.StormID, info.Variable), "h1", "C")
	styler.skip(3)
	styler.writeParagraph(fmt.Sprintf("Forecast model: %s    Analysis: %s", info.FcstModel, info.AnalModel), "normal", "L")
	styler.writeParagraph(info.subtitle(), "normal", "L")
	styler.skip(4)

	styler.writeParagraph("Per-bin Summary", "h2", "L")
	nbins := 0
	if hr != nil {
		nbins = hr.Len()
	}
	if lh != nil && lh.Len() > nbins {
		nbins = lh.Len()
	}
	if nbins == 0 {
		styler.writeParagraph("No results to display.", "normal", "L")
	} else {
		headers := []string{"Bin", "Probability", "Hit rate", "Likelihood", "Not observed"}
		widthsRel := []float64{0.1, 0.2, 0.25, 0.2, 0.25}
		widths := make([]float64, len(widthsRel))
		for i, rel := range widthsRel {
			widths[i] = rel * pdfContentWidth
		}
		styler.tableRow(headers, widths, "tableHeader", true)

		var hrMeans, lhMeans, notMeans []float64
		if hr != nil {
			hrMeans = hr.BinMeans()
		}
		if lh != nil {
			lhMeans = lh.BinMeans()
			notMeans = analysis.Complement(lh).BinMeans()
		}
		edges := analysis.ProbabilityEdges(nbins)
		at := func(vals []float64, i int) string {
			if i >= len(vals) {
				return "n/a"
			}
			return formatValue(vals[i])
		}
		for i := 0; i < nbins; i++ {
			styler.tableRow([]string{
				fmt.Sprintf("%d", i),
				fmt.Sprintf("%.2f-%.2f", edges[i], edges[i+1]),
				at(hrMeans, i),
				at(lhMeans, i),
				at(notMeans, i),
			}, widths, "tableCell", false)
		}
	}
	styler.skip(5)

	imgWidth := pdfContentWidth * 0.8
	for _, pDef := range []struct {
		Key     string
		Caption string
	}{
		{ReliabilityImage, info.ReliabilityTitle()},
		{LikelihoodImage, info.LikelihoodTitle()},
	} {
		if imgBytes, ok := plotImages[pDef.Key]; ok && len(imgBytes) > 0 {
			styler.addImage(imgBytes, pDef.Key, imgWidth, imgWidth*aspectRatio(imgBytes), pDef.Caption)
		} else {
			styler.writeParagraph(fmt.Sprintf("%s chart not available.", pDef.Key), "normal", "L")
		}
	}

	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return errors.Wrap(err, "failed to write pdf")
	}
	return nil
}
