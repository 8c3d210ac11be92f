package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/user/pjc_analyzer_go/internal/analysis"
	"github.com/user/pjc_analyzer_go/internal/config"
	"github.com/user/pjc_analyzer_go/internal/parser"
	"github.com/user/pjc_analyzer_go/internal/report"
)

// RunArgs are the positional arguments of one run, already validated.
type RunArgs struct {
	StormID   string
	ValidTime string // display form
	FcstTime  string // display form
	Tau       int
	InFile    string
	FcstModel string
	AnalModel string
}

// App runs the reliability and likelihood passes over one input file.
type App struct {
	cfg      *config.Config
	patterns *config.Patterns
	log      *logrus.Logger
	renderer *report.Renderer
	stdout   io.Writer
}

// NewApp validates cfg and prepares the renderer.
func NewApp(cfg *config.Config, log *logrus.Logger, stdout io.Writer) (*App, error) {
	patterns, err := cfg.Compile()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &App{
		cfg:      cfg,
		patterns: patterns,
		log:      log,
		renderer: report.NewRenderer(cfg.Image.WidthIn, cfg.Image.HeightIn, log),
		stdout:   stdout,
	}, nil
}

func (a *App) sendStatus(format string, args ...any) {
	a.log.Infof(format, args...)
}

// noResults reports a pass that found nothing to plot. It is not a failure.
func (a *App) noResults(pattern *regexp.Regexp) {
	fmt.Fprintf(a.stdout, "No results for pattern %s\n", pattern)
}

// Run executes both passes and the optional PDF bundle. A pass whose
// pattern matches no column or no row is reported and skipped.
func (a *App) Run(args RunArgs) error {
	info := report.ChartInfo{
		StormID:   args.StormID,
		FcstModel: args.FcstModel,
		AnalModel: args.AnalModel,
		ValidTime: args.ValidTime,
		FcstTime:  args.FcstTime,
		Tau:       args.Tau,
		Variable:  a.cfg.VariableLabel,
	}
	a.sendStatus("Request: file=%s storm=%s models=%s-%s tau=%d", args.InFile, args.StormID, args.FcstModel, args.AnalModel, args.Tau)
	a.log.Debugf("Config: %s", a.cfg)

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	plotImages := make(map[string][]byte)

	hr, err := a.reliabilityPass(args.InFile, info, plotImages)
	if err != nil {
		return err
	}
	lh, err := a.likelihoodPass(args.InFile, info, plotImages)
	if err != nil {
		return err
	}

	if a.cfg.PDFPath != "" {
		a.sendStatus("Generating PDF: %s", a.cfg.PDFPath)
		if err := report.BuildPDFReport(a.cfg.PDFPath, info, hr, lh, plotImages); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote PDF report: %s\n", a.cfg.PDFPath)
	}
	return nil
}

// reliabilityPass returns a nil series when there was nothing to plot.
func (a *App) reliabilityPass(path string, info report.ChartInfo, images map[string][]byte) (*analysis.Series, error) {
	re := a.patterns.Reliability
	a.sendStatus("Parsing %s for %s", path, re)
	tbl, err := parser.LoadTable(path, a.patterns.Row, re, &parser.LoadOptions{Logger: a.log})
	if errors.Is(err, parser.ErrNoMatchingColumns) {
		a.noResults(re)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tbl.NumRows == 0 {
		a.noResults(a.patterns.Row)
		return nil, nil
	}

	hr, err := analysis.PairwiseRatio(tbl)
	if err != nil {
		return nil, errors.Wrapf(err, "reliability %s", re)
	}
	a.log.Debugf("Reliability bins: %s", strings.Join(hr.Labels(), ", "))
	for row := 0; row < hr.NumRows; row++ {
		a.sendStatus("Hit rate row %d: %s", row+1, formatFloats(hr.Row(row)))
	}

	img, err := a.renderer.CreateReliabilityPlot(hr, info)
	if errors.Is(err, report.ErrNoFinitePoints) {
		a.log.Warn("Every hit rate is undefined, reliability diagram skipped")
		return hr, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reliability diagram")
	}
	images[report.ReliabilityImage] = img
	return hr, a.writeImage(info.ReliabilityFile(a.cfg.OutputDir), img)
}

func (a *App) likelihoodPass(path string, info report.ChartInfo, images map[string][]byte) (*analysis.Series, error) {
	re := a.patterns.Likelihood
	a.sendStatus("Parsing %s for %s", path, re)
	tbl, err := parser.LoadTable(path, a.patterns.Row, re, &parser.LoadOptions{Logger: a.log})
	if errors.Is(err, parser.ErrNoMatchingColumns) {
		a.noResults(re)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tbl.NumRows == 0 {
		a.noResults(a.patterns.Row)
		return nil, nil
	}

	lh, err := analysis.IdentitySeries(tbl)
	if err != nil {
		return nil, errors.Wrapf(err, "likelihood %s", re)
	}
	for row := 0; row < lh.NumRows; row++ {
		a.sendStatus("Likelihood row %d: observed %s, not observed %s",
			row+1, formatFloats(lh.Row(row)), formatFloats(analysis.Complement(lh).Row(row)))
	}

	img, err := a.renderer.CreateLikelihoodPlot(lh, info)
	if err != nil {
		return nil, errors.Wrap(err, "likelihood chart")
	}
	images[report.LikelihoodImage] = img
	return lh, a.writeImage(info.LikelihoodFile(a.cfg.OutputDir), img)
}

func (a *App) writeImage(path string, img []byte) error {
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return errors.Wrap(err, "failed to write image")
	}
	a.sendStatus("Wrote %s (%s)", path, humanize.Bytes(uint64(len(img))))
	fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return nil
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
