package report

import (
	"fmt"
	"path/filepath"

	"github.com/user/pjc_analyzer_go/internal/dtg"
)

// ChartInfo carries the labels shared by both charts of one run.
type ChartInfo struct {
	StormID   string
	FcstModel string
	AnalModel string
	ValidTime string // display form, e.g. "16 May 2019 12Z"
	FcstTime  string
	Tau       int
	Variable  string // e.g. "Sig Wave Height GT 12-ft"
}

func (ci ChartInfo) baseName() string {
	return fmt.Sprintf("%s_%s-%s_%s_%d", ci.StormID, ci.FcstModel, ci.AnalModel, dtg.FileSafe(ci.FcstTime), ci.Tau)
}

// ReliabilityFile is the PNG name of the reliability diagram inside dir.
func (ci ChartInfo) ReliabilityFile(dir string) string {
	return filepath.Join(dir, ci.baseName()+"_RD.png")
}

// LikelihoodFile is the PNG name of the likelihood chart inside dir.
func (ci ChartInfo) LikelihoodFile(dir string) string {
	return filepath.Join(dir, ci.baseName()+"_LH.png")
}

func (ci ChartInfo) subtitle() string {
	return fmt.Sprintf("VT: %s; Forecast: %s Tau: %d", ci.ValidTime, ci.FcstTime, ci.Tau)
}

func (ci ChartInfo) ReliabilityTitle() string {
	return fmt.Sprintf("Reliability Diagram %s\n%s", ci.Variable, ci.subtitle())
}

func (ci ChartInfo) LikelihoodTitle() string {
	return fmt.Sprintf("Likelihood %s\n%s", ci.Variable, ci.subtitle())
}
