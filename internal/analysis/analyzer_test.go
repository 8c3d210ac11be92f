package analysis

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/user/pjc_analyzer_go/internal/parser"
)

func table(cols map[int][]float64, order []int, names []string) *parser.Table {
	t := &parser.Table{}
	for i, idx := range order {
		c := parser.Column{Name: names[i], Index: idx}
		for _, v := range cols[idx] {
			c.Cells = append(c.Cells, parser.ValueCell("", v))
		}
		t.Columns = append(t.Columns, c)
		t.NumRows = len(c.Cells)
	}
	return t
}

func TestPairwiseRatio(t *testing.T) {
	tbl := table(map[int][]float64{
		7:  {4, 1},
		8:  {6, 3},
		10: {0, 2},
		11: {0, 2},
	}, []int{7, 8, 10, 11}, []string{"OY_TP_0", "ON_TP_0", "OY_TP_1", "ON_TP_1"})

	s, err := PairwiseRatio(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.NumRows != 2 {
		t.Fatalf("bins=%d rows=%d", s.Len(), s.NumRows)
	}
	if got := s.Bins[0].Values; got[0] != 0.4 || got[1] != 0.25 {
		t.Errorf("bin 0 = %v", got)
	}
	if !math.IsNaN(s.Bins[1].Values[0]) {
		t.Errorf("0/(0+0) = %v, want NaN", s.Bins[1].Values[0])
	}
	if s.Bins[1].Values[1] != 0.5 {
		t.Errorf("bin 1 row 1 = %v", s.Bins[1].Values[1])
	}
	if s.Bins[0].Label != "OY_TP_0/ON_TP_0" || s.Bins[1].Columns[0] != 10 {
		t.Errorf("bin metadata = %+v", s.Bins[0])
	}
	if row := s.Row(1); row[0] != 0.25 || row[1] != 0.5 {
		t.Errorf("row 1 = %v", row)
	}
}

func TestPairwiseRatioZeroPairIsDeterministic(t *testing.T) {
	tbl := table(map[int][]float64{0: {0}, 1: {0}}, []int{0, 1}, []string{"OY_TP_0", "ON_TP_0"})
	for i := 0; i < 3; i++ {
		s, err := PairwiseRatio(tbl)
		if err != nil {
			t.Fatal(err)
		}
		if !math.IsNaN(s.Bins[0].Values[0]) {
			t.Fatalf("run %d: got %v, want NaN", i, s.Bins[0].Values[0])
		}
	}
}

func TestPairwiseRatioUnpaired(t *testing.T) {
	tbl := table(map[int][]float64{0: {1}, 1: {1}, 2: {1}}, []int{0, 1, 2}, []string{"OY_TP_0", "ON_TP_0", "OY_TP_1"})
	_, err := PairwiseRatio(tbl)
	if !errors.Is(err, ErrUnpairedColumn) {
		t.Fatalf("expected ErrUnpairedColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "OY_TP_1") {
		t.Errorf("error %q does not name the dangling column", err)
	}
}

func TestPairwiseRatioRowMismatch(t *testing.T) {
	tbl := table(map[int][]float64{0: {1, 2}, 1: {1, 2}}, []int{0, 1}, []string{"OY_TP_0", "ON_TP_0"})
	tbl.Columns[1].Cells = tbl.Columns[1].Cells[:1]
	if _, err := PairwiseRatio(tbl); !errors.Is(err, ErrRowCountMismatch) {
		t.Fatalf("expected ErrRowCountMismatch, got %v", err)
	}
}

func TestEmptySelection(t *testing.T) {
	if _, err := PairwiseRatio(&parser.Table{}); !errors.Is(err, parser.ErrNoMatchingColumns) {
		t.Errorf("PairwiseRatio: %v", err)
	}
	if _, err := IdentitySeries(nil); !errors.Is(err, parser.ErrNoMatchingColumns) {
		t.Errorf("IdentitySeries: %v", err)
	}
}

func TestIdentitySeriesAndComplement(t *testing.T) {
	tbl := table(map[int][]float64{9: {0.6, 0.2}, 12: {0.4, 0}}, []int{9, 12}, []string{"LIKELIHOOD_0", "LIKELIHOOD_1"})
	s, err := IdentitySeries(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.Bins[0].Label != "LIKELIHOOD_0" || s.Bins[1].Values[0] != 0.4 {
		t.Fatalf("series = %+v", s)
	}
	c := Complement(s)
	if c.Bins[1].Values[1] != 1 || math.Abs(c.Bins[0].Values[0]-0.4) > 1e-12 {
		t.Errorf("complement = %+v", c.Bins)
	}
	if s.Bins[1].Values[1] != 0 {
		t.Error("Complement modified its input")
	}
}

func TestBinMeans(t *testing.T) {
	s := &Series{NumRows: 3, Bins: []Bin{
		{Values: []float64{0.2, 0.4, math.NaN()}},
		{Values: []float64{math.NaN(), math.NaN(), math.NaN()}},
	}}
	m := s.BinMeans()
	if math.Abs(m[0]-0.3) > 1e-12 {
		t.Errorf("mean 0 = %v", m[0])
	}
	if !math.IsNaN(m[1]) {
		t.Errorf("mean 1 = %v, want NaN", m[1])
	}
}

func TestProbabilityEdges(t *testing.T) {
	e := ProbabilityEdges(4)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if e[i] != want[i] {
			t.Fatalf("edges = %v", e)
		}
	}
	if len(ProbabilityEdges(0)) != 1 {
		t.Error("expected a single edge for n=0")
	}
}

func TestRoundTripFromText(t *testing.T) {
	in := "A box_mask_flag O_Y_TP_0 O_N_TP_0\nx 12.5 4.0 6.0\n"
	tbl, err := parser.LoadTableFromReader(strings.NewReader(in),
		regexp.MustCompile(`12\.5`), regexp.MustCompile(`O_[YN]_TP_\d+`), nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := PairwiseRatio(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 || s.Bins[0].Values[0] != 0.4 {
		t.Fatalf("ratio series = %+v", s.Bins)
	}
}
