package analysis

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/user/pjc_analyzer_go/internal/parser"
)

var (
	ErrUnpairedColumn   = errors.New("unpaired column")
	ErrRowCountMismatch = errors.New("column row counts differ")
	ErrNoRows           = errors.New("no rows matched")
)

// PairwiseRatio pairs the table columns in header order, (0,1), (2,3), ...,
// and computes yes/(yes+no) per row for each pair. This is the hit rate of
// the OY_TP_i/ON_TP_i columns. When both counts are zero the ratio is NaN.
func PairwiseRatio(t *parser.Table) (*Series, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, parser.ErrNoMatchingColumns
	}
	if len(t.Columns)%2 != 0 {
		last := t.Columns[len(t.Columns)-1]
		return nil, errors.Wrapf(ErrUnpairedColumn, "%d columns selected, %s (column %d) has no partner",
			len(t.Columns), last.Name, last.Index)
	}
	if err := checkRows(t); err != nil {
		return nil, err
	}

	s := &Series{NumRows: t.NumRows}
	for i := 0; i < len(t.Columns); i += 2 {
		yes, no := &t.Columns[i], &t.Columns[i+1]
		a := yes.Values()
		sum := make([]float64, len(a))
		floats.AddTo(sum, a, no.Values())
		ratio := make([]float64, len(a))
		floats.DivTo(ratio, a, sum)
		s.Bins = append(s.Bins, Bin{
			Label:   fmt.Sprintf("%s/%s", yes.Name, no.Name),
			Columns: []int{yes.Index, no.Index},
			Values:  ratio,
		})
	}
	return s, nil
}

// IdentitySeries turns each selected column into one bin without any
// arithmetic. It serves single-column families such as LIKELIHOOD_i.
func IdentitySeries(t *parser.Table) (*Series, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, parser.ErrNoMatchingColumns
	}
	if err := checkRows(t); err != nil {
		return nil, err
	}
	s := &Series{NumRows: t.NumRows}
	for i := range t.Columns {
		c := &t.Columns[i]
		s.Bins = append(s.Bins, Bin{Label: c.Name, Columns: []int{c.Index}, Values: c.Values()})
	}
	return s, nil
}

// Complement returns 1-v for every value of s.
func Complement(s *Series) *Series {
	out := &Series{NumRows: s.NumRows, Bins: make([]Bin, len(s.Bins))}
	for i, b := range s.Bins {
		vals := make([]float64, len(b.Values))
		for j, v := range b.Values {
			vals[j] = 1 - v
		}
		out.Bins[i] = Bin{Label: b.Label, Columns: b.Columns, Values: vals}
	}
	return out
}

// ProbabilityEdges returns the n+1 evenly spaced bin edges i/n of [0, 1].
func ProbabilityEdges(n int) []float64 {
	if n <= 0 {
		return []float64{0}
	}
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i) / float64(n)
	}
	return edges
}

func checkRows(t *parser.Table) error {
	for _, c := range t.Columns {
		if len(c.Cells) != t.NumRows {
			return errors.Wrapf(ErrRowCountMismatch, "%s has %d rows, table has %d", c.Name, len(c.Cells), t.NumRows)
		}
	}
	return nil
}
