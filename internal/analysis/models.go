package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bin holds one forecast probability bin: its label (the column name, or
// "YES/NO" for a pair) and one value per kept file row.
type Bin struct {
	Label   string
	Columns []int // file column indices the bin was computed from
	Values  []float64
}

// Series is an ordered set of bins sharing the same row count.
type Series struct {
	Bins    []Bin
	NumRows int
}

func (s *Series) Len() int { return len(s.Bins) }

// Row returns the value of every bin for row r.
func (s *Series) Row(r int) []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Values[r]
	}
	return out
}

// BinMeans averages each bin across rows, skipping NaN values. A bin with
// no finite value yields NaN.
func (s *Series) BinMeans() []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		vals := make([]float64, 0, len(b.Values))
		for _, v := range b.Values {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(vals, nil)
	}
	return out
}

// Labels returns the bin labels in order.
func (s *Series) Labels() []string {
	out := make([]string, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Label
	}
	return out
}
