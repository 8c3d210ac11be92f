package parser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoadOptions tunes LoadTable. The zero value is usable.
type LoadOptions struct {
	Logger logrus.FieldLogger
}

func (o *LoadOptions) logger() logrus.FieldLogger {
	if o == nil || o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

// LoadTable reads a MET .pjc text file. The first line names the columns;
// colPattern picks the columns to extract and rowPattern picks the body
// lines to keep. Cells that do not parse as floats become 0.0 defaults.
func LoadTable(path string, rowPattern, colPattern *regexp.Regexp, opts *LoadOptions) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pjc file")
	}
	defer file.Close()

	t, err := LoadTableFromReader(file, rowPattern, colPattern, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return t, nil
}

// LoadTableFromReader is LoadTable over an already open reader.
func LoadTableFromReader(r io.Reader, rowPattern, colPattern *regexp.Regexp, opts *LoadOptions) (*Table, error) {
	log := opts.logger()

	sc := newScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to read header")
		}
		return nil, ErrEmptyInput
	}
	header := strings.TrimRight(sc.Text(), "\r")
	log.Debugf("Header: %s", header)

	hm, cols, err := ResolveColumns(header, colPattern)
	if err != nil {
		return nil, err
	}
	log.Debugf("Header map: %v", hm)
	if len(cols) == 0 {
		return nil, errors.Wrapf(ErrNoMatchingColumns, "pattern %s", colPattern)
	}
	for _, c := range cols {
		log.WithFields(logrus.Fields{
			"column": c.Name,
			"index":  c.Index,
			"span":   fmt.Sprintf("%02d-%02d", c.Start, c.End),
		}).Debug("Selected column")
	}

	t := &Table{Header: header, Headers: hm, Columns: cols}
	rows := newLineFilter(sc, 1, rowPattern, log)
	for rows.Scan() {
		fields := strings.Fields(rows.Text())
		for i := range t.Columns {
			c := &t.Columns[i]
			cell := parseCell(fields, c.Index)
			if cell.Defaulted() {
				t.ParseErrors = append(t.ParseErrors, fmt.Sprintf(
					"line %d, column %s: %s value %q, using 0", rows.LineNumber(), c.Name, cell.Reason, cell.Raw))
			}
			c.Cells = append(c.Cells, cell)
		}
		t.NumRows++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read rows")
	}

	if len(t.ParseErrors) > 0 {
		log.Warnf("%d cell(s) defaulted to 0 for pattern %s", len(t.ParseErrors), colPattern)
		for _, e := range t.ParseErrors {
			log.Debug(e)
		}
	}
	log.Infof("Loaded %d row(s) x %d column(s) for pattern %s", t.NumRows, len(t.Columns), colPattern)
	return t, nil
}

func parseCell(fields []string, idx int) Cell {
	if idx >= len(fields) {
		return DefaultCell("", Missing)
	}
	raw := fields[idx]
	v, err := strconv.ParseFloat(raw, 64)
	// Out-of-range values keep their ±Inf.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return DefaultCell(raw, NonNumeric)
	}
	return ValueCell(raw, v)
}
