package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

const maxLineBytes = 4 * 1024 * 1024

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return sc
}

// LineFilter walks the lines of a reader and stops only on lines where the
// pattern matches somewhere. It is single pass: once Scan returns false the
// filter is spent.
type LineFilter struct {
	sc      *bufio.Scanner
	pattern *regexp.Regexp
	log     logrus.FieldLogger
	line    string
	lineNo  int
	kept    int
}

// NewLineFilter returns a filter over r. A nil logger discards output.
func NewLineFilter(r io.Reader, pattern *regexp.Regexp, log logrus.FieldLogger) *LineFilter {
	return newLineFilter(newScanner(r), 0, pattern, log)
}

func newLineFilter(sc *bufio.Scanner, lineNo int, pattern *regexp.Regexp, log logrus.FieldLogger) *LineFilter {
	if log == nil {
		log = discardLogger()
	}
	return &LineFilter{sc: sc, pattern: pattern, log: log, lineNo: lineNo}
}

// Scan advances to the next matching line.
func (f *LineFilter) Scan() bool {
	for f.sc.Scan() {
		f.lineNo++
		line := strings.TrimRight(f.sc.Text(), "\r")
		if !f.pattern.MatchString(line) {
			continue
		}
		f.line = line
		f.kept++
		f.log.WithField("line", f.lineNo).Infof("Keeping %s", line)
		return true
	}
	f.line = ""
	return false
}

// Text returns the line found by the last successful Scan.
func (f *LineFilter) Text() string { return f.line }

// LineNumber is the 1-based input line of the current match.
func (f *LineFilter) LineNumber() int { return f.lineNo }

// Kept is the number of lines yielded so far.
func (f *LineFilter) Kept() int { return f.kept }

func (f *LineFilter) Err() error { return f.sc.Err() }

// FilterLines collects every matching line of r.
func FilterLines(r io.Reader, pattern *regexp.Regexp, log logrus.FieldLogger) ([]string, error) {
	f := NewLineFilter(r, pattern, log)
	var lines []string
	for f.Scan() {
		lines = append(lines, f.Text())
	}
	return lines, f.Err()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
