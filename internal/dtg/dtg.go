// Package dtg handles the date-time-group strings used on the command line,
// e.g. 20190516T1200Z, and their display form, e.g. "16 May 2019 12Z".
package dtg

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	InputLayout   = "20060102T1504Z"
	DisplayLayout = "02 Jan 2006 15Z"
)

var ErrMinutes = errors.New("date-time-group minutes must be 00")

// Parse reads a YYYYMMDDTHH00Z group as UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InputLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date-time-group %q, want YYYYMMDDTHHMMZ", s)
	}
	if t.Minute() != 0 {
		return time.Time{}, errors.Wrapf(ErrMinutes, "%q", s)
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}

// Display parses s and returns its display form.
func Display(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

// FileSafe replaces the spaces of a display string for use in file names.
func FileSafe(display string) string {
	return strings.ReplaceAll(display, " ", "_")
}
