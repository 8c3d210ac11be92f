package parser

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestFilterLinesKeepsMatchingInOrder(t *testing.T) {
	in := strings.Join([]string{
		"a box_mask x >=12.0 1",
		"b full_grid >=12.0 2",
		"c box_mask >=6.0 3",
		"d box_mask y >=12.0 4",
		"e >=12.0 box_mask 5",
	}, "\n")
	want := []string{"a box_mask x >=12.0 1", "d box_mask y >=12.0 4"}

	for run := 0; run < 2; run++ {
		got, err := FilterLines(strings.NewReader(in), regexp.MustCompile(DefaultRowPattern), nil)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Fatalf("run %d: got %q, want %q", run, got, want)
		}
	}
}

func TestLineFilterSinglePass(t *testing.T) {
	f := NewLineFilter(strings.NewReader("x\ny\nx\n"), regexp.MustCompile(`x`), nil)
	n := 0
	for f.Scan() {
		if f.Text() != "x" {
			t.Errorf("unexpected line %q", f.Text())
		}
		n++
	}
	if n != 2 || f.Kept() != 2 {
		t.Fatalf("kept %d/%d lines, want 2", n, f.Kept())
	}
	if f.Scan() {
		t.Error("spent filter yielded another line")
	}
	if f.Err() != nil {
		t.Error(f.Err())
	}
}

func TestLineFilterLogsKeptLines(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)

	if _, err := FilterLines(strings.NewReader("keep me\ndrop me\n"), regexp.MustCompile(`keep`), log); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Keeping keep me") || strings.Contains(out, "drop me") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestLineFilterLongLine(t *testing.T) {
	long := "box_mask >=12.0 " + strings.Repeat("0.5 ", 100*1024)
	got, err := FilterLines(strings.NewReader(long+"\n"), regexp.MustCompile(DefaultRowPattern), nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0] != long {
		t.Fatalf("long line not preserved")
	}
}
