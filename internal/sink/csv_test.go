package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"triarb/internal/model"
)

func sampleResult() model.ArbitrageResult {
	return model.ArbitrageResult{
		Symbol:         "ethbtc",
		UpdateID:       42,
		RawPayload:     `{"stream":"ethbtc@depth20@100ms","data":{}}`,
		TickInitTime:   time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC).UnixNano(),
		ProcessTime:    time.Date(2026, 7, 31, 12, 0, 0, 1500, time.UTC).UnixNano(),
		UnrealisedPnL:  -0.000012,
		TradedNotional: 0.598,
		BottleneckLeg:  "ethbtc",
		IsOpportunity:  false,
		Rates:          [3]float64{117992.29, 0.00026723, 0.03171},
	}
}

func TestCSVSinkWritesHeaderAndRow(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir, nil)

	if err := s.Write(sampleResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-07-31.csv"))
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row:\n%s", len(lines), data)
	}
	if lines[0] != csvHeader {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "ethbtc,42,") {
		t.Errorf("row = %q", lines[1])
	}
	// The raw payload contains commas and quotes, so it must be quoted.
	if !strings.HasSuffix(lines[1], `"{""stream"":""ethbtc@depth20@100ms"",""data"":{}}"`) {
		t.Errorf("raw payload not RFC-4180 quoted: %q", lines[1])
	}
}

func TestCSVSinkAppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s := NewCSVSink(dir, nil)
	if err := s.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s = NewCSVSink(dir, nil)
	if err := s.Write(sampleResult()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	data, err := os.ReadFile(filepath.Join(dir, "2026-07-31.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 1 header + 2 rows:\n%s", len(lines), data)
	}
	if lines[1] != lines[2] {
		t.Errorf("rows differ across reopen:\n%q\n%q", lines[1], lines[2])
	}
}

func TestCSVSinkRotatesByTickDay(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir, nil)

	first := sampleResult()
	second := sampleResult()
	second.TickInitTime = time.Date(2026, 8, 1, 0, 0, 1, 0, time.UTC).UnixNano()

	s.Write(first)
	s.Write(second)
	s.Close()

	for _, day := range []string{"2026-07-31", "2026-08-01"} {
		if _, err := os.Stat(filepath.Join(dir, day+".csv")); err != nil {
			t.Errorf("expected rotated file for %s: %v", day, err)
		}
	}
}

func TestQuoteCSVField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"has,comma", `"has,comma"`},
		{`has"quote`, `"has""quote"`},
		{"has\nnewline", "\"has\nnewline\""},
	}
	for _, tt := range tests {
		if got := quoteCSVField(tt.in); got != tt.want {
			t.Errorf("quoteCSVField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNopSink(t *testing.T) {
	s := Nop()
	if err := s.Write(model.ArbitrageResult{}); err != nil {
		t.Errorf("Nop Write returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Nop Close returned error: %v", err)
	}
}
