package ingest

import (
	"strings"
	"testing"

	"triarb/internal/model"
)

func TestDecodeCombinedStreamEnvelope(t *testing.T) {
	raw := []byte(`{"stream":"ethusdt@depth20@100ms","data":{"lastUpdateId":987654321,` +
		`"bids":[["3742.11","55.3849"],["3742.10","0.0015"]],` +
		`"asks":[["3742.12","125.1815"],["3742.13","0.3118"]]}}`)

	tick, symbol, err := decode(raw)
	if err != nil {
		t.Fatalf("decode returned error: %v", err)
	}
	if symbol != "ethusdt" {
		t.Errorf("symbol = %q, want ethusdt", symbol)
	}
	if tick.UpdateID != 987654321 {
		t.Errorf("UpdateID = %d, want 987654321", tick.UpdateID)
	}
	if len(tick.Bids) != 2 || len(tick.Asks) != 2 {
		t.Fatalf("levels = %d bids / %d asks, want 2 / 2", len(tick.Bids), len(tick.Asks))
	}
	if tick.Bids[0] != (model.PriceLevel{Price: 3742.11, Quantity: 55.3849}) {
		t.Errorf("Bids[0] = %+v", tick.Bids[0])
	}
	if tick.RawPayload != string(raw) {
		t.Error("RawPayload not carried through verbatim")
	}
	if tick.TickInitTime <= 0 {
		t.Error("TickInitTime not stamped")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json at all"},
		{"missing stream name", `{"stream":"","data":{"lastUpdateId":1,"bids":[],"asks":[]}}`},
		{"stream without separator", `{"stream":"btcusdt","data":{"lastUpdateId":1,"bids":[],"asks":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := decode([]byte(tt.raw)); err == nil {
				t.Errorf("decode(%q) expected an error, got nil", tt.raw)
			}
		})
	}
}

func TestSymbolFromStreamNameLowercases(t *testing.T) {
	symbol, err := symbolFromStreamName("BTCUSDT@depth20@100ms")
	if err != nil {
		t.Fatalf("symbolFromStreamName returned error: %v", err)
	}
	if symbol != "btcusdt" {
		t.Errorf("symbol = %q, want btcusdt", symbol)
	}
}

func TestParseLevelsTruncatesAtSortViolation(t *testing.T) {
	raw := [][]string{
		{"99.0", "1.5"},
		{"98.0", "2.5"},
		{"98.5", "1.0"}, // out of order for a descending bid side
		{"97.0", "3.5"},
	}
	levels := parseLevels(raw, descending)
	if len(levels) != 2 {
		t.Fatalf("len = %d, want 2 (truncated at first violation)", len(levels))
	}
	if levels[1].Price != 98.0 {
		t.Errorf("last kept level price = %v, want 98.0", levels[1].Price)
	}
}

func TestParseLevelsDropsUnparseableAndNonPositive(t *testing.T) {
	raw := [][]string{
		{"100.0", "1.0"},
		{"bogus", "1.0"},
		{"101.0", "0"},
		{"101.0"},
		{"101.0", "2.0"},
	}
	levels := parseLevels(raw, ascending)
	if len(levels) != 2 {
		t.Fatalf("len = %d, want 2", len(levels))
	}
	if levels[0].Price != 100.0 || levels[1].Price != 101.0 {
		t.Errorf("levels = %+v", levels)
	}
}

func TestBuildStreamURL(t *testing.T) {
	url := BuildStreamURL("", [3]string{"btcusdt", "ETHUSDT", "ethbtc"})
	want := "wss://stream.binance.com:9443/stream?streams=btcusdt@depth20@100ms/ethusdt@depth20@100ms/ethbtc@depth20@100ms"
	if url != want {
		t.Errorf("BuildStreamURL = %q, want %q", url, want)
	}

	override := BuildStreamURL("wss://example.test/", [3]string{"a", "b", "c"})
	if !strings.HasPrefix(override, "wss://example.test/stream?streams=") {
		t.Errorf("BuildStreamURL with host override = %q", override)
	}
}
