package leg

import (
	"math"
	"testing"

	"triarb/internal/model"
)

func btcusdtTick() model.OrderBookTick {
	return model.OrderBookTick{
		Symbol:   "btcusdt",
		UpdateID: 123456789,
		Asks: []model.PriceLevel{
			{Price: 100.0, Quantity: 1.0},
			{Price: 101.0, Quantity: 2.0},
			{Price: 102.0, Quantity: 3.0},
		},
		Bids: []model.PriceLevel{
			{Price: 99.0, Quantity: 1.5},
			{Price: 98.0, Quantity: 2.5},
			{Price: 97.0, Quantity: 3.5},
		},
	}
}

func TestEffectiveRateBid(t *testing.T) {
	l := model.TradeLeg{Symbol: "btcusdt", RequiresInversion: false}

	tests := []struct {
		name     string
		notional float64
		want     float64
	}{
		{"first level", 1.0, 99.0},
		{"within second level", 2.0, 98.75},
		{"zero trade size", 0.0, 0.0},
		{"negative trade size", -1.0, 0.0},
		{"insufficient depth", 10.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRate(l, btcusdtTick(), tt.notional)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EffectiveRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRateAsk(t *testing.T) {
	l := model.TradeLeg{Symbol: "btcusdt", RequiresInversion: true}

	tests := []struct {
		name     string
		notional float64
		want     float64
	}{
		{"first level", 1.0, 1 / 100.0},
		// 150.5 quote sweeps level one (100x1) and buys 0.5 base at 101.
		{"spills into second level", 150.5, 1 / (150.5 / 1.5)},
		{"zero trade size", 0.0, 0.0},
		{"negative trade size", -1.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRate(l, btcusdtTick(), tt.notional)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EffectiveRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRateEmptyBook(t *testing.T) {
	l := model.TradeLeg{Symbol: "btcusdt", RequiresInversion: false}
	empty := model.OrderBookTick{Symbol: "btcusdt"}
	if got := EffectiveRate(l, empty, 1.0); got != 0 {
		t.Errorf("EffectiveRate on empty book = %v, want 0", got)
	}
}
