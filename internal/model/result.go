package model

// StartingNotional is the largest starting amount, in the path's starting
// currency, that all three legs can jointly absorb, plus the leg that
// would saturate first. Ordered solely by Notional.
type StartingNotional struct {
	Notional      float64
	BottleneckLeg string
}

// Less orders StartingNotional by Notional alone, for selecting the
// minimum across the three legs.
func (s StartingNotional) Less(other StartingNotional) bool {
	return s.Notional < other.Notional
}

// ArbitrageResult is the immutable record emitted once per processed tick.
type ArbitrageResult struct {
	Symbol         string // symbol of the triggering update
	UpdateID       int64
	RawPayload     string
	TickInitTime   int64
	ProcessTime    int64
	UnrealisedPnL  float64
	TradedNotional float64 // the starting notional actually used
	BottleneckLeg  string
	IsOpportunity  bool
	Rates          [3]float64 // per-leg effective rates, in leg order
}
