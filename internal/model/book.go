// Package model holds the data types shared by the orderbook cache, the
// VWAP/leg/notional calculators, and the evaluator: price levels, book
// ticks, the arbitrage path, and the result record emitted per tick.
package model

// PriceLevel is one level of liquidity on one side of a book.
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// OrderBookTick is a single side-of-book snapshot for one symbol.
//
// Bids must be strictly decreasing by price, asks strictly increasing;
// the ingest decoder is responsible for that invariant, not the evaluator.
type OrderBookTick struct {
	Symbol       string
	UpdateID     int64
	Bids         []PriceLevel
	Asks         []PriceLevel
	TickInitTime int64 // nanoseconds since epoch, set by ingress
	RawPayload   string
}

// BestBid returns the top-of-book bid, or the zero level if bids is empty.
func (t OrderBookTick) BestBid() PriceLevel {
	if len(t.Bids) == 0 {
		return PriceLevel{}
	}
	return t.Bids[0]
}

// BestAsk returns the top-of-book ask, or the zero level if asks is empty.
func (t OrderBookTick) BestAsk() PriceLevel {
	if len(t.Asks) == 0 {
		return PriceLevel{}
	}
	return t.Asks[0]
}
