// Package leg translates one trade leg of the arbitrage path, plus the
// notional flowing into it, into an effective conversion rate against the
// current order book for that leg's symbol.
package leg

import (
	"triarb/internal/model"
	"triarb/internal/vwap"
)

// EffectiveRate returns the rate that converts notionalIn (denominated in
// the currency flowing into this leg) into the leg's output currency:
// output = notionalIn * rate.
//
// An inverting leg sweeps the ask side for notionalIn quote units and
// inverts the resulting quote-per-base VWAP to get base-per-quote. A
// non-inverting leg sweeps the bid side directly for notionalIn base units
// and returns the quote-per-base VWAP as-is.
//
// Returns 0 if notionalIn is non-positive, either side of the book is
// empty, or the relevant VWAP walk could not fill within depth.
func EffectiveRate(l model.TradeLeg, tick model.OrderBookTick, notionalIn float64) float64 {
	if notionalIn <= 0 || len(tick.Bids) == 0 || len(tick.Asks) == 0 {
		return 0
	}

	if l.RequiresInversion {
		quotePerBase := vwap.Ask(tick.Asks, notionalIn)
		if quotePerBase <= 0 {
			return 0
		}
		return 1.0 / quotePerBase
	}

	quotePerBase := vwap.Bid(tick.Bids, notionalIn)
	if quotePerBase <= 0 {
		return 0
	}
	return quotePerBase
}
