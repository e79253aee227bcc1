// Package notional computes the starting-notional bottleneck across the
// three legs of an arbitrage path: the largest amount, denominated in the
// path's starting currency, that every leg can absorb at current book
// depth.
package notional

import "triarb/internal/model"

func sumBaseQuantity(levels []model.PriceLevel) float64 {
	var total float64
	for _, l := range levels {
		total += l.Quantity
	}
	return total
}

func sumQuoteValue(levels []model.PriceLevel) float64 {
	var total float64
	for _, l := range levels {
		total += l.Price * l.Quantity
	}
	return total
}

func bookSideValue(levels []model.PriceLevel, sumBase bool) float64 {
	if sumBase {
		return sumBaseQuantity(levels)
	}
	return sumQuoteValue(levels)
}

func legSide(l model.TradeLeg, tick model.OrderBookTick) []model.PriceLevel {
	if l.RequiresInversion {
		return tick.Asks
	}
	return tick.Bids
}

func minOf(a, b, c model.StartingNotional) model.StartingNotional {
	min := a
	if b.Less(min) {
		min = b
	}
	if c.Less(min) {
		min = c
	}
	return min
}

// FullDepth computes the bottleneck leg and the maximum starting notional
// using the entire depth of each book.
func FullDepth(path model.ArbitragePath, books map[string]model.OrderBookTick) model.StartingNotional {
	leg1 := path.Legs[0]
	tick1 := books[leg1.Symbol]
	levels1 := legSide(leg1, tick1)

	var totalQuoteValueLeg1, totalBaseQuantityLeg1 float64
	for _, level := range levels1 {
		totalQuoteValueLeg1 += level.Price * level.Quantity
		totalBaseQuantityLeg1 += level.Quantity
	}

	firstLegValue := totalBaseQuantityLeg1
	if leg1.RequiresInversion {
		firstLegValue = totalQuoteValueLeg1
	}
	leg1Notional := model.StartingNotional{Notional: firstLegValue, BottleneckLeg: leg1.Symbol}

	leg2 := path.Legs[1]
	tick2 := books[leg2.Symbol]
	levels2 := legSide(leg2, tick2)

	secondLegIntermediate := bookSideValue(levels2, !leg2.RequiresInversion)
	effectivePriceLeg1 := totalQuoteValueLeg1 / totalBaseQuantityLeg1

	var secondLegValue float64
	if leg1.RequiresInversion {
		secondLegValue = secondLegIntermediate * effectivePriceLeg1
	} else {
		secondLegValue = secondLegIntermediate / effectivePriceLeg1
	}
	leg2Notional := model.StartingNotional{Notional: secondLegValue, BottleneckLeg: leg2.Symbol}

	leg3 := path.Legs[2]
	tick3 := books[leg3.Symbol]
	levels3 := legSide(leg3, tick3)
	thirdLegValue := bookSideValue(levels3, leg3.RequiresInversion)
	leg3Notional := model.StartingNotional{Notional: thirdLegValue, BottleneckLeg: leg3.Symbol}

	return minOf(leg1Notional, leg2Notional, leg3Notional)
}

// FirstLevelOnly computes the same bottleneck using only the top-of-book
// level on each side, a conservative fast estimate suitable for rapid
// recomputation.
func FirstLevelOnly(path model.ArbitragePath, books map[string]model.OrderBookTick) model.StartingNotional {
	leg1 := path.Legs[0]
	tick1 := books[leg1.Symbol]
	bestBid1, bestAsk1 := tick1.BestBid(), tick1.BestAsk()

	firstLegValue := bestBid1.Quantity
	if leg1.RequiresInversion {
		firstLegValue = bestAsk1.Quantity * bestAsk1.Price
	}
	leg1Notional := model.StartingNotional{Notional: firstLegValue, BottleneckLeg: leg1.Symbol}

	leg2 := path.Legs[1]
	tick2 := books[leg2.Symbol]
	bestBid2, bestAsk2 := tick2.BestBid(), tick2.BestAsk()

	secondLegIntermediate := bestBid2.Quantity
	if leg2.RequiresInversion {
		secondLegIntermediate = bestAsk2.Quantity * bestAsk2.Price
	}

	var secondLegValue float64
	if leg1.RequiresInversion {
		secondLegValue = secondLegIntermediate * bestAsk1.Price
	} else {
		secondLegValue = secondLegIntermediate / bestBid1.Price
	}
	leg2Notional := model.StartingNotional{Notional: secondLegValue, BottleneckLeg: leg2.Symbol}

	leg3 := path.Legs[2]
	tick3 := books[leg3.Symbol]
	bestBid3, bestAsk3 := tick3.BestBid(), tick3.BestAsk()

	thirdLegValue := bestBid3.Quantity * bestBid3.Price
	if leg3.RequiresInversion {
		thirdLegValue = bestAsk3.Quantity
	}
	leg3Notional := model.StartingNotional{Notional: thirdLegValue, BottleneckLeg: leg3.Symbol}

	return minOf(leg1Notional, leg2Notional, leg3Notional)
}
