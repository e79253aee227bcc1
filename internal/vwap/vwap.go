// Package vwap implements the two VWAP sweep kernels used to translate a
// desired trade size into an average execution price against a sorted
// side of an order book.
package vwap

import (
	"math"

	"triarb/internal/model"
)

// machineEpsilon is the smallest float64 e such that 1+e != 1, computed
// once rather than hard-coded so the tolerance tracks the runtime's float
// representation. This is deliberately NOT math.SmallestNonzeroFloat64,
// which is the smallest subnormal and would make every tolerance check
// vacuously strict.
var machineEpsilon = math.Nextafter(1, 2) - 1

// Bid walks a sorted (strictly price-descending) bid side, consuming up
// to desiredBaseQuantity of base currency, and returns the volume-weighted
// average price. Returns 0 if desiredBaseQuantity is non-positive or the
// book cannot fill it within machineEpsilon*desiredBaseQuantity.
func Bid(levels []model.PriceLevel, desiredBaseQuantity float64) float64 {
	if desiredBaseQuantity <= 0 {
		return 0
	}

	var totalPriceXQuantity, totalQuantityFilled float64
	remaining := desiredBaseQuantity

	for _, level := range levels {
		if remaining <= 0 {
			break
		}
		fill := math.Min(level.Quantity, remaining)
		totalPriceXQuantity += level.Price * fill
		totalQuantityFilled += fill
		remaining -= fill
	}

	epsilon := machineEpsilon * desiredBaseQuantity
	if (desiredBaseQuantity-totalQuantityFilled) > epsilon || totalQuantityFilled <= 0 {
		return 0
	}
	return totalPriceXQuantity / totalQuantityFilled
}

// Ask walks a sorted (strictly price-ascending) ask side, spending up to
// desiredQuoteNotional of quote currency, and returns the volume-weighted
// average price (quote per base unit acquired). Returns 0 if
// desiredQuoteNotional is non-positive or the book cannot absorb it within
// machineEpsilon*desiredQuoteNotional.
func Ask(levels []model.PriceLevel, desiredQuoteNotional float64) float64 {
	if desiredQuoteNotional <= 0 {
		return 0
	}

	epsilon := machineEpsilon * desiredQuoteNotional

	var totalBaseAcquired, totalNotionalSpent float64
	remaining := desiredQuoteNotional

	for _, level := range levels {
		costToSweepLevel := level.Price * level.Quantity

		if remaining >= costToSweepLevel {
			totalBaseAcquired += level.Quantity
			totalNotionalSpent += costToSweepLevel
			remaining -= costToSweepLevel
		} else {
			baseBought := remaining / level.Price
			totalBaseAcquired += baseBought
			totalNotionalSpent += remaining
			remaining = 0
			break
		}

		if remaining <= epsilon {
			remaining = 0
			break
		}
	}

	if totalBaseAcquired > 0 && remaining <= epsilon {
		return totalNotionalSpent / totalBaseAcquired
	}
	return 0
}
