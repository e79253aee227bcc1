package config

import (
	"fmt"
	"strings"

	"triarb/internal/model"
)

// ParseArbitragePath parses the textual form
// "start:sym1:ACTION,sym2:ACTION,sym3:ACTION" into a model.ArbitragePath.
//
// ACTION must be BUY or SELL, exactly three legs are required. The first
// colon splits the starting currency from the leg list; each
// comma-separated segment splits on its LAST colon into symbol and action.
//
// BUY maps to RequiresInversion=false and SELL to true. The mapping is
// fixed: recorded result data was produced under it, so it cannot change
// without invalidating comparisons against that data.
func ParseArbitragePath(s string) (model.ArbitragePath, error) {
	firstColon := strings.Index(s, ":")
	if firstColon < 0 {
		return model.ArbitragePath{}, fmt.Errorf("arbitrage path: missing base asset delimiter ':' in %q", s)
	}

	start := s[:firstColon]
	legsStr := s[firstColon+1:]

	var legs []model.TradeLeg
	for _, segment := range strings.Split(legsStr, ",") {
		if segment == "" {
			continue
		}

		lastColon := strings.LastIndex(segment, ":")
		if lastColon <= 0 {
			return model.ArbitragePath{}, fmt.Errorf("arbitrage path: invalid leg format %q", segment)
		}

		symbol := segment[:lastColon]
		action := segment[lastColon+1:]

		var requiresInversion bool
		switch action {
		case "SELL":
			requiresInversion = true
		case "BUY":
			requiresInversion = false
		default:
			return model.ArbitragePath{}, fmt.Errorf("arbitrage path: invalid action %q in leg %q", action, segment)
		}

		legs = append(legs, model.TradeLeg{Symbol: symbol, RequiresInversion: requiresInversion})
	}

	if len(legs) != 3 {
		return model.ArbitragePath{}, fmt.Errorf("arbitrage path: expected 3 legs, got %d", len(legs))
	}

	return model.ArbitragePath{
		StartCurrency: start,
		Legs:          [3]model.TradeLeg{legs[0], legs[1], legs[2]},
	}, nil
}
