// Package config holds the evaluator's runtime knobs and the env-var
// loader that populates them.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"triarb/internal/model"
)

// ServerConfig is the evaluator's immutable, process-scoped configuration.
type ServerConfig struct {
	ProfitThreshold     float64 // additive fractional margin, e.g. 0.0001 = 1bp
	TakerFee            float64 // per-leg fractional fee, as configured
	TakerFeeSurvival    float64 // precomputed (1 - TakerFee)^3
	MaxNotionalFraction float64 // safety haircut on the bottleneck, in (0, 1]
	RecalcInterval      int     // ticks between bottleneck recomputations; 0 = every tick
	UseFirstLevelOnly   bool
}

// NewServerConfig builds a ServerConfig, precomputing the compounded fee
// survival factor once: (1 - takerFee)^3, applied multiplicatively across
// the three legs rather than as a flat additive deduction.
func NewServerConfig(profitThreshold, takerFee, maxNotionalFraction float64, recalcInterval int, useFirstLevelOnly bool) ServerConfig {
	return ServerConfig{
		ProfitThreshold:     profitThreshold,
		TakerFee:            takerFee,
		TakerFeeSurvival:    math.Pow(1-takerFee, 3),
		MaxNotionalFraction: maxNotionalFraction,
		RecalcInterval:      recalcInterval,
		UseFirstLevelOnly:   useFirstLevelOnly,
	}
}

// App is the full process configuration: the arbitrage path, the evaluator
// knobs, and the ambient transport/sink/ops settings.
type App struct {
	Path           model.ArbitragePath
	Server         ServerConfig
	StreamTarget   string
	ResultSinkPath string
	MetricsAddr    string
	LogLevel       string
}

// FromEnv loads the full App configuration from the process environment.
// Returns an error, fatal at startup, for a malformed or missing
// ARBITRAGE_PATH, a MAX_STARTING_NOTIONAL_FRACTION outside (0, 1], or a
// negative MAX_STARTING_NOTIONAL_RECALC_INTERVAL. Every other option, and
// an unset or unparseable value, falls back to its documented default.
// METRICS_ADDR defaults to ":9090" when unset; set to an empty string it
// stays empty, which disables the metrics endpoint.
func FromEnv() (App, error) {
	pathStr := getEnv("ARBITRAGE_PATH", "")
	if pathStr == "" {
		return App{}, fmt.Errorf("config: ARBITRAGE_PATH is required")
	}
	path, err := ParseArbitragePath(pathStr)
	if err != nil {
		return App{}, err
	}

	server := NewServerConfig(
		getEnvFloat("PROFIT_THRESHOLD", 0.0001),
		getEnvFloat("TAKER_FEE", 0),
		getEnvFloat("MAX_STARTING_NOTIONAL_FRACTION", 0.8),
		getEnvInt("MAX_STARTING_NOTIONAL_RECALC_INTERVAL", 0),
		getEnvBool("USE_FIRST_LEVEL_ONLY", true),
	)

	if server.MaxNotionalFraction <= 0 || server.MaxNotionalFraction > 1 {
		return App{}, fmt.Errorf("config: MAX_STARTING_NOTIONAL_FRACTION must be in (0, 1], got %v", server.MaxNotionalFraction)
	}
	if server.RecalcInterval < 0 {
		return App{}, fmt.Errorf("config: MAX_STARTING_NOTIONAL_RECALC_INTERVAL must be >= 0, got %d", server.RecalcInterval)
	}

	metricsAddr := ":9090"
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		metricsAddr = strings.TrimSpace(v)
	}

	return App{
		Path:           path,
		Server:         server,
		StreamTarget:   getEnv("STREAM_TARGET", ""),
		ResultSinkPath: getEnv("RESULT_SINK_PATH", ""),
		MetricsAddr:    metricsAddr,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}
