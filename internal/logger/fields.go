package logger

import "go.uber.org/zap"

// Domain field constructors for the symbol/leg/notional vocabulary this
// evaluator logs against.

func Symbol(s string) zap.Field    { return zap.String("symbol", s) }
func Leg(symbol string) zap.Field  { return zap.String("leg", symbol) }
func Component(c string) zap.Field { return zap.String("component", c) }
func Category(c string) zap.Field  { return zap.String("category", c) }
func Price(p float64) zap.Field    { return zap.Float64("price", p) }
func Volume(v float64) zap.Field   { return zap.Float64("volume", v) }
func PNL(v float64) zap.Field      { return zap.Float64("pnl", v) }
func Notional(v float64) zap.Field { return zap.Float64("notional", v) }
func Latency(ms float64) zap.Field { return zap.Float64("latency_ms", ms) }
func UpdateID(id int64) zap.Field  { return zap.Int64("update_id", id) }

// Re-exported zap field constructors so callers need only import this
// package.
var (
	String  = zap.String
	Int     = zap.Int
	Int64   = zap.Int64
	Float64 = zap.Float64
	Bool    = zap.Bool
	Err     = zap.Error
	Any     = zap.Any
)
