// Package sink defines where evaluated arbitrage results go: a no-op sink
// for when no output path is configured, and an async daily-rotating CSV
// sink with a channel-fed background-writer architecture.
package sink

import "triarb/internal/model"

// Sink receives one ArbitrageResult per completed evaluation.
type Sink interface {
	Write(model.ArbitrageResult) error
	// Close flushes and releases any underlying resources.
	Close() error
}

type nopSink struct{}

func (nopSink) Write(model.ArbitrageResult) error { return nil }
func (nopSink) Close() error                      { return nil }

// Nop returns a Sink that discards every result.
func Nop() Sink { return nopSink{} }
