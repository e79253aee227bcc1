package ingest

import (
	"fmt"
	"strings"
)

const defaultStreamHost = "wss://stream.binance.com:9443"

// BuildStreamURL assembles a combined-stream URL for the three given
// symbols, each subscribed at depth20@100ms. host overrides the default
// Binance combined-stream endpoint when non-empty (STREAM_TARGET).
func BuildStreamURL(host string, symbols [3]string) string {
	if host == "" {
		host = defaultStreamHost
	}
	streams := make([]string, 0, 3)
	for _, s := range symbols {
		streams = append(streams, fmt.Sprintf("%s@depth20@100ms", strings.ToLower(s)))
	}
	return fmt.Sprintf("%s/stream?streams=%s", strings.TrimRight(host, "/"), strings.Join(streams, "/"))
}
