// Package ingest connects to a combined Binance-style partial-depth
// websocket stream carrying all three legs of an arbitrage path and
// delivers each decoded update to the evaluator's OnUpdate method.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"triarb/internal/logger"
	"triarb/internal/model"
)

const (
	reconnectDelay = 1 * time.Second
	maxReconnect   = 30 * time.Second
	dialTimeout    = 30 * time.Second
)

// Handler is called once per decoded, sort-valid order book tick.
type Handler func(model.OrderBookTick)

// streamEnvelope matches the combined-stream wrapper Binance sends when a
// client subscribes via .../stream?streams=a/b/c:
// {"stream": "<symbol>@depth<N>@<interval>ms", "data": {...}}.
type streamEnvelope struct {
	Stream string       `json:"stream"`
	Data   depthPayload `json:"data"`
}

// depthPayload matches a single partial-depth snapshot: lastUpdateId plus
// [price_string, quantity_string] pairs on each side.
type depthPayload struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// DepthIngester dials url and emits each decoded tick to handler, until ctx
// is cancelled. It reconnects with exponential backoff (1s, doubling, capped
// at 30s) on any read or dial error.
type DepthIngester struct {
	url     string
	handler Handler
	log     *logger.Logger
	dialer  *websocket.Dialer
}

// NewDepthIngester builds an ingester for the given combined-stream URL.
// log may be nil.
func NewDepthIngester(url string, handler Handler, log *logger.Logger) *DepthIngester {
	return &DepthIngester{
		url:     url,
		handler: handler,
		log:     log,
		dialer:  &websocket.Dialer{HandshakeTimeout: dialTimeout},
	}
}

// Run blocks, dialing and re-dialing until ctx is cancelled.
func (d *DepthIngester) Run(ctx context.Context) {
	delay := reconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := d.connectAndConsume(ctx)
		if err == nil {
			delay = reconnectDelay
			continue
		}

		if d.log != nil {
			d.log.Warn("ingest: connection lost, reconnecting",
				logger.Err(err), logger.Category("transport"), logger.Component("ingest"), logger.Float64("delay_s", delay.Seconds()))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxReconnect {
			delay = maxReconnect
		}
	}
}

func (d *DepthIngester) connectAndConsume(ctx context.Context) error {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return fmt.Errorf("ingest: dial: %w", err)
	}
	defer conn.Close()

	if d.log != nil {
		d.log.Info("ingest: connected", logger.String("url", d.url), logger.Component("ingest"))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("ingest: read: %w", err)
		}

		tick, symbol, err := decode(raw)
		if err != nil {
			if d.log != nil {
				d.log.Warn("ingest: decode error", logger.Err(err), logger.Category("decode"), logger.Component("ingest"))
			}
			continue
		}

		tick.Symbol = symbol
		d.handler(tick)
	}
}

// decode parses one combined-stream envelope into an OrderBookTick,
// truncating each side at the first book-ordering violation (levels are not
// re-sorted): bids must be strictly descending by price, asks strictly
// ascending. The raw payload
// is carried through unmodified for the sink's audit column.
func decode(raw []byte) (model.OrderBookTick, string, error) {
	var env streamEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.OrderBookTick{}, "", fmt.Errorf("unmarshal envelope: %w", err)
	}

	symbol, err := symbolFromStreamName(env.Stream)
	if err != nil {
		return model.OrderBookTick{}, "", err
	}

	bids := parseLevels(env.Data.Bids, descending)
	asks := parseLevels(env.Data.Asks, ascending)

	tick := model.OrderBookTick{
		UpdateID:     env.Data.LastUpdateID,
		Bids:         bids,
		Asks:         asks,
		TickInitTime: time.Now().UnixNano(),
		RawPayload:   string(raw),
	}
	return tick, symbol, nil
}

// symbolFromStreamName extracts "btcusdt" from "btcusdt@depth20@100ms". The
// symbol is lowercased to match the exchange's own convention and how
// ARBITRAGE_PATH symbols are supplied.
func symbolFromStreamName(stream string) (string, error) {
	idx := strings.IndexByte(stream, '@')
	if idx <= 0 {
		return "", fmt.Errorf("malformed stream name %q", stream)
	}
	return strings.ToLower(stream[:idx]), nil
}

type sortOrder int

const (
	descending sortOrder = iota
	ascending
)

// parseLevels converts [price, quantity] string pairs into PriceLevels,
// truncating at the first level that violates the book's required sort
// order rather than rejecting the whole tick.
func parseLevels(raw [][]string, order sortOrder) []model.PriceLevel {
	levels := make([]model.PriceLevel, 0, len(raw))
	var prevPrice float64
	for _, pair := range raw {
		if len(pair) < 2 {
			continue
		}
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseFloat(pair[1], 64)
		if err != nil || qty <= 0 {
			continue
		}

		if len(levels) > 0 {
			violated := (order == descending && price >= prevPrice) || (order == ascending && price <= prevPrice)
			if violated {
				break
			}
		}

		levels = append(levels, model.PriceLevel{Price: price, Quantity: qty})
		prevPrice = price
	}
	return levels
}
