// Package evaluator implements the triangular-arbitrage tick evaluator: the
// single-goroutine loop that folds an incoming order-book tick into the
// cached books, recomputes the starting-notional bottleneck on its
// configured cadence, walks the three legs at current depth, and classifies
// the result as an opportunity or not.
package evaluator

import (
	"triarb/internal/config"
	"triarb/internal/leg"
	"triarb/internal/logger"
	"triarb/internal/metrics"
	"triarb/internal/model"
	"triarb/internal/notional"
	"triarb/internal/orderbook"
	"triarb/internal/sink"
)

// Server is the evaluator's runtime state. It is owned and mutated by
// exactly one goroutine, the caller of OnUpdate, and carries no locks.
type Server struct {
	path    model.ArbitragePath
	cfg     config.ServerConfig
	books   *orderbook.Cache
	sink    sink.Sink
	log     *logger.Logger
	metrics *metrics.Collector

	ticksRemainingBeforeRecalc int
	cachedBottleneck           model.StartingNotional
	haveBottleneck             bool
	currentNotional            float64
}

// New constructs a Server for the given path and configuration. sink, log,
// and metricsCollector may be nil; nil sink falls back to sink.Nop, nil log
// and nil metricsCollector disable their respective side effects.
func New(path model.ArbitragePath, cfg config.ServerConfig, s sink.Sink, log *logger.Logger, metricsCollector *metrics.Collector) *Server {
	if s == nil {
		s = sink.Nop()
	}
	return &Server{
		path:    path,
		cfg:     cfg,
		books:   orderbook.NewCache(),
		sink:    s,
		log:     log,
		metrics: metricsCollector,
	}
}

// OnUpdate folds one order-book tick into the evaluator's state and, if the
// tick completes the path's three-symbol set, evaluates the path and emits
// a result:
//
//  1. ingest the tick into the book cache
//  2. gate on all three symbols being present
//  3. recompute (or reuse) the starting-notional bottleneck
//  4. apply the safety haircut
//  5. walk the three legs, aborting on any non-positive rate
//  6. apply the compounded taker-fee survival factor
//  7. compute PnL and classify against the profit threshold
//  8. emit the result
func (s *Server) OnUpdate(tick model.OrderBookTick) {
	processStart := nowFunc()

	s.books.Put(tick)
	if s.metrics != nil {
		s.metrics.ObserveTickIngested(tick.Symbol)
	}

	symbols := s.path.Symbols()
	if !s.books.HasAll(symbols) {
		if s.metrics != nil {
			s.metrics.ObserveTickSkipped("awaiting_books")
		}
		return
	}

	bottleneck := s.bottleneck()
	if bottleneck.Notional <= 0 {
		if s.metrics != nil {
			s.metrics.ObserveTickSkipped("zero_bottleneck")
		}
		if s.log != nil {
			s.log.Debug("skipping tick: zero starting notional", logger.Symbol(tick.Symbol), logger.Component("evaluator"))
		}
		return
	}

	startingNotional := bottleneck.Notional * s.cfg.MaxNotionalFraction
	books := s.books.Snapshot()

	notionalIn := startingNotional
	var rates [3]float64
	for i, l := range s.path.Legs {
		bookTick, ok := books[l.Symbol]
		if !ok {
			return
		}
		rate := leg.EffectiveRate(l, bookTick, notionalIn)
		if rate <= 0 {
			if s.metrics != nil {
				s.metrics.ObserveTickSkipped("dry_leg")
			}
			if s.log != nil {
				s.log.Debug("skipping tick: dry leg", logger.Symbol(l.Symbol), logger.Component("evaluator"))
			}
			return
		}
		rates[i] = rate
		notionalIn *= rate
	}

	grossFinalNotional := notionalIn
	netFinalNotional := grossFinalNotional * s.cfg.TakerFeeSurvival
	unrealisedPnL := netFinalNotional - startingNotional
	isOpportunity := netFinalNotional >= startingNotional*(1+s.cfg.ProfitThreshold)
	if isOpportunity {
		s.currentNotional = netFinalNotional
		if s.log != nil {
			s.log.Info("arbitrage opportunity",
				logger.Symbol(tick.Symbol),
				logger.PNL(unrealisedPnL),
				logger.Notional(netFinalNotional),
				logger.Leg(bottleneck.BottleneckLeg),
				logger.Component("evaluator"))
		}
	}

	processTime := nowFunc()
	result := model.ArbitrageResult{
		Symbol:         tick.Symbol,
		UpdateID:       tick.UpdateID,
		RawPayload:     tick.RawPayload,
		TickInitTime:   tick.TickInitTime,
		ProcessTime:    processTime,
		UnrealisedPnL:  unrealisedPnL,
		TradedNotional: startingNotional,
		BottleneckLeg:  bottleneck.BottleneckLeg,
		IsOpportunity:  isOpportunity,
		Rates:          rates,
	}

	if s.metrics != nil {
		s.metrics.ObserveEvaluation(isOpportunity, unrealisedPnL, processTime-processStart)
	}
	if err := s.sink.Write(result); err != nil && s.log != nil {
		s.log.Error("sink write failed", logger.Err(err), logger.Category("sink"), logger.Component("evaluator"))
	}
}

// CurrentNotional returns the net final notional of the most recent
// evaluation classified as an opportunity, or 0 if none has occurred yet.
func (s *Server) CurrentNotional() float64 {
	return s.currentNotional
}

// bottleneck returns the current starting-notional bottleneck, recomputing
// it only when the recalc-interval countdown reaches zero (or has never run
// before). RecalcInterval == 0 means recompute on every tick.
func (s *Server) bottleneck() model.StartingNotional {
	if s.haveBottleneck && s.ticksRemainingBeforeRecalc > 0 {
		s.ticksRemainingBeforeRecalc--
		return s.cachedBottleneck
	}

	books := s.books.Snapshot()
	var result model.StartingNotional
	if s.cfg.UseFirstLevelOnly {
		result = notional.FirstLevelOnly(s.path, books)
	} else {
		result = notional.FullDepth(s.path, books)
	}

	s.cachedBottleneck = result
	s.haveBottleneck = true
	s.ticksRemainingBeforeRecalc = s.cfg.RecalcInterval
	return result
}
