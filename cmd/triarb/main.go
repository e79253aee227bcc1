// Command triarb watches a triangular arbitrage path across three Binance
// order-book streams and logs every profitable opportunity it detects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"triarb/internal/config"
	"triarb/internal/evaluator"
	"triarb/internal/ingest"
	"triarb/internal/logger"
	"triarb/internal/metrics"
	"triarb/internal/sink"
)

func main() {
	log := logger.InitGlobalLogger(logger.LogConfig{Level: envLogLevel(), Format: "json"})
	defer log.Sync()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("config: failed to load", logger.Err(err))
		os.Exit(1)
	}
	log = logger.InitGlobalLogger(logger.LogConfig{Level: cfg.LogLevel, Format: "json"})

	ctx, cancel := context.WithCancel(context.Background())

	// 1. Result sink
	var resultSink sink.Sink
	if cfg.ResultSinkPath != "" {
		resultSink = sink.NewCSVSink(cfg.ResultSinkPath, log)
	} else {
		resultSink = sink.Nop()
	}

	// 2. Metrics (METRICS_ADDR="" disables the exposition endpoint but the
	// collector still records, so the evaluator path is identical either way)
	metricsCollector := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			log.Info("metrics: listening", logger.String("addr", cfg.MetricsAddr))
			if err := metricsCollector.Serve(cfg.MetricsAddr); err != nil {
				log.Warn("metrics: server stopped", logger.Err(err))
			}
		}()
	}

	// 3. Evaluator: single goroutine owner of books + bottleneck cache.
	server := evaluator.New(cfg.Path, cfg.Server, resultSink, log, metricsCollector)

	// 4. Depth ingest runs OnUpdate synchronously on the same goroutine
	// that reads the websocket, per the concurrency model.
	streamURL := ingest.BuildStreamURL(cfg.StreamTarget, cfg.Path.Symbols())
	depthIngester := ingest.NewDepthIngester(streamURL, server.OnUpdate, log)

	go depthIngester.Run(ctx)

	log.Info("triarb: started",
		logger.String("start_currency", cfg.Path.StartCurrency),
		logger.String("stream_url", streamURL))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("triarb: shutting down")
	cancel()
	resultSink.Close()
}

func envLogLevel() string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
