package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"triarb/internal/logger"
	"triarb/internal/model"
)

// =============================================================================
// ASYNC CSV SINK
// =============================================================================
//
// Architecture:
//   evaluator goroutine → ch (buffered) → sink goroutine → daily CSV
//
// Hot path sends via a non-blocking select and drops the row if the channel
// is full; the writer goroutine batches with bufio and flushes on a ticker,
// rotating to a new file at each UTC day boundary.
//
// Columns: symbol,update_id,tick_init_time,process_time,unrealised_pnl,
// traded_notional,bottleneck_leg,is_opportunity,rate_leg1,rate_leg2,
// rate_leg3,raw_payload
// =============================================================================

const (
	chanSize    = 4096
	bufSize     = 1 << 16
	flushPeriod = 1 * time.Second
)

var csvHeader = "symbol,update_id,tick_init_time,process_time,unrealised_pnl," +
	"traded_notional,bottleneck_leg,is_opportunity,rate_leg1,rate_leg2,rate_leg3,raw_payload"

// CSVSink asynchronously appends ArbitrageResults to a daily-rotating CSV
// file rooted at dir.
type CSVSink struct {
	ch     chan model.ArbitrageResult
	done   chan struct{}
	closed chan struct{}
}

// NewCSVSink creates a CSVSink writing under dir and starts its background
// writer goroutine. log may be nil.
func NewCSVSink(dir string, log *logger.Logger) *CSVSink {
	s := &CSVSink{
		ch:     make(chan model.ArbitrageResult, chanSize),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go s.run(dir, log)
	return s
}

// Write is a non-blocking send: if the writer goroutine is backed up, the
// row is dropped rather than stalling the evaluator's hot path.
func (s *CSVSink) Write(r model.ArbitrageResult) error {
	select {
	case s.ch <- r:
		return nil
	default:
		return errDropped
	}
}

var errDropped = fmt.Errorf("sink: csv writer backed up, row dropped")

// Close signals the writer goroutine to flush and exit, and waits for it.
func (s *CSVSink) Close() error {
	close(s.done)
	<-s.closed
	return nil
}

func (s *CSVSink) run(dir string, log *logger.Logger) {
	defer close(s.closed)

	if err := os.MkdirAll(dir, 0755); err != nil {
		if log != nil {
			log.Error("sink: failed to create output dir", logger.String("dir", dir), logger.Err(err), logger.Category("sink"))
		}
		return
	}

	var (
		currentDay string
		file       *os.File
		writer     *bufio.Writer
	)

	openFile := func(day string) {
		if file != nil {
			writer.Flush()
			file.Close()
		}
		path := filepath.Join(dir, day+".csv")
		var err error
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			if log != nil {
				log.Error("sink: failed to open output file", logger.String("path", path), logger.Err(err), logger.Category("sink"))
			}
			file, writer = nil, nil
			return
		}
		writer = bufio.NewWriterSize(file, bufSize)
		info, _ := file.Stat()
		if info != nil && info.Size() == 0 {
			fmt.Fprintln(writer, csvHeader)
		}
		currentDay = day
	}

	ticker := time.NewTicker(flushPeriod)
	defer ticker.Stop()

	flushAndClose := func() {
		if writer != nil {
			writer.Flush()
		}
		if file != nil {
			file.Close()
		}
	}

	for {
		select {
		case r := <-s.ch:
			day := time.Unix(0, r.TickInitTime).UTC().Format("2006-01-02")
			if day != currentDay || writer == nil {
				openFile(day)
			}
			if writer == nil {
				continue
			}
			writeRow(writer, r)

		case <-ticker.C:
			if writer != nil {
				writer.Flush()
			}

		case <-s.done:
			// Drain whatever is already queued before shutting down.
			for {
				select {
				case r := <-s.ch:
					day := time.Unix(0, r.TickInitTime).UTC().Format("2006-01-02")
					if day != currentDay || writer == nil {
						openFile(day)
					}
					if writer != nil {
						writeRow(writer, r)
					}
				default:
					flushAndClose()
					return
				}
			}
		}
	}
}

func writeRow(w *bufio.Writer, r model.ArbitrageResult) {
	w.WriteString(r.Symbol)
	w.WriteByte(',')
	w.WriteString(strconv.FormatInt(r.UpdateID, 10))
	w.WriteByte(',')
	w.WriteString(strconv.FormatInt(r.TickInitTime, 10))
	w.WriteByte(',')
	w.WriteString(strconv.FormatInt(r.ProcessTime, 10))
	w.WriteByte(',')
	w.WriteString(strconv.FormatFloat(r.UnrealisedPnL, 'f', -1, 64))
	w.WriteByte(',')
	w.WriteString(strconv.FormatFloat(r.TradedNotional, 'f', -1, 64))
	w.WriteByte(',')
	w.WriteString(r.BottleneckLeg)
	w.WriteByte(',')
	w.WriteString(strconv.FormatBool(r.IsOpportunity))
	for _, rate := range r.Rates {
		w.WriteByte(',')
		w.WriteString(strconv.FormatFloat(rate, 'f', -1, 64))
	}
	w.WriteByte(',')
	w.WriteString(quoteCSVField(r.RawPayload))
	w.WriteByte('\n')
}

// quoteCSVField wraps a field in double quotes (doubling embedded quotes)
// whenever it could otherwise corrupt the column structure, per RFC 4180.
func quoteCSVField(s string) string {
	needsQuoting := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',', '"', '\n', '\r':
			needsQuoting = true
		}
		if needsQuoting {
			break
		}
	}
	if !needsQuoting {
		return s
	}
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"', '"')
		} else {
			out = append(out, s[i])
		}
	}
	out = append(out, '"')
	return string(out)
}
