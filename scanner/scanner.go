package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/trendscan/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultLookbackDays is the default intraday history window in calendar days.
	DefaultLookbackDays = 5
	// DefaultEMAPeriod is the default exponential moving average period.
	DefaultEMAPeriod = 20
	// DefaultConfirmWindow is the default number of trailing candles required
	// to confirm a trend.
	DefaultConfirmWindow = 18
	// DefaultMaxWorkers is the default maximum number of concurrent ticker
	// pipelines, capping outbound concurrency to the market data source.
	DefaultMaxWorkers = 10
)

// TrendScanner defines the requirements for running a trend scan.
type TrendScanner interface {
	// Scan runs the trend confirmation rule over the provided tickers.
	Scan(ctx context.Context, tickers []string) *shared.ScanResult
}

// ScannerConfig represents the configuration for the scanner.
type ScannerConfig struct {
	// Fetcher is the market data source for ticker series.
	Fetcher shared.MarketFetcher
	// Timeframe is the sampling interval of fetched series.
	Timeframe shared.Timeframe
	// LookbackDays is the fetched history window in calendar days.
	LookbackDays int
	// EMAPeriod is the exponential moving average period.
	EMAPeriod int
	// ConfirmWindow is the number of trailing candles confirming a trend.
	ConfirmWindow int
	// MaxWorkers is the maximum number of concurrent ticker pipelines.
	MaxWorkers int
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ScannerConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.LookbackDays <= 0 {
		errs = errors.Join(errs, fmt.Errorf("lookback days must be positive"))
	}
	if cfg.EMAPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("ema period must be positive"))
	}
	if cfg.ConfirmWindow <= 0 {
		errs = errors.Join(errs, fmt.Errorf("confirm window must be positive"))
	}
	if cfg.MaxWorkers <= 0 {
		errs = errors.Join(errs, fmt.Errorf("max workers must be positive"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Scanner scans a ticker universe for series trending above their exponential
// moving average. The scanner is stateless, every call recomputes.
type Scanner struct {
	cfg *ScannerConfig
}

// Ensure the scanner implements the TrendScanner interface.
var _ TrendScanner = (*Scanner)(nil)

// NewScanner initializes a new scanner. Zero valued config fields other than
// the fetcher and logger take scan defaults.
func NewScanner(cfg *ScannerConfig) (*Scanner, error) {
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = DefaultLookbackDays
	}
	if cfg.EMAPeriod == 0 {
		cfg.EMAPeriod = DefaultEMAPeriod
	}
	if cfg.ConfirmWindow == 0 {
		cfg.ConfirmWindow = DefaultConfirmWindow
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating scanner config: %w", err)
	}

	return &Scanner{cfg: cfg}, nil
}

// scanTicker runs one ticker's pipeline, fetching its series and evaluating
// the trend rule over it.
func (s *Scanner) scanTicker(ctx context.Context, ticker string) (TickerVerdict, error) {
	candles, err := s.cfg.Fetcher.FetchIntradayHistorical(ctx, ticker, s.cfg.Timeframe, s.cfg.LookbackDays)
	if err != nil {
		return TickerVerdict{}, err
	}

	verdict, err := Evaluate(candles, s.cfg.EMAPeriod, s.cfg.ConfirmWindow)
	if err != nil {
		return TickerVerdict{}, fmt.Errorf("evaluating %s: %w", ticker, err)
	}

	return TickerVerdict{Ticker: ticker, Verdict: verdict}, nil
}

// Scan runs the trend confirmation rule over the provided tickers.
//
// Ticker pipelines run concurrently over a bounded worker pool scoped to the
// call, fully joined before the result is aggregated. A ticker failing to
// fetch or evaluate is excluded from the result and never aborts the scan.
func (s *Scanner) Scan(ctx context.Context, tickers []string) *shared.ScanResult {
	verdicts := make(chan TickerVerdict, len(tickers))
	workers := make(chan struct{}, s.cfg.MaxWorkers)

	var wg sync.WaitGroup
	for idx := range tickers {
		workers <- struct{}{}
		wg.Add(1)
		go func(ticker string) {
			defer func() {
				<-workers
				wg.Done()
			}()

			tickerVerdict, err := s.scanTicker(ctx, ticker)
			switch {
			case errors.Is(err, shared.ErrUnavailable):
				s.cfg.Logger.Debug().Msgf("skipping %s: %v", ticker, err)
				return
			case err != nil:
				s.cfg.Logger.Error().Msgf("skipping %s: %v", ticker, err)
				return
			}

			if tickerVerdict.Verdict.Passed && tickerVerdict.Verdict.Snapshot == nil {
				s.cfg.Logger.Error().Msgf("unexpected verdict state for %s: %s",
					ticker, spew.Sdump(tickerVerdict.Verdict))
				return
			}

			verdicts <- tickerVerdict
		}(tickers[idx])
	}

	wg.Wait()
	close(verdicts)

	collected := make([]TickerVerdict, 0, len(tickers))
	for verdict := range verdicts {
		collected = append(collected, verdict)
	}

	return &shared.ScanResult{
		ID:        uuid.New().String(),
		Rows:      Aggregate(collected),
		CreatedOn: time.Now(),
	}
}
