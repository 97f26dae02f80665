package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/trendscan/fetch"
	"github.com/dnldd/trendscan/notify"
	"github.com/dnldd/trendscan/scanner"
	"github.com/dnldd/trendscan/shared"
	"github.com/dnldd/trendscan/universe"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// ScanServiceConfig represents the configuration struct for the scan service.
type ScanServiceConfig struct {
	// UniverseURL is the ticker universe listing url.
	UniverseURL string
	// ChartBaseURL is the market data chart api base url.
	ChartBaseURL string
	// Proxy is an optional proxy url for outbound market data requests.
	Proxy string
	// TelegramBotToken is the telegram bot api token.
	TelegramBotToken string
	// TelegramChatIDs are the destination chats for scan results. With no
	// chats configured notification is skipped entirely.
	TelegramChatIDs []string
	// TelegramBaseURL is the telegram bot api base url.
	TelegramBaseURL string
	// ScanInterval is the period between scheduled scans.
	ScanInterval time.Duration
	// CacheTTL is the duration a scan result is reused for.
	CacheTTL time.Duration
	// MaxWorkers is the maximum number of concurrent ticker pipelines.
	MaxWorkers int
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *ScanServiceConfig) Validate() error {
	var errs error

	if cfg.ScanInterval <= 0 {
		errs = errors.Join(errs, fmt.Errorf("scan interval must be positive"))
	}
	if cfg.CacheTTL <= 0 {
		errs = errors.Join(errs, fmt.Errorf("cache ttl must be positive"))
	}
	if cfg.MaxWorkers <= 0 {
		errs = errors.Join(errs, fmt.Errorf("max workers must be positive"))
	}
	if cfg.TelegramBotToken == "" && len(cfg.TelegramChatIDs) > 0 {
		errs = errors.Join(errs, fmt.Errorf("telegram chat ids provided without a bot token"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// ScanService represents the ema trend scanning service.
type ScanService struct {
	cfg          *ScanServiceConfig
	universe     shared.UniverseSource
	scanner      scanner.TrendScanner
	notifier     shared.Notifier
	jobScheduler *gocron.Scheduler
	logger       *zerolog.Logger
	wg           sync.WaitGroup
}

// NewScanService initializes a new scan service.
func NewScanService(cfg *ScanServiceConfig) (*ScanService, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if cfg.UniverseURL == "" {
		cfg.UniverseURL = universe.ConstituentsURL
	}
	if cfg.ChartBaseURL == "" {
		cfg.ChartBaseURL = fetch.BaseURL
	}
	if cfg.TelegramBaseURL == "" {
		cfg.TelegramBaseURL = notify.BaseURL
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating scan service config: %w", err)
	}

	logger := log.With().Str("service", "trendscan").Logger()

	fetchLogger := logger.With().Str("component", "fetch").Logger()
	chartClient, err := fetch.NewYahooClient(&fetch.YahooConfig{
		BaseURL: cfg.ChartBaseURL,
		Proxy:   cfg.Proxy,
		Logger:  &fetchLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chart client: %w", err)
	}

	universeLogger := logger.With().Str("component", "universe").Logger()
	universeSource, err := universe.NewSP500Source(&universe.SP500Config{
		URL:    cfg.UniverseURL,
		Logger: &universeLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating universe source: %w", err)
	}

	scannerLogger := logger.With().Str("component", "scanner").Logger()
	trendScanner, err := scanner.NewScanner(&scanner.ScannerConfig{
		Fetcher:    chartClient,
		Timeframe:  shared.OneHour,
		MaxWorkers: cfg.MaxWorkers,
		Logger:     &scannerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	cacheLogger := logger.With().Str("component", "cache").Logger()
	cachedScanner, err := scanner.NewCachedScanner(&scanner.CachedScannerConfig{
		Scanner: trendScanner,
		TTL:     cfg.CacheTTL,
		Now:     time.Now,
		Logger:  &cacheLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cached scanner: %w", err)
	}

	var notifier shared.Notifier
	if cfg.TelegramBotToken != "" && len(cfg.TelegramChatIDs) > 0 {
		notifyLogger := logger.With().Str("component", "notify").Logger()
		notifier, err = notify.NewTelegramNotifier(&notify.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatIDs:  cfg.TelegramChatIDs,
			BaseURL:  cfg.TelegramBaseURL,
			Logger:   &notifyLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating telegram notifier: %w", err)
		}
	}

	// Scheduled scans follow the market clock.
	_, loc, err := shared.NewYorkTime()
	if err != nil {
		return nil, fmt.Errorf("fetching new york time: %w", err)
	}

	service := &ScanService{
		cfg:          cfg,
		universe:     universeSource,
		scanner:      cachedScanner,
		notifier:     notifier,
		jobScheduler: gocron.NewScheduler(loc),
		logger:       &logger,
	}

	return service, nil
}

// ScanNow lists the ticker universe and runs a scan over it. Only a universe
// listing failure is fatal to the run, a scan with no passing tickers
// succeeds with an empty result.
func (s *ScanService) ScanNow(ctx context.Context) (*shared.ScanResult, error) {
	tickers, err := s.universe.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ticker universe: %w", err)
	}

	result := s.scanner.Scan(ctx, tickers)
	s.logger.Info().Msgf("scan %s: %d of %d tickers trending above their ema",
		result.ID, len(result.Rows), len(tickers))
	if len(result.Rows) > 0 {
		s.logger.Info().Msg("\n" + result.String())
	}

	if s.notifier != nil {
		// Notification must never block or fail the computed result.
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.notifier.Notify(ctx, result)
		}()
	}

	return result, nil
}

// Run handles the lifecycle processes of the scan service.
func (s *ScanService) Run(ctx context.Context) {
	_, err := s.jobScheduler.Every(s.cfg.ScanInterval).StartImmediately().Do(func() {
		_, err := s.ScanNow(ctx)
		if err != nil {
			s.logger.Error().Msgf("running scheduled scan: %v", err)
		}
	})
	if err != nil {
		s.logger.Error().Msgf("scheduling scans: %v", err)
		s.cfg.Cancel()
		return
	}

	s.jobScheduler.StartAsync()

	<-ctx.Done()
	s.jobScheduler.Stop()
	s.wg.Wait()
}
