package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/trendscan/shared"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// CachedScannerConfig represents the configuration for the cached scanner.
type CachedScannerConfig struct {
	// Scanner is the wrapped trend scanner.
	Scanner TrendScanner
	// TTL is the duration a scan result is reused for.
	TTL time.Duration
	// Now is the clock used to age cached results.
	Now func() time.Time
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *CachedScannerConfig) Validate() error {
	var errs error

	if cfg.Scanner == nil {
		errs = errors.Join(errs, fmt.Errorf("wrapped scanner cannot be nil"))
	}
	if cfg.TTL <= 0 {
		errs = errors.Join(errs, fmt.Errorf("cache ttl must be positive"))
	}
	if cfg.Now == nil {
		errs = errors.Join(errs, fmt.Errorf("clock cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// cacheEntry pairs a scan result with the time it was stored.
type cacheEntry struct {
	result   *shared.ScanResult
	storedAt time.Time
}

// CachedScanner decorates a trend scanner with time boxed reuse of the last
// scan result. The wrapped scanner stays stateless, all temporal state lives
// here.
type CachedScanner struct {
	cfg   *CachedScannerConfig
	entry atomic.Pointer[cacheEntry]
	mtx   sync.Mutex
}

// Ensure the cached scanner implements the TrendScanner interface.
var _ TrendScanner = (*CachedScanner)(nil)

// NewCachedScanner initializes a new cached scanner.
func NewCachedScanner(cfg *CachedScannerConfig) (*CachedScanner, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating cached scanner config: %w", err)
	}

	return &CachedScanner{cfg: cfg}, nil
}

// fresh asserts the provided entry is inside its reuse window.
func (c *CachedScanner) fresh(entry *cacheEntry) bool {
	return entry != nil && c.cfg.Now().Sub(entry.storedAt) < c.cfg.TTL
}

// Scan returns the cached result while it is fresh, recomputing through the
// wrapped scanner otherwise. Safe for concurrent callers, only one recompute
// runs at a time.
func (c *CachedScanner) Scan(ctx context.Context, tickers []string) *shared.ScanResult {
	if entry := c.entry.Load(); c.fresh(entry) {
		c.cfg.Logger.Debug().Msgf("reusing scan result %s", entry.result.ID)
		return entry.result
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if entry := c.entry.Load(); c.fresh(entry) {
		return entry.result
	}

	result := c.cfg.Scanner.Scan(ctx, tickers)
	c.entry.Store(&cacheEntry{result: result, storedAt: c.cfg.Now()})

	return result
}
