package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/dnldd/trendscan/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the yahoo finance chart api base url.
	BaseURL = "https://query1.finance.yahoo.com"
	// userAgent is the user agent header sent with chart api requests, the
	// api rejects requests without a browser user agent.
	userAgent = "Mozilla/5.0"
	// requestTimeout is the timeout for chart api requests.
	requestTimeout = time.Second * 5
)

// YahooConfig represents the configuration for the yahoo chart api client.
type YahooConfig struct {
	// BaseURL is the chart api base url.
	BaseURL string
	// Proxy is an optional proxy url for outbound requests.
	Proxy string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *YahooConfig) Validate() error {
	var errs error

	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("base url cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// YahooClient represents the yahoo finance chart api client.
type YahooClient struct {
	cfg   *YahooConfig
	httpc http.Client
}

// Ensure the yahoo client implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*YahooClient)(nil)

// NewYahooClient initializes a new yahoo chart api client.
func NewYahooClient(cfg *YahooConfig) (*YahooClient, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating yahoo client config: %w", err)
	}

	transport := &http.Transport{}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &YahooClient{
		cfg: cfg,
		httpc: http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}, nil
}

// parseChart parses candlesticks from the provided chart api response body.
func parseChart(body []byte, ticker string, timeframe shared.Timeframe) []shared.Candlestick {
	chart := gjson.GetBytes(body, "chart")
	if chart.Get("error").Type != gjson.Null {
		return nil
	}

	result := chart.Get("result.0")
	if !result.Exists() {
		return nil
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	if len(opens) < len(timestamps) || len(highs) < len(timestamps) ||
		len(lows) < len(timestamps) || len(closes) < len(timestamps) ||
		len(volumes) < len(timestamps) {
		return nil
	}

	candles := make([]shared.Candlestick, 0, len(timestamps))
	for idx := range timestamps {
		// Skip null bars (holidays, halts).
		if opens[idx].Type == gjson.Null || highs[idx].Type == gjson.Null ||
			lows[idx].Type == gjson.Null || closes[idx].Type == gjson.Null {
			continue
		}

		candles = append(candles, shared.Candlestick{
			Open:      opens[idx].Float(),
			High:      highs[idx].Float(),
			Low:       lows[idx].Float(),
			Close:     closes[idx].Float(),
			Volume:    volumes[idx].Float(),
			Date:      time.Unix(timestamps[idx].Int(), 0),
			Market:    ticker,
			Timeframe: timeframe,
		})
	}

	slices.SortFunc(candles, func(a, b shared.Candlestick) int {
		return a.Date.Compare(b.Date)
	})

	return candles
}

// FetchIntradayHistorical fetches intraday historical market data for the
// provided ticker, covering the provided lookback window in days.
//
// All failure modes (transport errors, rejected requests, api errors, unknown
// tickers and empty series) are normalized to shared.ErrUnavailable so a
// ticker with no usable data is skipped for the run rather than failing it.
func (c *YahooClient) FetchIntradayHistorical(ctx context.Context, ticker string, timeframe shared.Timeframe, lookbackDays int) ([]shared.Candlestick, error) {
	formedURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%dd",
		c.cfg.BaseURL, url.PathEscape(ticker), timeframe.Interval(), lookbackDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: forming chart request for %s: %v", shared.ErrUnavailable, ticker, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching intraday data (%s) for %s: %v",
			shared.ErrUnavailable, timeframe.String(), ticker, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading chart response body for %s: %v", shared.ErrUnavailable, ticker, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart request for %s returned status %d",
			shared.ErrUnavailable, ticker, resp.StatusCode)
	}

	candles := parseChart(body, ticker, timeframe)
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: no intraday data returned for %s", shared.ErrUnavailable, ticker)
	}

	return candles, nil
}
