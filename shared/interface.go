package shared

import "context"

// MarketFetcher defines the requirements for fetching intraday market data.
type MarketFetcher interface {
	// FetchIntradayHistorical fetches intraday historical market data for the
	// provided ticker, covering the provided lookback window in days.
	FetchIntradayHistorical(ctx context.Context, ticker string, timeframe Timeframe, lookbackDays int) ([]Candlestick, error)
}

// UniverseSource defines the requirements for listing the scannable ticker universe.
type UniverseSource interface {
	// ListTickers lists the tickers forming the scan universe.
	ListTickers(ctx context.Context) ([]string, error)
}

// Notifier defines the requirements for pushing scan results to an external channel.
type Notifier interface {
	// Notify pushes the provided scan result, best effort.
	Notify(ctx context.Context, result *ScanResult)
}
