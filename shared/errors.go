package shared

import "errors"

var (
	// ErrUnavailable is returned when market data for a ticker cannot be
	// retrieved, regardless of cause. A ticker with unavailable data is
	// skipped for the scan run, never a scan failure.
	ErrUnavailable = errors.New("market data unavailable")

	// ErrSourceUnavailable is returned when the ticker universe cannot be
	// listed. Without a universe there is nothing to scan.
	ErrSourceUnavailable = errors.New("ticker universe unavailable")
)
