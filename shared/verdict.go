package shared

import "time"

// TrendSnapshot captures the reporting values of the final candlestick of a
// passing series. All fields are taken from the same candle.
type TrendSnapshot struct {
	LastPrice   float64
	LastVolume  float64
	LastUpdated time.Time
}

// TrendVerdict represents the outcome of evaluating a ticker's series against
// the trend confirmation rule. Snapshot is set only when the verdict passed.
type TrendVerdict struct {
	Passed   bool
	Snapshot *TrendSnapshot
}

// NewPassingVerdict initializes a passing verdict snapshotted from the
// provided final candlestick.
func NewPassingVerdict(last *Candlestick) TrendVerdict {
	return TrendVerdict{
		Passed: true,
		Snapshot: &TrendSnapshot{
			LastPrice:   last.Close,
			LastVolume:  last.Volume,
			LastUpdated: last.Date,
		},
	}
}
