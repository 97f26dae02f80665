package scanner

import (
	"fmt"

	"github.com/dnldd/trendscan/indicator"
	"github.com/dnldd/trendscan/shared"
)

// Evaluate applies the trend confirmation rule to the provided series: the
// verdict passes only when every price component (open, high, low and close)
// of every candle in the trailing confirm window is strictly above that
// candle's exponential moving average value.
//
// A series with fewer candles than the ema period fails by definition rather
// than erroring. A series shorter than the confirm window is confirmed over
// all available candles, which weakens the filter; callers relying on the full
// window should fetch enough history.
func Evaluate(candles []shared.Candlestick, emaPeriod int, confirmWindow int) (shared.TrendVerdict, error) {
	if len(candles) < emaPeriod {
		return shared.TrendVerdict{}, nil
	}

	trace, err := indicator.Trace(candles, emaPeriod)
	if err != nil {
		return shared.TrendVerdict{}, fmt.Errorf("evaluating series: %w", err)
	}

	for idx := range candles {
		candles[idx].EMA = trace[idx]
	}

	window := candles
	if len(candles) > confirmWindow {
		window = candles[len(candles)-confirmWindow:]
	}

	for idx := range window {
		if !window[idx].AboveEMA() {
			return shared.TrendVerdict{}, nil
		}
	}

	return shared.NewPassingVerdict(&candles[len(candles)-1]), nil
}
