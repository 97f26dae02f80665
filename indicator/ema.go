package indicator

import (
	"fmt"
	"time"

	"github.com/dnldd/trendscan/shared"
	"go.uber.org/atomic"
)

// EMA represents a unit exponential moving average entry for a market.
type EMA struct {
	Value float64
	Date  time.Time
}

// EMAGenerator represents the Exponential Moving Average indicator.
//
// The average is seeded with the first close value it receives, then updated
// with ema = alpha*close + (1-alpha)*ema where alpha = 2/(period+1). The
// seeding convention is load bearing, reported values must be reproducible
// across runs.
type EMAGenerator struct {
	Value          atomic.Float64
	Seeded         atomic.Bool
	Current        atomic.Pointer[EMA]
	Market         string
	Timeframe      shared.Timeframe
	Period         int
	LastUpdateTime atomic.Pointer[time.Time]

	alpha float64
}

// NewEMAGenerator initializes an EMA indicator for the provided market and timeframe.
func NewEMAGenerator(market string, timeframe shared.Timeframe, period int) *EMAGenerator {
	return &EMAGenerator{
		Market:    market,
		Timeframe: timeframe,
		Period:    period,
		alpha:     2 / (float64(period) + 1),
	}
}

// Update cummulatively updates the EMA indicator with the provided candlestick data.
func (e *EMAGenerator) Update(candle *shared.Candlestick) (*EMA, error) {
	if candle.Timeframe != e.Timeframe {
		return nil, fmt.Errorf("expected candles with timeframe %s, got %s",
			e.Timeframe.String(), candle.Timeframe.String())
	}

	switch {
	case !e.Seeded.Load():
		e.Value.Store(candle.Close)
		e.Seeded.Store(true)
	default:
		e.Value.Store(e.alpha*candle.Close + (1-e.alpha)*e.Value.Load())
	}

	ema := &EMA{
		Value: e.Value.Load(),
		Date:  candle.Date,
	}

	e.Current.Store(ema)
	e.LastUpdateTime.Store(&candle.Date)

	return ema, nil
}

// Reset resets the EMA indicator.
func (e *EMAGenerator) Reset() {
	e.Value.Store(0)
	e.Seeded.Store(false)
}

// Trace computes the full EMA trace for the provided series, aligned 1:1 with
// the series candles.
func Trace(candles []shared.Candlestick, period int) ([]float64, error) {
	if len(candles) == 0 {
		return nil, nil
	}

	generator := NewEMAGenerator(candles[0].Market, candles[0].Timeframe, period)
	trace := make([]float64, len(candles))
	for idx := range candles {
		ema, err := generator.Update(&candles[idx])
		if err != nil {
			return nil, fmt.Errorf("computing ema trace: %w", err)
		}

		trace[idx] = ema.Value
	}

	return trace, nil
}
