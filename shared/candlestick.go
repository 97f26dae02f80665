package shared

import "time"

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata and derived fields.
	Market    string
	Timeframe Timeframe
	EMA       float64
}

// AboveEMA asserts all price components of the candlestick are strictly above
// its derived exponential moving average value.
func (c *Candlestick) AboveEMA() bool {
	return c.Open > c.EMA && c.High > c.EMA && c.Low > c.EMA && c.Close > c.EMA
}
