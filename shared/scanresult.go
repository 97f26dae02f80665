package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ScanRow represents a single passing ticker in a scan result.
type ScanRow struct {
	Ticker      string
	LastPrice   float64
	LastVolume  float64
	LastUpdated time.Time
}

// FormatPrice returns the row's last price as a currency string.
func (r *ScanRow) FormatPrice() string {
	return fmt.Sprintf("$%.2f", r.LastPrice)
}

// FormatVolume returns the row's last volume as a grouped integer count.
func (r *ScanRow) FormatVolume() string {
	return humanize.Comma(int64(r.LastVolume))
}

// FormatUpdated returns the row's last update time in local time.
func (r *ScanRow) FormatUpdated() string {
	return r.LastUpdated.Local().Format(TableTimeLayout)
}

// ScanResult represents the outcome of one scan run. It is created fresh per
// run and immutable once returned.
type ScanResult struct {
	// ID uniquely identifies the scan run.
	ID string
	// Rows are the passing tickers, ordered by completion.
	Rows []ScanRow
	// CreatedOn is the time the scan run completed.
	CreatedOn time.Time
}

// String renders the scan result in tabular form.
func (s *ScanResult) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-8s %12s %14s %18s\n", "Ticker", "Last Price", "Volume", "Last Updated")
	for idx := range s.Rows {
		row := &s.Rows[idx]
		fmt.Fprintf(&b, "%-8s %12s %14s %18s\n", row.Ticker, row.FormatPrice(),
			row.FormatVolume(), row.FormatUpdated())
	}

	return b.String()
}
