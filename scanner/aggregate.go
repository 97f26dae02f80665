package scanner

import "github.com/dnldd/trendscan/shared"

// TickerVerdict pairs a ticker with its evaluated trend verdict.
type TickerVerdict struct {
	Ticker  string
	Verdict shared.TrendVerdict
}

// Aggregate filters the provided verdicts to passing tickers and maps them
// into result rows. Duplicate tickers are a caller bug, the last submitted
// verdict wins.
func Aggregate(verdicts []TickerVerdict) []shared.ScanRow {
	rows := make([]shared.ScanRow, 0, len(verdicts))
	positions := make(map[string]int, len(verdicts))

	for idx := range verdicts {
		verdict := &verdicts[idx]
		if !verdict.Verdict.Passed || verdict.Verdict.Snapshot == nil {
			continue
		}

		row := shared.ScanRow{
			Ticker:      verdict.Ticker,
			LastPrice:   verdict.Verdict.Snapshot.LastPrice,
			LastVolume:  verdict.Verdict.Snapshot.LastVolume,
			LastUpdated: verdict.Verdict.Snapshot.LastUpdated,
		}

		if pos, ok := positions[verdict.Ticker]; ok {
			rows[pos] = row
			continue
		}

		positions[verdict.Ticker] = len(rows)
		rows = append(rows, row)
	}

	return rows
}
