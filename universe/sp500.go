package universe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dnldd/trendscan/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// ConstituentsURL is the default s&p 500 constituents listing, a json
	// document of the form [{"Symbol": "MMM", ...}, ...].
	ConstituentsURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/main/data/constituents.json"
	// requestTimeout is the timeout for constituent listing requests.
	requestTimeout = time.Second * 10
)

// SP500Config represents the configuration for the s&p 500 universe source.
type SP500Config struct {
	// URL is the constituents listing url.
	URL string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *SP500Config) Validate() error {
	var errs error

	if cfg.URL == "" {
		errs = errors.Join(errs, fmt.Errorf("constituents url cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// SP500Source lists the s&p 500 constituents forming the scan universe.
type SP500Source struct {
	cfg   *SP500Config
	httpc http.Client
}

// Ensure the s&p 500 source implements the UniverseSource interface.
var _ shared.UniverseSource = (*SP500Source)(nil)

// NewSP500Source initializes a new s&p 500 universe source.
func NewSP500Source(cfg *SP500Config) (*SP500Source, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating universe source config: %w", err)
	}

	return &SP500Source{
		cfg:   cfg,
		httpc: http.Client{Timeout: requestTimeout},
	}, nil
}

// normalizeSymbol converts listing share class notation to the chart api
// notation (BRK.B -> BRK-B).
func normalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), ".", "-")
}

// ListTickers lists the tickers forming the scan universe. All failure modes
// are normalized to shared.ErrSourceUnavailable.
func (s *SP500Source) ListTickers(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: forming constituents request: %v", shared.ErrSourceUnavailable, err)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching constituents: %v", shared.ErrSourceUnavailable, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading constituents response body: %v", shared.ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: constituents request returned status %d",
			shared.ErrSourceUnavailable, resp.StatusCode)
	}

	data := gjson.ParseBytes(body).Array()
	tickers := make([]string, 0, len(data))
	for idx := range data {
		symbol := normalizeSymbol(data[idx].Get("Symbol").String())
		if symbol == "" {
			continue
		}
		tickers = append(tickers, symbol)
	}

	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: constituents listing has no symbols", shared.ErrSourceUnavailable)
	}

	s.cfg.Logger.Debug().Msgf("listed %d universe tickers", len(tickers))

	return tickers, nil
}
