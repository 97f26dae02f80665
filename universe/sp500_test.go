package universe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dnldd/trendscan/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

func setupSource(t *testing.T, handler http.HandlerFunc) *SP500Source {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := NewSP500Source(&SP500Config{
		URL:    server.URL,
		Logger: &log.Logger,
	})
	assert.NoError(t, err)

	return source
}

func TestSP500ConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         SP500Config
		errContains []string
	}{
		{
			name: "valid config returns nil",
			cfg:  SP500Config{URL: ConstituentsURL, Logger: &log.Logger},
		},
		{
			name:        "missing url",
			cfg:         SP500Config{Logger: &log.Logger},
			errContains: []string{"constituents url cannot be an empty string"},
		},
		{
			name:        "missing everything",
			cfg:         SP500Config{},
			errContains: []string{"constituents url cannot be an empty string", "logger cannot be nil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.errContains) == 0 {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			for _, substr := range tt.errContains {
				assert.True(t, strings.Contains(err.Error(), substr))
			}
		})
	}
}

func TestListTickers(t *testing.T) {
	source := setupSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"Symbol": "MMM", "Name": "3M"},
			{"Symbol": "AOS", "Name": "A. O. Smith"},
			{"Symbol": "BRK.B", "Name": "Berkshire Hathaway"},
			{"Symbol": " ", "Name": "blank"}
		]`)
	})

	tickers, err := source.ListTickers(context.Background())
	assert.NoError(t, err)

	// Ensure listing order is kept, share class notation is normalized and
	// blank symbols are dropped.
	want := []string{"MMM", "AOS", "BRK-B"}
	assert.Equal(t, "", cmp.Diff(want, tickers))
}

func TestListTickersUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non 200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "empty listing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[]`)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `not json`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := setupSource(t, tt.handler)

			// Every failure mode normalizes to the source unavailable sentinel.
			_, err := source.ListTickers(context.Background())
			assert.True(t, errors.Is(err, shared.ErrSourceUnavailable))
		})
	}
}

func TestListTickersTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	source, err := NewSP500Source(&SP500Config{URL: server.URL, Logger: &log.Logger})
	assert.NoError(t, err)

	_, err = source.ListTickers(context.Background())
	assert.True(t, errors.Is(err, shared.ErrSourceUnavailable))
}
