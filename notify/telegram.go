package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dnldd/trendscan/shared"
	"github.com/rs/zerolog"
)

const (
	// BaseURL is the telegram bot api base url.
	BaseURL = "https://api.telegram.org"
	// maxRetries is the number of retry attempts per chat after a failed send.
	maxRetries = 3
	// requestTimeout is the timeout for bot api requests.
	requestTimeout = time.Second * 10
)

// TelegramConfig represents the configuration for the telegram notifier.
type TelegramConfig struct {
	// BotToken is the telegram bot api token.
	BotToken string
	// ChatIDs are the destination chats for scan results.
	ChatIDs []string
	// BaseURL is the bot api base url.
	BaseURL string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *TelegramConfig) Validate() error {
	var errs error

	if cfg.BotToken == "" {
		errs = errors.Join(errs, fmt.Errorf("bot token cannot be an empty string"))
	}
	if len(cfg.ChatIDs) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no chat ids provided for notifier"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("base url cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// TelegramNotifier pushes scan results to telegram chats via the bot api.
type TelegramNotifier struct {
	cfg   *TelegramConfig
	httpc http.Client
}

// Ensure the telegram notifier implements the Notifier interface.
var _ shared.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier initializes a new telegram notifier.
func NewTelegramNotifier(cfg *TelegramConfig) (*TelegramNotifier, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating telegram notifier config: %w", err)
	}

	return &TelegramNotifier{
		cfg:   cfg,
		httpc: http.Client{Timeout: requestTimeout},
	}, nil
}

// formatMessage renders the provided scan result as a telegram html message.
func formatMessage(result *shared.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>EMA trend scan</b>: %d tickers trending above their EMA\n", len(result.Rows))
	if len(result.Rows) > 0 {
		b.WriteString("<pre>")
		b.WriteString(result.String())
		b.WriteString("</pre>")
	}

	return b.String()
}

// send sends the provided message text to the provided chat.
func (t *TelegramNotifier) send(ctx context.Context, chatID string, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.BaseURL, t.cfg.BotToken)
	payload := map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("forming send message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bot api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// sendWithRetry sends the provided message text to the provided chat,
// retrying with exponential backoff.
func (t *TelegramNotifier) sendWithRetry(ctx context.Context, chatID string, text string) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = t.send(ctx, chatID, text)
		if lastErr == nil {
			return nil
		}

		if attempt == maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		t.cfg.Logger.Warn().Msgf("sending to chat %s (attempt %d/%d): %v, retrying in %v",
			chatID, attempt+1, maxRetries, lastErr, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("all %d attempts exhausted: %w", maxRetries, lastErr)
}

// Notify pushes the provided scan result to all configured chats, best
// effort. Failures are logged and never surfaced to the scan path.
func (t *TelegramNotifier) Notify(ctx context.Context, result *shared.ScanResult) {
	text := formatMessage(result)
	for idx := range t.cfg.ChatIDs {
		chatID := t.cfg.ChatIDs[idx]
		err := t.sendWithRetry(ctx, chatID, text)
		if err != nil {
			t.cfg.Logger.Error().Msgf("notifying chat %s of scan %s: %v", chatID, result.ID, err)
		}
	}
}
