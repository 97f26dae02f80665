package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// defaultScanIntervalMinutes is the default period between scheduled scans.
	defaultScanIntervalMinutes = 60
	// defaultCacheTTLMinutes is the default scan result reuse window.
	defaultCacheTTLMinutes = 60
	// defaultMaxWorkers is the default maximum number of concurrent ticker pipelines.
	defaultMaxWorkers = 10
)

// Config is the configuration struct for the service.
type Config struct {
	// UniverseURL is the ticker universe listing url.
	UniverseURL string
	// TelegramBotToken is the telegram bot api token.
	TelegramBotToken string
	// TelegramChatIDs are the destination chats for scan results.
	TelegramChatIDs []string
	// ScanIntervalMinutes is the period between scheduled scans, in minutes.
	ScanIntervalMinutes int
	// CacheTTLMinutes is the scan result reuse window, in minutes.
	CacheTTLMinutes int
	// MaxWorkers is the maximum number of concurrent ticker pipelines.
	MaxWorkers int
	// Proxy is an optional proxy url for outbound market data requests.
	Proxy string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.ScanIntervalMinutes <= 0 {
		errs = errors.Join(errs, fmt.Errorf("scan interval must be positive"))
	}
	if cfg.CacheTTLMinutes <= 0 {
		errs = errors.Join(errs, fmt.Errorf("cache ttl must be positive"))
	}
	if cfg.MaxWorkers <= 0 {
		errs = errors.Join(errs, fmt.Errorf("max workers must be positive"))
	}
	if len(cfg.TelegramChatIDs) > 0 && cfg.TelegramBotToken == "" {
		errs = errors.Join(errs, fmt.Errorf("telegram chat ids provided without a bot token"))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("universeurl", &cfg.UniverseURL, "the ticker universe listing url")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("telegrambottoken", &cfg.TelegramBotToken, "the telegram bot api token")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("telegramchatids", &cfg.TelegramChatIDs, "the telegram destination chat ids")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("scanintervalminutes", &cfg.ScanIntervalMinutes, "the period between scheduled scans, in minutes")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("cachettlminutes", &cfg.CacheTTLMinutes, "the scan result reuse window, in minutes")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("maxworkers", &cfg.MaxWorkers, "the maximum number of concurrent ticker pipelines")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("proxy", &cfg.Proxy, "an optional proxy url for outbound market data requests")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	if cfg.ScanIntervalMinutes == 0 {
		cfg.ScanIntervalMinutes = defaultScanIntervalMinutes
	}
	if cfg.CacheTTLMinutes == 0 {
		cfg.CacheTTLMinutes = defaultCacheTTLMinutes
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}

	return cfg.Validate()
}
