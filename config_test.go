package main

import (
	"flag"
	"os"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid config",
			cfg: Config{
				ScanIntervalMinutes: 60,
				CacheTTLMinutes:     60,
				MaxWorkers:          10,
			},
			wantErr: nil,
		},
		{
			name: "valid config with telegram",
			cfg: Config{
				TelegramBotToken:    "token",
				TelegramChatIDs:     []string{"chat-a"},
				ScanIntervalMinutes: 60,
				CacheTTLMinutes:     60,
				MaxWorkers:          10,
			},
			wantErr: nil,
		},
		{
			name: "non positive scan interval",
			cfg: Config{
				ScanIntervalMinutes: -1,
				CacheTTLMinutes:     60,
				MaxWorkers:          10,
			},
			wantErr: []string{"scan interval must be positive"},
		},
		{
			name: "chat ids without a bot token",
			cfg: Config{
				TelegramChatIDs:     []string{"chat-a"},
				ScanIntervalMinutes: 60,
				CacheTTLMinutes:     60,
				MaxWorkers:          10,
			},
			wantErr: []string{"telegram chat ids provided without a bot token"},
		},
		{
			name: "multiple invalid fields",
			cfg:  Config{ScanIntervalMinutes: -1, CacheTTLMinutes: -1, MaxWorkers: -1},
			wantErr: []string{
				"scan interval must be positive",
				"cache ttl must be positive",
				"max workers must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error(s) %v, got none", tt.wantErr)
					return
				}
				for _, want := range tt.wantErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Save and restore original os.Args and environment
	origArgs := os.Args
	origEnv := os.Environ()
	defer func() {
		os.Args = origArgs
		for _, kv := range origEnv {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		expectErr   bool
		expectInErr []string
		expectCfg   Config
	}{
		{
			name:      "defaults with no env or flags",
			env:       map[string]string{},
			args:      []string{"cmd"},
			expectErr: false,
			expectCfg: Config{
				ScanIntervalMinutes: defaultScanIntervalMinutes,
				CacheTTLMinutes:     defaultCacheTTLMinutes,
				MaxWorkers:          defaultMaxWorkers,
			},
		},
		{
			name: "all from env",
			env: map[string]string{
				"telegrambottoken":    "token",
				"telegramchatids":     "chat-a,chat-b",
				"scanintervalminutes": "30",
				"maxworkers":          "4",
			},
			args:      []string{"cmd"},
			expectErr: false,
			expectCfg: Config{
				TelegramBotToken:    "token",
				TelegramChatIDs:     []string{"chat-a", "chat-b"},
				ScanIntervalMinutes: 30,
				CacheTTLMinutes:     defaultCacheTTLMinutes,
				MaxWorkers:          4,
			},
		},
		{
			name:      "all from flags",
			env:       map[string]string{},
			args:      []string{"cmd", "-telegrambottoken=token", "-telegramchatids=chat-a", "-scanintervalminutes=15", "-maxworkers=2"},
			expectErr: false,
			expectCfg: Config{
				TelegramBotToken:    "token",
				TelegramChatIDs:     []string{"chat-a"},
				ScanIntervalMinutes: 15,
				CacheTTLMinutes:     defaultCacheTTLMinutes,
				MaxWorkers:          2,
			},
		},
		{
			name: "chat ids without a bot token",
			env: map[string]string{
				"telegramchatids": "chat-a",
			},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"telegram chat ids provided without a bot token"},
		},
		{
			name: "negative max workers",
			env: map[string]string{
				"maxworkers": "-3",
			},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"max workers must be positive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			// Set environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Set command-line arguments
			os.Args = tt.args

			var cfg Config
			err := loadConfig(&cfg, "") // don't load .env file

			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				for _, want := range tt.expectInErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			} else {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if cfg.TelegramBotToken != tt.expectCfg.TelegramBotToken {
					t.Errorf("TelegramBotToken: got %v, want %v", cfg.TelegramBotToken, tt.expectCfg.TelegramBotToken)
				}
				if len(cfg.TelegramChatIDs) != len(tt.expectCfg.TelegramChatIDs) {
					t.Errorf("TelegramChatIDs: got %v, want %v", cfg.TelegramChatIDs, tt.expectCfg.TelegramChatIDs)
				}
				if cfg.ScanIntervalMinutes != tt.expectCfg.ScanIntervalMinutes {
					t.Errorf("ScanIntervalMinutes: got %v, want %v", cfg.ScanIntervalMinutes, tt.expectCfg.ScanIntervalMinutes)
				}
				if cfg.CacheTTLMinutes != tt.expectCfg.CacheTTLMinutes {
					t.Errorf("CacheTTLMinutes: got %v, want %v", cfg.CacheTTLMinutes, tt.expectCfg.CacheTTLMinutes)
				}
				if cfg.MaxWorkers != tt.expectCfg.MaxWorkers {
					t.Errorf("MaxWorkers: got %v, want %v", cfg.MaxWorkers, tt.expectCfg.MaxWorkers)
				}
			}

			// Clean up env
			for k := range tt.env {
				os.Unsetenv(k)
			}
		})
	}
}
