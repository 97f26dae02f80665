package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/trendscan/service"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanCfg := service.ScanServiceConfig{
		UniverseURL:      cfg.UniverseURL,
		Proxy:            cfg.Proxy,
		TelegramBotToken: cfg.TelegramBotToken,
		TelegramChatIDs:  cfg.TelegramChatIDs,
		ScanInterval:     time.Duration(cfg.ScanIntervalMinutes) * time.Minute,
		CacheTTL:         time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		MaxWorkers:       cfg.MaxWorkers,
		Cancel:           cancel,
	}
	scanService, err := service.NewScanService(&scanCfg)
	if err != nil {
		log.Printf("creating scan service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	scanService.Run(ctx)
}
