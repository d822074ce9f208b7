package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"KlineWatch/internal/collector"
	"KlineWatch/internal/config"
	"KlineWatch/internal/engine"
	"KlineWatch/internal/metrics"
	"KlineWatch/internal/notifier"
	"KlineWatch/internal/recorder"
	"KlineWatch/internal/scheduler"
	"KlineWatch/internal/state"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] KlineWatch starting...")

	// Load .env before config so env overrides see it
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	rules := cfg.Rules()
	interval, err := cfg.CheckInterval()
	if err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewBingXFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init notifier: Telegram when configured, process log otherwise
	var n notifier.Notifier
	var tg *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tg = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tg
	} else {
		log.Println("[WARN] telegram not configured, notifications go to the process log")
		n = notifier.NewLogNotifier()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Optional metrics server
	var m *metrics.Metrics
	var msrv *metrics.Server
	if cfg.Metrics.ListenAddr != "" {
		m = metrics.NewMetrics()
		msrv = metrics.NewServer(cfg.Metrics.ListenAddr)
		msrv.Start()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire engine and scheduler
	store := state.NewStore()
	eng := engine.NewEngine(fetcher, store, n, rec, m)
	eng.WindowLimit = cfg.DataSource.WindowLimit

	sched := scheduler.NewScheduler(ctx, eng, rules)
	sched.Register(interval)
	sched.Start()
	defer sched.Stop()
	log.Printf("[INFO] monitoring %d rules every %v", len(rules), interval)

	// Start Telegram command polling
	if tg != nil {
		go tg.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing evaluation pass now")
		go sched.RunNow()
	}

	log.Println("[INFO] KlineWatch is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if msrv != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
		msrv.Stop(stopCtx)
		stopCancel()
	}
	log.Println("[INFO] KlineWatch stopped")
}
