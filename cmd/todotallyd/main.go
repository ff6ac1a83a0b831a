package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"TodoTally/internal/aggregator"
	"TodoTally/internal/api"
	"TodoTally/internal/config"
	"TodoTally/internal/observability/alerting"
	"TodoTally/internal/todo"
	"TodoTally/pkg/logger"
)

// main 是 TodoTally 本地守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("todotallyd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("TODOTALLY_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("configs", "todotally.yaml")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.LoggerConfig()); err != nil {
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("刷新日志失败: %v", err)
		}
	}()

	source := todo.NewHTTPSource(todo.SourceConfig{
		URL:     cfg.Source.URL,
		Timeout: cfg.Source.Timeout(),
	})

	handler, err := aggregator.NewHandler(source,
		aggregator.WithAlertDispatcher(alerting.NewFanout(&alerting.LogNotifier{})),
	)
	if err != nil {
		return err
	}

	server := api.NewServer(cfg.Server.Address, handler)
	return server.Start(ctx)
}
