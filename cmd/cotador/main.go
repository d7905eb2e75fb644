package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"cotador/internal/app"
	"cotador/internal/scheduler"
	"cotador/internal/server"
	"cotador/pkg/config"
)

func main() {
	task := flag.String("task", "serve", "Task to run: collect, quote, or serve")
	configPath := flag.String("config", "config.yml", "Path to the config file")
	items := flag.String("items", "", "Comma-separated shopping list for the quote task")
	listName := flag.String("name", "cli", "List name for the quote task")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	application, err := app.New(cfg)
	if err != nil {
		zap.L().Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	zap.L().Info("running task", zap.String("task", *task))

	switch *task {
	case "collect":
		db, err := application.RefreshPrices(context.Background())
		if err != nil {
			zap.L().Fatal("collect failed", zap.Error(err))
		}
		zap.L().Info("collect done", zap.Int("markets", len(db)))

	case "quote":
		terms := splitItems(*items)
		if len(terms) == 0 {
			zap.L().Fatal("quote task needs -items, e.g. -items \"arroz,feijão\"")
		}
		q, id, err := application.QuoteList(context.Background(), *listName, terms)
		if err != nil {
			zap.L().Fatal("quote failed", zap.Error(err))
		}
		zap.L().Info("quote saved", zap.Int64("id", id))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(q)

	case "serve":
		sched, err := scheduler.New(cfg.Schedule.RefreshCron, application)
		if err != nil {
			zap.L().Fatal("scheduler setup failed", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
		if err := server.Start(application, cfg.Server.Port); err != nil {
			zap.L().Fatal("server failed", zap.Error(err))
		}

	default:
		zap.L().Fatal("unknown task", zap.String("task", *task))
	}
}

func splitItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
