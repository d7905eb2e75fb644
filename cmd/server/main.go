package main

import (
	"flag"

	"go.uber.org/zap"

	"cotador/internal/app"
	"cotador/internal/scheduler"
	"cotador/internal/server"
	"cotador/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to the config file")
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

	sched, err := scheduler.New(cfg.Schedule.RefreshCron, application)
	if err != nil {
		zap.L().Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if err := server.Start(application, cfg.Server.Port); err != nil {
		zap.L().Fatal("server failed", zap.Error(err))
	}
}
