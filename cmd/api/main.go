package main

import (
	"cinevault/proj/internal/api/tasks"
	"cinevault/proj/internal/config"
	"cinevault/proj/internal/lib/logger"
	"cinevault/proj/internal/services"
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	defaultCfgPath := os.Getenv("CONFIG_PATH")
	if defaultCfgPath == "" {
		defaultCfgPath = "config/local.yml"
	}
	cfgPath := flag.String("config", defaultCfgPath, "path to config file")
	flag.Parse()

	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug, cfg.Log)

	bgTasks := tasks.New(log, cfg.Workers.Count, cfg.Workers.QueueSize)
	bgTasks.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	svcs, closeServices, err := services.New(ctx, log, cfg, bgTasks)
	cancel()
	if err != nil {
		log.Error("failed to initialize services", "errMsg", err.Error())
		os.Exit(1)
	}
	defer closeServices()

	app := NewApplication(cfg, log, svcs, bgTasks)
	if cfg.Lambda {
		app.serveLambda()
		return
	}
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "errMsg", err.Error())
		closeServices()
		os.Exit(1)
	}
}
