package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/app"
	"github.com/bradykim7/nutriplan/internal/bot"
	"github.com/bradykim7/nutriplan/pkg/config"
	"github.com/bradykim7/nutriplan/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New("nutribot", cfg.LogLevel, cfg.LogDir)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
		<-sc
		log.Info("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize app", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Error closing app", zap.Error(err))
		}
	}()

	a.StartBackground(ctx)

	discordBot, err := bot.New(cfg, a.Planner, log)
	if err != nil {
		log.Fatal("Failed to initialize bot", zap.Error(err))
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Error("Bot error", zap.Error(err))
		return
	}

	log.Info("Discord bot shut down successfully")
}
