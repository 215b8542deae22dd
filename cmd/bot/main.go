package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/warehouse/internal/app"
	"github.com/ivanoskov/warehouse/internal/bot"
	"github.com/ivanoskov/warehouse/internal/config"
	"github.com/ivanoskov/warehouse/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer application.Close()

	b, err := bot.NewBot(cfg.TelegramToken, application.Catalog, application.States, logger)
	if err != nil {
		logger.Fatal("failed to connect to telegram", zap.Error(err))
	}

	if err := b.Start(ctx); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}
