package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"showdown-client/internal/app"
	"showdown-client/internal/config"
	"showdown-client/internal/logging"
)

const appVersion = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "showdown-client",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, logger)
	if err := a.Run(ctx, stop); err != nil {
		logging.Error(logger, "client exited", err)
		os.Exit(1)
	}
}
