// Command seed pushes the built-in starter dataset to a running
// gateway. It refuses to overwrite a snapshot that already holds data.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/euvalley/directory/internal/directory/gateway"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/euvalley/directory/internal/directory/seed"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	baseURL := flag.String("gateway", "http://localhost:8080", "base URL of the directory gateway")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password for the gateway")
	force := flag.Bool("force", false, "overwrite an existing non-empty snapshot")
	flag.Parse()

	if *password == "" {
		logger.Fatal("admin password is required, set -password or ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := gateway.NewClient(*baseURL)
	token, err := client.Login(ctx, *password)
	if err != nil {
		logger.Fatal("failed to log in to gateway", zap.Error(err))
	}
	client.SetToken(token)

	existing, err := client.Fetch(ctx)
	if err != nil {
		logger.Fatal("failed to fetch current snapshot", zap.Error(err))
	}
	if len(existing.Companies) > 0 && !*force {
		logger.Fatal("snapshot already holds data, pass -force to overwrite",
			zap.Int("companies", len(existing.Companies)))
	}

	companies := seed.Companies(time.Now())
	if err := client.Store(ctx, &models.Snapshot{
		Companies: companies,
		HiddenIDs: []string{},
	}); err != nil {
		logger.Fatal("failed to store seed snapshot", zap.Error(err))
	}

	logger.Info("seed snapshot stored", zap.Int("companies", len(companies)))
}

func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}
