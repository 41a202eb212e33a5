package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/euvalley/directory/internal/directory/blob"
	"github.com/euvalley/directory/internal/directory/events"
	"github.com/euvalley/directory/internal/directory/geocode"
	"github.com/euvalley/directory/internal/directory/handlers"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort      int      `yaml:"HTTP_PORT"`
	DBHost        string   `yaml:"DB_HOST"`
	DBPort        int      `yaml:"DB_PORT"`
	DBUser        string   `yaml:"DB_USER"`
	DBPassword    string   `yaml:"DB_PASSWORD"`
	DBName        string   `yaml:"DB_NAME"`
	DBSSLMode     string   `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC"`
	AdminPassword string   `yaml:"ADMIN_PASSWORD"`
	JWTSecret     string   `yaml:"JWT_SECRET"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := blob.NewRepository(&blob.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to initialize snapshot storage", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close snapshot storage", zap.Error(err))
		}
	}()

	// Audit events are optional; the gateway runs fine without a broker.
	var producer handlers.AuditProducer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Warn("failed to initialize audit producer, continuing without events", zap.Error(err))
		} else {
			defer p.Close()
			producer = p
		}
	}

	geocoder := geocode.NewClient(logger)
	handler := handlers.NewHandler(repo, geocoder, producer, cfg.AdminPassword, cfg.JWTSecret, logger)
	server := handlers.NewServer(cfg.HTTPPort, handler, cfg.JWTSecret, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration, with environment overrides for the
// two secrets so they can stay out of the file.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "directory", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	return &cfg, nil
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
