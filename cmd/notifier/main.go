package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gym-api/internal/config"
	s3infra "github.com/go-gym-api/internal/infrastructure/s3"
	"github.com/go-gym-api/internal/notifier"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.LoadNotifier()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Token == "" {
		log.Fatal("NOTIFIER_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var store notifier.Store = notifier.NewFileStore(cfg.ShownFile)
	if cfg.ShownS3Key != "" {
		s3Client, err := s3infra.NewClient(ctx, cfg.AWS)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		store = notifier.NewObjectStore(s3infra.NewStore(s3Client, cfg.S3BucketName), cfg.ShownS3Key)
	}

	poller := notifier.NewPoller(notifier.PollerDeps{
		Feed:      notifier.NewHTTPFeed(cfg.APIURL, cfg.Token, nil),
		Store:     store,
		Surfacer:  notifier.LogSurfacer{Logger: logger},
		Interval:  cfg.PollInterval,
		Freshness: cfg.Freshness,
		Logger:    logger,
	})

	logger.Info("notifier started", "api", cfg.APIURL, "interval", cfg.PollInterval)
	if err := poller.Run(ctx); err != nil {
		log.Fatalf("notifier: %v", err)
	}
	logger.Info("notifier stopped")
}
