package main

import (
	"context"
	"os"

	redis "github.com/redis/go-redis/v9"

	"instareview-reports-go/internal/company"
	"instareview-reports-go/internal/config"
	"instareview-reports-go/internal/email"
	"instareview-reports-go/internal/feedback"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/pipeline"
	"instareview-reports-go/internal/render"
	"instareview-reports-go/internal/storage"
)

func main() {
	cfg, err := config.Load()
	log := logger.New()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.WithField("service", "instareview-reports-batch").Info("starting batch report generation")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := company.NewStore(rdb)

	uploader, err := storage.NewUploader(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StorageUseSSL)
	if err != nil {
		log.WithError(err).Fatal("failed to create storage client")
	}

	gen := &pipeline.Generator{
		Feedback: feedback.NewClient(cfg.ReviewsURL),
		// The registry already holds profile attributes; no need to hit
		// the details API per company.
		Profiles:   store,
		Renderer:   render.NewClient(cfg.RendererURL),
		Storage:    uploader,
		Log:        log,
		DataDir:    cfg.DataDir,
		ReportsDir: cfg.ReportsDir,
	}

	mailer := email.NewSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	summary, err := gen.RunBatch(context.Background(), store, mailer)
	if err != nil {
		log.WithError(err).Error("batch report generation failed")
		os.Exit(1)
	}
	log.WithField("companies", summary.Companies).
		WithField("generated", summary.Generated).
		WithField("emailed", summary.Emailed).
		Info("batch finished")
}
