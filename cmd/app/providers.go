package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
	"github.com/yanqian/stroke-risk/internal/infra/archive"
	"github.com/yanqian/stroke-risk/internal/infra/assessmentrepo"
	"github.com/yanqian/stroke-risk/internal/infra/config"
	"github.com/yanqian/stroke-risk/internal/infra/predictor"
	"github.com/yanqian/stroke-risk/internal/infra/resultstore"
)

func provideAssessmentConfig(cfg *config.Config) assessment.Config {
	return assessment.Config{
		CacheTTL:      cfg.Assessment.CacheTTL,
		RecentLimit:   cfg.Assessment.RecentLimit,
		SessionTTL:    cfg.Assessment.SessionTTL,
		ArchivePrefix: cfg.Assessment.ArchivePrefix,
	}
}

func providePredictorClient(cfg *config.Config, logger *slog.Logger) *predictor.Client {
	client := predictor.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout)
	logger.Info("prediction service configured", "endpoint", client.Endpoint(), "timeout", cfg.Predictor.Timeout.String())
	return client
}

func provideAssessmentRepository(cfg *config.Config, logger *slog.Logger) (assessment.Repository, func()) {
	fallback := assessmentrepo.NewMemoryRepository()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("postgres assessment repository enabled")
	return assessmentrepo.NewPostgresRepository(pool), pool.Close
}

func provideResultStore(cfg *config.Config, logger *slog.Logger) (assessment.ResultStore, func()) {
	noop := func() {}
	if cfg.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore(), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore(), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("valkey result store enabled", "addr", cfg.Redis.Addr)
			return resultstore.NewValkeyStore(client, cfg.Redis.Prefix), client.Close
		}
	}
	return resultstore.NewMemoryStore(), noop
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideArchive(cfg *config.Config, logger *slog.Logger) assessment.Archive {
	if !cfg.Archive.Enabled {
		logger.Info("report archive disabled")
		return archive.Discard{}
	}
	store, err := archive.NewS3Archive(
		cfg.Archive.Endpoint,
		cfg.Archive.AccessKey,
		cfg.Archive.SecretKey,
		cfg.Archive.Bucket,
		cfg.Archive.Region,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize report archive, reports will not be archived", "error", err)
		return archive.Discard{}
	}
	logger.Info("s3 report archive enabled", "bucket", cfg.Archive.Bucket)
	return store
}
