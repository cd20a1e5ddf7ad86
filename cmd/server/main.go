package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bookworm-social/bookworm-api/internal/api"
	"github.com/bookworm-social/bookworm-api/internal/api/handler"
	"github.com/bookworm-social/bookworm-api/internal/core/service"
	mongodb "github.com/bookworm-social/bookworm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookworm-social/bookworm-api/internal/infrastructure/db/redis"
	"github.com/bookworm-social/bookworm-api/internal/infrastructure/keepalive"
	"github.com/bookworm-social/bookworm-api/internal/infrastructure/queue"
	"github.com/bookworm-social/bookworm-api/internal/infrastructure/storage/s3blob"
	"github.com/bookworm-social/bookworm-api/internal/pkg/config"
	"github.com/bookworm-social/bookworm-api/pkg/logger"
)

// @title                       Bookworm API
// @version                     1.0
// @description                 Book recommendations with cover uploads.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bookworm-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, bookRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Blob storage ---
	blobCfg := s3blob.Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		PublicURL: cfg.S3.PublicURL,
		KeyPrefix: cfg.S3.KeyPrefix,
	}
	blobCfg.PublicURL = s3blob.PublicURL(blobCfg)
	s3Client, err := s3blob.NewClient(ctx, blobCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create s3 client")
	}
	blobs := s3blob.New(s3Client, blobCfg)

	marker := cfg.S3.URLMarker
	if marker == "" {
		marker = s3blob.URLMarker(blobCfg.PublicURL)
	}

	// --- Background workers ---
	cleaner := queue.NewBlobCleaner(cfg.Cleanup.Workers, blobs, log.With().Str("component", "blob_cleaner").Logger())
	cleaner.Start(ctx)

	pinger := keepalive.NewPinger(cfg.KeepAlive.URL, cfg.KeepAlive.Interval, log.With().Str("component", "keepalive").Logger())
	go pinger.Run(ctx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, log)
	bookService := service.NewBookService(bookRepo, blobs, service.BookServiceConfig{BlobURLMarker: marker}, log).
		WithCleaner(cleaner).
		WithIdempotency(redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL))

	e := api.NewRouter(api.Deps{
		Logger:      log,
		AuthService: authService,
		BookService: bookService,
		Tokens:      tokens,
		Users:       userRepo,
		BodyLimit:   cfg.BodyLimit,
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
			{Name: "s3", Ping: blobs.Ping},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	cleaner.Wait()
}
