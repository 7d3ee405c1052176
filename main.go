package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jewelstore/cache"
	"jewelstore/config"
	"jewelstore/controllers"
	"jewelstore/database"
	"jewelstore/logging"
	"jewelstore/routes"
	"jewelstore/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Logger)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() && cfg.JWTSecret == "default-secret" {
		return errors.New("JWT_SECRET must be set in production")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.EnsureAdmin(db, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return err
	}

	blobs, closeBlobs, err := openBlobStore(ctx, cfg.Media)
	if err != nil {
		return err
	}
	defer closeBlobs()
	media := storage.NewMedia(blobs, cfg.Media.BaseURL)

	opts := controllers.Options{
		JWTSecret:      []byte(cfg.JWTSecret),
		MaxUploadBytes: int64(cfg.Media.MaxUploadMB) << 20,
	}
	if cfg.Redis.Addr != "" {
		c, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			defer c.Close()
			opts.Cache = c
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("redis cache enabled")
		}
	}

	handler := controllers.NewHandler(db, media, opts)
	app := routes.NewApp(handler, routes.AppOptions{
		JWTSecret:   opts.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		// room for two images plus the form fields
		BodyLimit: 2*int(opts.MaxUploadBytes) + 1<<20,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server listening")
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		return app.Shutdown()
	})
	return g.Wait()
}

func openBlobStore(ctx context.Context, cfg config.MediaConfig) (storage.BlobStore, func(), error) {
	switch cfg.Backend {
	case "jetstream":
		js, err := storage.NewJetStreamStore(ctx, cfg.NatsURL, cfg.Bucket)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("storing media in JetStream object store")
		return js, js.Close, nil
	default:
		local, err := storage.NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.Dir).Msg("storing media on local disk")
		return local, func() {}, nil
	}
}
