// Package app wires the storage, sequence backend, use case and HTTP server together and runs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/vadimbarashkov/shorturl/internal/config"
	"github.com/vadimbarashkov/shorturl/internal/usecase"
	"github.com/vadimbarashkov/shorturl/pkg/postgres"

	httpDelivery "github.com/vadimbarashkov/shorturl/internal/adapter/delivery/http"
	postgresRepo "github.com/vadimbarashkov/shorturl/internal/adapter/repository/postgres"
	redisRepo "github.com/vadimbarashkov/shorturl/internal/adapter/repository/redis"
	redispkg "github.com/vadimbarashkov/shorturl/pkg/redis"
)

type sequenceAllocator interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	version, err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	logger.Info("database schema ready", "version", version)

	seq, closer, err := newSequenceAllocator(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("%s: failed to set up sequence backend: %w", op, err)
	}
	defer closer.Close()

	logger.Info("sequence backend ready", "backend", cfg.Sequence.Backend)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        newHandler(cfg, logger, db, seq, net.DefaultResolver),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// newSequenceAllocator returns the allocator selected by cfg and the resource to release on shutdown.
func newSequenceAllocator(ctx context.Context, cfg *config.Config, db *sqlx.DB) (sequenceAllocator, io.Closer, error) {
	switch cfg.Sequence.Backend {
	case config.SequenceRedis:
		client, err := redispkg.New(
			ctx,
			cfg.Redis.Addr,
			redispkg.WithPassword(cfg.Redis.Password),
			redispkg.WithDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, nil, err
		}
		return redisRepo.NewCounterRepository(client), client, nil
	case config.SequencePostgres:
		return postgresRepo.NewCounterRepository(db), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown sequence backend %q", cfg.Sequence.Backend)
	}
}

func newHandler(
	cfg *config.Config,
	logger *httplog.Logger,
	db *sqlx.DB,
	seq sequenceAllocator,
	resolver hostResolver,
) http.Handler {
	urlRepo := postgresRepo.NewURLRepository(db)
	urlUseCase := usecase.NewURLUseCase(urlRepo, seq, resolver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "postgres"),
	)

	return httpDelivery.NewRouter(logger, urlUseCase, httpDelivery.RouterConfig{
		StaticDir:   cfg.HTTPServer.StaticDir,
		DatabaseURI: cfg.Postgres.RedactedDSN(),
		SwaggerFile: cfg.HTTPServer.SwaggerFile,
		Registry:    registry,
	})
}
