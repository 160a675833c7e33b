package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"validea/config"
	"validea/internal/ratelimit"
	"validea/services"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, *configPath)
		},
	}
}

func serve(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}
	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeSvc, err := newEvaluationService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSvc()

	store, closeStore, err := newRateLimitStore(ctx, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeStore()

	limiter, err := ratelimit.NewLimiter(store, cfg.RateLimit.Max, cfg.RateLimit.Window)
	if err != nil {
		return err
	}

	var handler http.Handler = setupRouter(cfg, svc, limiter)
	if cfg.Server.Gzip {
		handler = gzhttp.GzipHandler(handler)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server running at http://localhost:%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return err
	}
	return nil
}

// newEvaluationService wires the configured upstream completer into an
// EvaluationService. The returned func releases the completer.
func newEvaluationService(ctx context.Context, cfg *config.Config) (*services.EvaluationService, func(), error) {
	completer, err := services.NewCompleter(ctx, cfg.Upstream)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Upstream.Provider, err)
	}
	closeFn := func() {
		if c, ok := completer.(io.Closer); ok {
			_ = c.Close()
		}
	}
	svc := services.NewEvaluationService(completer,
		services.WithStripCodeFences(cfg.Upstream.StripCodeFences),
		services.WithTimeout(cfg.Upstream.Timeout),
	)
	return svc, closeFn, nil
}

func newRateLimitStore(ctx context.Context, rl config.RateLimit) (ratelimit.Store, func(), error) {
	switch rl.Backend {
	case config.BackendRedis:
		rdb, err := ratelimit.Dial(ctx, rl.Redis.Addr, rl.Redis.Password, rl.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to Redis at %s", rl.Redis.Addr)
		return ratelimit.NewRedisStore(rdb, rl.Redis.Prefix), func() { _ = rdb.Close() }, nil
	default:
		store := ratelimit.NewMemoryStore()
		return store, func() { _ = store.Close() }, nil
	}
}
