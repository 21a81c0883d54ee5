// Command sentineld runs the rate-limiting engine as a standalone
// chi-based HTTP process, wiring whichever strategy and store the
// environment selects: signal.NotifyContext lifecycle, store
// construction from configuration, and the full
// interceptor/quota/config stack behind a chi router.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/jassus213/ratelimit-sentinel/internal/config"
	"github.com/jassus213/ratelimit-sentinel/internal/ratelimit"
	ratelimitchi "github.com/jassus213/ratelimit-sentinel/middleware/chi"
	"github.com/jassus213/ratelimit-sentinel/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.NewZerolog(nil)

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("sentineld: load config: %v", err)
		os.Exit(1)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Errorf("sentineld: build store: %v", err)
		os.Exit(1)
	}

	strategy, err := ratelimit.New(ratelimit.Kind(cfg.DefaultStrategy), store)
	if err != nil {
		logger.Errorf("sentineld: build strategy: %v", err)
		os.Exit(1)
	}

	quotas := ratelimit.NewQuotaResolver(nil)
	interceptor := ratelimit.NewInterceptor(strategy, quotas, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(ratelimitchi.RateLimiter(interceptor))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","strategy":"` + cfg.DefaultStrategy + `"}`))
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"` + cfg.AppName + `"}`))
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Debugf("sentineld: listening on %s (strategy=%s)", cfg.ListenAddr, cfg.DefaultStrategy)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("sentineld: serve: %v", err)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, error) {
	if cfg.StoreURL == "" {
		return ratelimit.NewMemoryStore(ctx, 10*time.Minute), nil
	}

	opts, err := redis.ParseURL(cfg.StoreURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return ratelimit.NewRedisStore(client), nil
}
