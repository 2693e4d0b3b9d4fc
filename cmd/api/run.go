// cmd/api/run.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/app/itemservice"
	"github.com/abekenza/order-service/internal/app/orderservice"
	"github.com/abekenza/order-service/internal/shared/auth"
	"github.com/abekenza/order-service/internal/shared/config"
	"github.com/abekenza/order-service/internal/shared/kafka"
	"github.com/abekenza/order-service/internal/shared/logger"
	"github.com/abekenza/order-service/internal/shared/metrics"
	pg "github.com/abekenza/order-service/internal/shared/postgres"
	"github.com/abekenza/order-service/internal/userclient"
)

// requestLogger logs every request with its chi request id, status, and timing.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

// Run wires the order API and blocks until ctx is cancelled.
// It returns the first terminal error (server or startup failure).
func Run(ctx context.Context, portOverride int) error {
	log, err := logger.New("order-api")
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	// set up a Postgres connection pool
	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize Postgres pool", zap.Error(err))
		return err
	}
	defer pool.Close()

	// set up the payment-event writer (fire-and-forget publisher)
	kc := kafka.NewClient(cfg.Kafka.Brokers)
	writer := kc.NewWriter(cfg.Kafka.OrdersTopic)
	defer writer.Close()
	payments := kafka.NewPaymentPublisher(writer)

	// set up repositories, unit of work, clients, and application services
	uow := pg.NewUnitOfWork(pool)
	itemRepo := pg.NewItemsRepo(pool)
	orderRepo := pg.NewOrdersRepo(pool)
	users := userclient.New(cfg.UserService.BaseURL, log)

	itemSvc := itemservice.New(uow, itemRepo, log)
	orderSvc := orderservice.New(uow, orderRepo, itemRepo, users, payments, log)

	// set up HTTP routing
	m := metrics.NewServerMetrics("api")

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))
	r.Use(m.Middleware)
	r.Use(auth.Middleware(cfg.Auth.JWTSecret))

	itemservice.NewHTTPHandler(itemSvc, log).Register(r)
	orderservice.NewHTTPHandler(orderSvc, log).Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		// Tie server lifetime to incoming ctx (nice for tests / parent cancel).
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Info("order API started", zap.Int("port", cfg.Server.Port))

	// ---- Serve + graceful shutdown -------------------------------------------
	errCh := make(chan error, 1)
	go func() {
		// http.ErrServerClosed is returned on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		// Graceful HTTP shutdown (drain keep-alives / in-flight requests).
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx) // best-effort
		return nil
	case err := <-errCh:
		return err
	}
}
