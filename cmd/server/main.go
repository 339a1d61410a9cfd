package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firehawk/backend/internal/config"
	"github.com/firehawk/backend/internal/handler"
	"github.com/firehawk/backend/internal/logging"
	"github.com/firehawk/backend/internal/repository"
	"github.com/firehawk/backend/internal/service"
	"github.com/firehawk/backend/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	contactRepo, closeStore := openStore(cfg)
	defer closeStore()

	var metrics *handler.Metrics
	if cfg.MetricsEnabled {
		metrics = handler.NewMetrics()
	}

	routing, err := handler.ParseRouting(cfg.Routing)
	if err != nil {
		logging.Fatal("invalid routing", "error", err)
	}

	// 認証が必要な場合は contacts:manage capability を持つトークンを要求する
	wrapAdmin := auth.DevAuth
	if cfg.AuthRequired {
		tokens, err := auth.NewTokenManager([]byte(cfg.AdminTokenSecret), cfg.AdminTokenTTL)
		if err != nil {
			logging.Fatal("invalid admin token secret", "error", err)
		}
		wrapAdmin = auth.RequireCapability(tokens, auth.CapabilityManageContacts)
	} else {
		slog.Warn("AUTH_REQUIRED=false: operator endpoints are open")
	}

	contactService := service.NewContactService(contactRepo)
	h := handler.New(contactRepo, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService, metrics)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	contactHandler.Register(mux, routing, wrapAdmin)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.Chain(mux,
			handler.SecurityHeaders,
			h.CORS,
			metrics.Middleware,
			handler.RequestLogger,
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"store", cfg.Store,
			"routing", routing,
			"auth_required", cfg.AuthRequired,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openStore builds the configured contact store. The returned func releases
// any connection it holds.
func openStore(cfg *config.Config) (repository.ContactRepository, func()) {
	if cfg.Store != config.StorePostgres {
		slog.Info("using in-memory contact store; messages are lost on restart")
		return repository.NewMemoryContactRepository(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	return repository.NewPgContactRepository(pool), pool.Close
}
