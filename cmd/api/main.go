package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finbook/bookset/internal/books"
	"github.com/finbook/bookset/internal/config"
	"github.com/finbook/bookset/internal/handler"
	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/logging"
	"github.com/finbook/bookset/internal/middleware"
	"github.com/finbook/bookset/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("bookset-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	entryStore := repository.NewEntryStore(db)
	booksSvc := books.NewService(
		repository.NewBookSetRepository(db),
		repository.NewAccountRepository(db),
		repository.NewThirdPartyRepository(db),
		repository.NewProjectRepository(db),
		entryStore,
	)
	ledgerSvc := ledger.NewService(entryStore)

	healthHandler := handler.NewHealthHandler(db)
	booksHandler := handler.NewBooksHandler(booksSvc)
	postingHandler := handler.NewPostingHandler(booksSvc, ledgerSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/booksets", booksHandler.CreateBookSet)
	mux.HandleFunc("POST /api/v1/booksets/{bookset_id}/accounts", booksHandler.CreateAccount)
	mux.HandleFunc("GET /api/v1/booksets/{bookset_id}/accounts", booksHandler.ListAccounts)
	mux.HandleFunc("POST /api/v1/booksets/{bookset_id}/projects", booksHandler.CreateProject)
	mux.HandleFunc("POST /api/v1/third-parties", booksHandler.CreateThirdParty)
	mux.HandleFunc("GET /api/v1/accounts/{account_id}/third-parties", booksHandler.ListThirdParties)
	mux.HandleFunc("PATCH /api/v1/accounts/{account_id}/convention", booksHandler.SetConvention)

	mux.HandleFunc("GET /api/v1/booksets/{bookset_id}/accounts/{name}/balance", postingHandler.Balance)
	mux.HandleFunc("GET /api/v1/booksets/{bookset_id}/accounts/{name}/ledger", postingHandler.Ledger)
	mux.HandleFunc("POST /api/v1/booksets/{bookset_id}/accounts/{name}/debit", postingHandler.Debit)
	mux.HandleFunc("POST /api/v1/booksets/{bookset_id}/accounts/{name}/credit", postingHandler.Credit)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
