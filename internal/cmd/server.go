package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/clock"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/server"
)

func RunServer() int {
	logging.Init()
	logger := logging.Get()

	cfg, db, err := initDB()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db.GetDB()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return 1
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := server.New(cfg, db, clock.NewRealClock())
	if err != nil {
		logger.Error("failed to build server", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Limiter().Sweep(ctx, time.Minute)

	srv := app.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return 1
	case <-ctx.Done():
	}
	logger.Info("server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return 1
	}

	logger.Info("server exited properly")
	return 0
}
