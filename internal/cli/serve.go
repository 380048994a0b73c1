package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/SscSPs/family_bank/internal/handlers"
	"github.com/SscSPs/family_bank/internal/middleware"
	"github.com/SscSPs/family_bank/internal/platform/config"
	"github.com/SscSPs/family_bank/internal/scheduler"
)

const shutdownTimeout = 15 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API and, when RECONCILE_INTERVAL is set, the background
reconciliation scheduler. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: runServe,
}

// @title Family Bank API
// @version 1.0
// @description Double-entry ledger behind the family bank app.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start application", slog.String("error", err.Error()))
		return err
	}
	defer a.Close()

	router, err := newRouter(a, cfg, logger)
	if err != nil {
		return err
	}

	sched := scheduler.NewReconciliationScheduler(a.services.Reconciliation, cfg.ReconcileInterval, logger)
	sched.Start(ctx)
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func newRouter(a *app, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return nil, err
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	r.Use(cors.New(corsCfg))

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	r.Use(middleware.RateLimit(limiter), middleware.PosthogMiddleware(a.posthog))

	handlers.RegisterRoutes(r, cfg, a.services)
	return r, nil
}
