package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	cfg *config.Config,
	salesService selling.Seller,
	authenticator authenticating.Authenticator,
	salesRefreshService *scheduler.SalesRefreshService,
) (*Server, error) {
	cronServices := handler.CronJobServices{}
	if salesRefreshService != nil {
		cronServices.SalesRefreshService = salesRefreshService
	}

	// Um único limitador para todas as rotas de escrita
	writeLimit := middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	dashboardConfig := handler.DashboardConfig{
		AssetsDir:      cfg.Dashboard.AssetsDir,
		RecentLimit:    cfg.Dashboard.RecentLimit,
		RefreshSeconds: cfg.SalesRefresh.IntervalSeconds,
	}

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(salesService)...),
		router.WithRoutes(handler.DashboardPages(salesService, authenticator, dashboardConfig, writeLimit)...),
		router.WithRoutes(handler.Sales(salesService, authenticator, writeLimit)...),
		router.WithRoutes(handler.Authentication(authenticator, tokenTTL, writeLimit)...),
		router.WithRoutes(handler.Submissions(salesService, authenticator)...),
		router.WithRoutes(handler.CronJobs(cronServices, authenticator)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.L.Info("Servidor HTTP desligado com sucesso")
	return nil
}
