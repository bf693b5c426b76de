package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const defaultRefreshInterval = 60

// SalesRefresher relê a planilha para a cópia local
type SalesRefresher interface {
	Refresh(ctx context.Context) error
}

// SalesRefreshConfig representa a configuração do agendador de atualização
type SalesRefreshConfig struct {
	IntervalSeconds int
	SyncEnabled     bool
	Timeout         time.Duration
}

// SalesRefreshService mantém os dados do painel atualizados, como o intervalo
// de atualização automática da página
type SalesRefreshService struct {
	scheduler *gocron.Scheduler
	config    SalesRefreshConfig
	refresher SalesRefresher

	ctx context.Context

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	runs                int
}

func NewSalesRefreshService(refresher SalesRefresher, appConfig *config.Config) *SalesRefreshService {
	refreshConfig := SalesRefreshConfig{
		IntervalSeconds: appConfig.SalesRefresh.IntervalSeconds,
		SyncEnabled:     appConfig.SalesRefresh.Enabled,
		Timeout:         time.Duration(appConfig.Spreadsheet.TimeoutSeconds) * time.Second,
	}
	if refreshConfig.IntervalSeconds <= 0 {
		refreshConfig.IntervalSeconds = defaultRefreshInterval
	}

	log.L.WithFields(log.Fields{
		"interval_seconds": refreshConfig.IntervalSeconds,
		"sync_enabled":     refreshConfig.SyncEnabled,
	}).Info("Configuração do agendador de atualização da planilha carregada")

	return &SalesRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    refreshConfig,
		refresher: refresher,
		ctx:       context.Background(),
	}
}

// Start inicia o agendador. A primeira execução acontece imediatamente.
func (s *SalesRefreshService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		log.L.Info("Atualização automática da planilha desabilitada por configuração")
		return nil
	}

	log.L.WithField("interval_seconds", s.config.IntervalSeconds).Info("Iniciando agendador de atualização da planilha")

	_, err := s.scheduler.Every(s.config.IntervalSeconds).Seconds().Do(s.refreshSales)
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização da planilha: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de atualização da planilha")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SalesRefreshService) refreshSales() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Atualização da planilha já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	ctx := s.ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	err := s.refresher.Refresh(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.runs++
	s.lastSyncCompletedAt = time.Now()

	if err != nil {
		s.lastSyncError = err.Error()
		log.L.WithError(err).Warn("Falha na atualização agendada da planilha")
		return
	}

	s.lastSyncError = ""
	log.L.WithField("duration_ms", s.lastSyncCompletedAt.Sub(s.lastSyncStartedAt).Milliseconds()).
		Debug("Atualização da planilha concluída")
}

// TriggerManualSync inicia manualmente uma atualização
func (s *SalesRefreshService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Atualização da planilha já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	log.L.Info("Iniciando atualização manual da planilha")
	go s.refreshSales()
}

// GetStatus retorna o status atual do agendador
func (s *SalesRefreshService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_interval_seconds":  s.config.IntervalSeconds,
		"sync_running":           s.syncRunning,
		"runs":                   s.runs,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
