package selling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/spreadsheet"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const (
	DefaultRecentLimit = 15
	MaxRecentLimit     = 100
)

var (
	ErrSheetUnavailable = errors.New("erro de conexão com a planilha")
	ErrAuditDisabled    = errors.New("auditoria de envios desabilitada")
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type Seller interface {
	ListSales(ctx context.Context) ([]*domain.Sale, error)
	RecentSales(ctx context.Context, limit int) ([]*domain.Sale, error)
	Summary(ctx context.Context) (*domain.SalesSummary, error)
	PreviewTotal(req *domain.NewSaleRequest) *domain.TotalPreview
	RegisterSale(ctx context.Context, req *domain.NewSaleRequest) (*domain.Sale, error)
	Refresh(ctx context.Context) error
	Submissions(ctx context.Context, limit int) ([]*domain.Submission, error)
	Status() SnapshotStatus
}

// SnapshotStatus descreve a cópia local da planilha
type SnapshotStatus struct {
	Loaded         bool      `json:"loaded"`
	Records        int       `json:"records"`
	RefreshedAt    time.Time `json:"refreshed_at,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	Refreshing     bool      `json:"refreshing"`
	RefreshWaiters int       `json:"refresh_waiters"`
}

// Service mantém uma cópia em memória da aba de vendas. A cópia só é
// substituída por uma leitura bem-sucedida.
type Service struct {
	sheet       spreadsheet.SalesSheet
	submissions repository.SubmissionRepository
	auditing    bool
	now         func() time.Time
	newID       func() (string, error)

	mu          sync.RWMutex
	sales       []*domain.Sale
	loaded      bool
	refreshedAt time.Time
	lastError   string

	flightMu sync.Mutex
	inflight *flight
	waiters  int
}

// flight é uma leitura da planilha em andamento
type flight struct {
	done chan struct{}
	err  error
}

type Option func(*Service)

// WithSubmissions habilita a auditoria dos envios
func WithSubmissions(repo repository.SubmissionRepository) Option {
	return func(s *Service) {
		if repo != nil {
			s.submissions = repo
			s.auditing = true
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(sheet spreadsheet.SalesSheet, opts ...Option) *Service {
	s := &Service{
		sheet:       sheet,
		submissions: repository.NopSubmissionRepository{},
		now:         time.Now,
		newID:       utils.GenerateID,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*domain.Sale(nil), s.sales...), nil
}

// RecentSales retorna as últimas vendas, da mais recente para a mais antiga
func (s *Service) RecentSales(ctx context.Context, limit int) ([]*domain.Sale, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.sales) {
		limit = len(s.sales)
	}

	recent := make([]*domain.Sale, 0, limit)
	for i := len(s.sales) - 1; i >= len(s.sales)-limit; i-- {
		recent = append(recent, s.sales[i])
	}

	return recent, nil
}

func (s *Service) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Summarize(s.sales, s.refreshedAt), nil
}

func (s *Service) PreviewTotal(req *domain.NewSaleRequest) *domain.TotalPreview {
	if req == nil {
		req = &domain.NewSaleRequest{}
	}
	return req.Preview()
}

// RegisterSale grava a venda na planilha e atualiza a cópia local. Se a
// releitura falhar, a venda gravada é incluída na cópia atual.
func (s *Service) RegisterSale(ctx context.Context, req *domain.NewSaleRequest) (*domain.Sale, error) {
	sale, err := req.Validate()
	if err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("sale_date", sale.FormattedDate)

	if err := s.sheet.AppendSale(ctx, sale); err != nil {
		logger.WithError(err).Error("selling: falha ao gravar venda na planilha")
		s.audit(ctx, sale, domain.SubmissionFailed, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSheetUnavailable, err)
	}

	s.audit(ctx, sale, domain.SubmissionSucceeded, "")

	if err := s.refresh(ctx, true); err != nil {
		logger.WithError(err).Warn("selling: releitura após gravação falhou, mantendo venda na cópia local")
		s.insertLocal(sale)
	}

	logger.Info("selling: venda registrada")
	return sale, nil
}

// Refresh relê a planilha. Chamadas simultâneas aproveitam a mesma leitura.
func (s *Service) Refresh(ctx context.Context) error {
	return s.refresh(ctx, false)
}

func (s *Service) Submissions(ctx context.Context, limit int) ([]*domain.Submission, error) {
	if !s.auditing {
		return nil, ErrAuditDisabled
	}
	return s.submissions.ListRecent(ctx, limit)
}

func (s *Service) Status() SnapshotStatus {
	s.flightMu.Lock()
	refreshing, waiters := s.inflight != nil, s.waiters
	s.flightMu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return SnapshotStatus{
		Loaded:         s.loaded,
		Records:        len(s.sales),
		RefreshedAt:    s.refreshedAt,
		LastError:      s.lastError,
		Refreshing:     refreshing,
		RefreshWaiters: waiters,
	}
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}
	return s.refresh(ctx, false)
}

// refresh junta chamadas simultâneas à leitura em andamento. Com force, espera
// a leitura atual terminar e faz uma nova, que enxerga gravações recentes.
// A leitura compartilhada não é cancelada junto com a requisição que a iniciou;
// o cliente da planilha aplica o próprio timeout.
func (s *Service) refresh(ctx context.Context, force bool) error {
	for {
		s.flightMu.Lock()
		f := s.inflight
		if f == nil {
			f = &flight{done: make(chan struct{})}
			s.inflight = f
			s.flightMu.Unlock()

			f.err = s.load(context.WithoutCancel(ctx))

			s.flightMu.Lock()
			s.inflight = nil
			s.flightMu.Unlock()
			close(f.done)

			return f.err
		}
		s.waiters++
		s.flightMu.Unlock()

		select {
		case <-f.done:
		case <-ctx.Done():
			s.leave()
			return ctx.Err()
		}
		s.leave()

		if !force {
			return f.err
		}
	}
}

func (s *Service) leave() {
	s.flightMu.Lock()
	s.waiters--
	s.flightMu.Unlock()
}

func (s *Service) load(ctx context.Context) error {
	startedAt := s.now()
	sales, err := s.sheet.ReadSales(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()

		log.ForContext(ctx).WithError(err).Warn("selling: falha ao atualizar dados da planilha, mantendo dados anteriores")
		return fmt.Errorf("%w: %v", ErrSheetUnavailable, err)
	}

	sortByDate(sales)

	s.mu.Lock()
	s.sales = sales
	s.loaded = true
	s.refreshedAt = startedAt
	s.lastError = ""
	s.mu.Unlock()

	log.ForContext(ctx).WithField("records", len(sales)).Debug("selling: dados da planilha atualizados")
	return nil
}

func (s *Service) insertLocal(sale *domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = append(s.sales, sale)
	sortByDate(s.sales)
}

func (s *Service) audit(ctx context.Context, sale *domain.Sale, status domain.SubmissionStatus, message string) {
	if !s.auditing {
		return
	}

	id, err := s.newID()
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("selling: falha ao gerar ID do envio")
		return
	}

	submission := domain.NewSubmission(id, sale, status, message)
	submission.CreatedAt = s.now()

	if err := s.submissions.Save(ctx, submission); err != nil {
		log.ForContext(ctx).WithError(err).Warn("selling: falha ao registrar auditoria do envio")
	}
}

// sortByDate é estável para manter a ordem da planilha em dias repetidos
func sortByDate(sales []*domain.Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Date.Before(sales[j].Date)
	})
}
