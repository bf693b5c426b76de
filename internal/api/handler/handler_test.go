package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling/mocks"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newSeller(t *testing.T) *mocks.MockSeller {
	t.Helper()
	log.SetupTestLogger()
	return mocks.NewMockSeller(gomock.NewController(t))
}

func newRouter(service selling.Seller, auth authenticating.Authenticator) router.Router {
	noLimit := func(next http.Handler) http.Handler { return next }

	return router.New(
		router.WithRoutes(Healthcheck(service)...),
		router.WithRoutes(DashboardPages(service, auth, DashboardConfig{AssetsDir: "testdata", RecentLimit: 15, RefreshSeconds: 60}, noLimit)...),
		router.WithRoutes(Sales(service, auth, noLimit)...),
		router.WithRoutes(Authentication(auth, time.Hour, noLimit)...),
		router.WithRoutes(Submissions(service, auth)...),
	)
}

func disabledAuth() authenticating.Authenticator {
	return authenticating.NewService(config.Auth{})
}

func enabledAuth(t *testing.T) authenticating.Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)

	return authenticating.NewService(config.Auth{
		Enabled:           true,
		Secret:            "chave",
		TokenTTLHours:     1,
		AdminEmail:        "caixa@loja.com",
		AdminPasswordHash: string(hash),
	})
}

func sampleSale(day int, card, cash, pix int64) *domain.Sale {
	return domain.NewSale(
		time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(card), decimal.NewFromInt(cash), decimal.NewFromInt(pix),
	)
}

func TestRecentSalesPassesLimit(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().RecentSales(gomock.Any(), 5).Return([]*domain.Sale{sampleSale(2, 10, 0, 0)}, nil)

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales/recent?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body SalesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "02/01/2024", body.Sales[0].FormattedDate)
}

func TestRecentSalesRejectsBadLimit(t *testing.T) {
	service := newSeller(t)

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales/recent?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_003")
}

func TestListSalesSheetUnavailable(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().ListSales(gomock.Any()).Return(nil, selling.ErrSheetUnavailable)

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRV_003")
}

func TestRegisterSaleErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"sem data", domain.ErrMissingDate, http.StatusBadRequest, "VAL_002"},
		{"vazia", domain.ErrEmptySale, http.StatusUnprocessableEntity, "VAL_004"},
		{"negativa", domain.ErrNegativeAmount, http.StatusUnprocessableEntity, "VAL_005"},
		{"planilha", selling.ErrSheetUnavailable, http.StatusBadGateway, "SRV_003"},
		{"inesperado", errors.New("boom"), http.StatusInternalServerError, "SRV_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newSeller(t)
			service.EXPECT().RegisterSale(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(`{"date":"2024-01-02","card":10}`))
			newRouter(service, disabledAuth()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestRegisterSaleCreated(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().RegisterSale(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.NewSaleRequest) (*domain.Sale, error) {
			assert.Equal(t, "2024-01-02", req.Date)
			require.NotNil(t, req.Pix)
			assert.True(t, req.Pix.Equal(decimal.RequireFromString("12.5")))
			assert.Nil(t, req.Cash)
			return sampleSale(2, 0, 0, 12), nil
		})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(`{"date":"2024-01-02","pix":12.5}`))
	newRouter(service, disabledAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dados registrados com sucesso!")
}

func TestRegisterSaleRequiresOperatorWhenAuthEnabled(t *testing.T) {
	service := newSeller(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(`{"date":"2024-01-02","pix":1}`))
	newRouter(service, enabledAuth(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPreviewTotal(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().PreviewTotal(gomock.Any()).DoAndReturn(func(req *domain.NewSaleRequest) *domain.TotalPreview {
		return req.Preview()
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales/preview", strings.NewReader(`{"card":1000,"cash":234.5}`))
	newRouter(service, disabledAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "R$ 1.234,50")
}

func TestLoginReturnsToken(t *testing.T) {
	service := newSeller(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"caixa@loja.com","password":"segredo"}`))
	newRouter(service, enabledAuth(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := newSeller(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"caixa@loja.com","password":"errada"}`))
	newRouter(service, enabledAuth(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_001")
}

func TestSubmissionsDisabled(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().Submissions(gomock.Any(), 0).Return(nil, selling.ErrAuditDisabled)

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/submissions", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRV_006")
}

func TestHealthcheck(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().Status().Return(selling.SnapshotStatus{Loaded: true, Records: 3})

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":3`)
}

func postForm(t *testing.T, rt http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func TestSubmitSaleFormRedirectsWithFlash(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().RegisterSale(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *domain.NewSaleRequest) (*domain.Sale, error) {
			require.NotNil(t, req.Card)
			assert.True(t, req.Card.Equal(decimal.RequireFromString("1234.56")))
			assert.Nil(t, req.Pix)
			return sampleSale(2, 1234, 0, 0), nil
		})

	rec := postForm(t, newRouter(service, disabledAuth()), "/vendas", url.Values{
		"date": {"2024-01-02"},
		"card": {"R$ 1.234,56"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?flash=ok", rec.Header().Get("Location"))
}

func TestSubmitSaleFormErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sem data", domain.ErrMissingDate, "/?flash=missing_date"},
		{"vazia", domain.ErrEmptySale, "/?flash=empty"},
		{"negativa", domain.ErrNegativeAmount, "/?flash=negative"},
		{"planilha", selling.ErrSheetUnavailable, "/?flash=sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newSeller(t)
			service.EXPECT().RegisterSale(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := postForm(t, newRouter(service, disabledAuth()), "/vendas", url.Values{"date": {"2024-01-02"}})

			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestSubmitSaleFormRejectsGarbageAmount(t *testing.T) {
	service := newSeller(t)

	rec := postForm(t, newRouter(service, disabledAuth()), "/vendas", url.Values{
		"date": {"2024-01-02"},
		"cash": {"dez reais"},
	})

	assert.Equal(t, "/?flash=invalid_amount", rec.Header().Get("Location"))
}

func TestSubmitSaleFormRedirectsToLoginWhenAuthEnabled(t *testing.T) {
	service := newSeller(t)

	rec := postForm(t, newRouter(service, enabledAuth(t)), "/vendas", url.Values{"date": {"2024-01-02"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?login=1", rec.Header().Get("Location"))
}

func TestDashboardLoginSetsCookie(t *testing.T) {
	service := newSeller(t)

	rec := postForm(t, newRouter(service, enabledAuth(t)), "/login", url.Values{
		"email":    {"caixa@loja.com"},
		"password": {"segredo"},
	})

	assert.Equal(t, "/?flash=login_ok", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestDashboardLoginFailure(t *testing.T) {
	service := newSeller(t)

	rec := postForm(t, newRouter(service, enabledAuth(t)), "/login", url.Values{
		"email":    {"caixa@loja.com"},
		"password": {"errada"},
	})

	assert.Equal(t, "/?flash=login_failed&login=1", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestDashboardRendersRecentSalesAndSummary(t *testing.T) {
	service := newSeller(t)
	sales := []*domain.Sale{sampleSale(3, 100, 50, 0), sampleSale(2, 10, 0, 0)}
	service.EXPECT().RecentSales(gomock.Any(), 15).Return(sales, nil)
	service.EXPECT().Summary(gomock.Any()).Return(domain.Summarize(sales, time.Now()), nil)

	rec := httptest.NewRecorder()
	newRouter(service, disabledAuth()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?flash=ok", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Dados registrados com sucesso!")
	assert.Contains(t, body, "03/01/2024")
	assert.Contains(t, body, "R$ 150,00")
	assert.Contains(t, body, "R$ 160,00")
	assert.Contains(t, body, `action="/vendas"`)
	assert.NotContains(t, body, `action="/login"`)
	assert.NotContains(t, body, "/assets/logo.png")
}

func TestDashboardShowsSheetErrorAndLogin(t *testing.T) {
	service := newSeller(t)
	service.EXPECT().RecentSales(gomock.Any(), 15).Return(nil, selling.ErrSheetUnavailable)

	rec := httptest.NewRecorder()
	newRouter(service, enabledAuth(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?flash=desconhecido", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Erro de conexão com a planilha.")
	assert.Contains(t, body, `action="/login"`)
	assert.NotContains(t, body, `action="/vendas"`)
}

type fakeSyncer struct {
	triggered int
}

func (f *fakeSyncer) TriggerManualSync() { f.triggered++ }

func (f *fakeSyncer) GetStatus() map[string]any {
	return map[string]any{"runs": f.triggered}
}

func TestRunCronJob(t *testing.T) {
	log.SetupTestLogger()
	syncer := &fakeSyncer{}
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{SalesRefreshService: syncer}, disabledAuth())...))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cron/sales-refresh/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, syncer.triggered)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cron/meta/run", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, syncer.triggered)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sales-refresh":{"runs":1}`)
}
