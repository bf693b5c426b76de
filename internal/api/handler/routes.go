package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

type Middleware = func(http.Handler) http.Handler

func Healthcheck(service selling.Seller) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(service),
		},
	}
}

// DashboardPages retorna as rotas da página HTML. writeLimit é compartilhado
// com as demais rotas de escrita.
func DashboardPages(service selling.Seller, auth authenticating.Authenticator, cfg DashboardConfig, writeLimit Middleware) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: Dashboard(service, auth, cfg),
		},
		{
			Path:        "/vendas",
			Method:      http.MethodPost,
			Handler:     SubmitSaleForm(service),
			Middlewares: []Middleware{writeLimit, middleware.OperatorOnlyPage(auth, "/")},
		},
		{
			Path:    "/assets/*filepath",
			Method:  http.MethodGet,
			Handler: Assets(cfg.AssetsDir),
		},
	}
}

func Sales(service selling.Seller, auth authenticating.Authenticator, writeLimit Middleware) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales",
			Method:  http.MethodGet,
			Handler: ListSales(service),
		},
		{
			Path:    "/v1/sales/recent",
			Method:  http.MethodGet,
			Handler: RecentSales(service),
		},
		{
			Path:    "/v1/sales/summary",
			Method:  http.MethodGet,
			Handler: SalesSummary(service),
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     RegisterSale(service),
			Middlewares: []Middleware{writeLimit, middleware.OperatorOnly(auth)},
		},
		{
			Path:    "/v1/sales/preview",
			Method:  http.MethodPost,
			Handler: PreviewTotal(service),
		},
	}
}

func Authentication(service authenticating.Authenticator, tokenTTL time.Duration, writeLimit Middleware) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/login",
			Method:      http.MethodPost,
			Handler:     Login(service),
			Middlewares: []Middleware{writeLimit},
		},
		{
			Path:        "/login",
			Method:      http.MethodPost,
			Handler:     DashboardLogin(service, tokenTTL),
			Middlewares: []Middleware{writeLimit},
		},
		{
			Path:    "/logout",
			Method:  http.MethodPost,
			Handler: DashboardLogout(),
		},
	}
}

func Submissions(service selling.Seller, auth authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/submissions",
			Method:      http.MethodGet,
			Handler:     ListSubmissions(service),
			Middlewares: []Middleware{middleware.OperatorOnly(auth)},
		},
	}
}

func CronJobs(services CronJobServices, auth authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []Middleware{middleware.OperatorOnly(auth)},
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
