package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Códigos das mensagens exibidas depois de um redirecionamento
const (
	flashOK            = "ok"
	flashMissingDate   = "missing_date"
	flashInvalidDate   = "invalid_date"
	flashEmpty         = "empty"
	flashNegative      = "negative"
	flashInvalidAmount = "invalid_amount"
	flashSheet         = "sheet"
	flashLoginFailed   = "login_failed"
	flashLoginOK       = "login_ok"
	flashLogout        = "logout"
)

type flashMessage struct {
	Text    string
	Success bool
}

var flashMessages = map[string]flashMessage{
	flashOK:            {"Dados registrados com sucesso! ✅", true},
	flashMissingDate:   {"Por favor, selecione uma data.", false},
	flashInvalidDate:   {"Data inválida, use o formato aaaa-mm-dd.", false},
	flashEmpty:         {"Insira pelo menos um valor.", false},
	flashNegative:      {"Os valores não podem ser negativos.", false},
	flashInvalidAmount: {"Valor inválido. Use apenas números, como 1.234,56.", false},
	flashSheet:         {"Erro de conexão com a planilha.", false},
	flashLoginFailed:   {"Email ou senha inválidos.", false},
	flashLoginOK:       {"Login realizado.", true},
	flashLogout:        {"Sessão encerrada.", true},
}

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").
		Funcs(template.FuncMap{
			"brl":  utils.FormatBRL,
			"date": func(t *time.Time) string { return t.Format(utils.BRDateLayout) },
		}).
		ParseFS(templatesFS, "templates/dashboard.html"),
)

type DashboardConfig struct {
	AssetsDir      string
	RecentLimit    int
	RefreshSeconds int
}

type dashboardView struct {
	Flash          *flashMessage
	Today          string
	Recent         []*domain.Sale
	Summary        *domain.SalesSummary
	SheetError     string
	HasLogo        bool
	AuthEnabled    bool
	LoggedIn       bool
	ShowLogin      bool
	RefreshSeconds int
}

// Dashboard renderiza o painel com o formulário, as últimas vendas e o resumo
func Dashboard(service selling.Seller, auth authenticating.Authenticator, cfg DashboardConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		_, loggedIn := middleware.ClaimsFromContext(r.Context())

		view := dashboardView{
			Today:          time.Now().Format(utils.ISODateLayout),
			HasLogo:        logoExists(cfg.AssetsDir),
			AuthEnabled:    auth.Enabled(),
			LoggedIn:       loggedIn,
			RefreshSeconds: cfg.RefreshSeconds,
		}
		view.ShowLogin = view.AuthEnabled && !view.LoggedIn

		if msg, ok := flashMessages[r.URL.Query().Get("flash")]; ok {
			view.Flash = &msg
		}

		recent, err := service.RecentSales(r.Context(), cfg.RecentLimit)
		if err != nil {
			logger.WithError(err).Warn("Não foi possível carregar as vendas recentes")
			view.SheetError = "Erro de conexão com a planilha."
		} else {
			view.Recent = recent
			if summary, err := service.Summary(r.Context()); err == nil {
				view.Summary = summary
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := dashboardTemplate.Execute(w, view); err != nil {
			logger.WithError(err).Error("Erro ao renderizar o painel")
		}
	}
}

// SubmitSaleForm recebe o formulário do painel e volta para a página inicial
func SubmitSaleForm(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithFlash(w, r, flashInvalidAmount)
			return
		}

		req := &domain.NewSaleRequest{Date: strings.TrimSpace(r.PostFormValue("date"))}

		var ok bool
		if req.Card, ok = formAmount(r, "card"); !ok {
			redirectWithFlash(w, r, flashInvalidAmount)
			return
		}
		if req.Cash, ok = formAmount(r, "cash"); !ok {
			redirectWithFlash(w, r, flashInvalidAmount)
			return
		}
		if req.Pix, ok = formAmount(r, "pix"); !ok {
			redirectWithFlash(w, r, flashInvalidAmount)
			return
		}

		if _, err := service.RegisterSale(r.Context(), req); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Envio do formulário rejeitado")
			redirectWithFlash(w, r, flashForError(err))
			return
		}

		redirectWithFlash(w, r, flashOK)
	}
}

// Assets serve os arquivos estáticos, como o logo
func Assets(dir string) http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(dir)))
}

func formAmount(r *http.Request, field string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return nil, true
	}

	value, err := utils.ParseAmount(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func flashForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingDate):
		return flashMissingDate
	case errors.Is(err, domain.ErrInvalidDate):
		return flashInvalidDate
	case errors.Is(err, domain.ErrEmptySale):
		return flashEmpty
	case errors.Is(err, domain.ErrNegativeAmount):
		return flashNegative
	default:
		return flashSheet
	}
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?flash="+code, http.StatusSeeOther)
}

func logoExists(assetsDir string) bool {
	if assetsDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(assetsDir, "logo.png"))
	return err == nil && !info.IsDir()
}
