package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(req.Email, req.Password)
		if err != nil {
			handleLoginError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]string{
			"token": token,
		})
	}
}

// DashboardLogin autentica pelo formulário da página e guarda o token em cookie
func DashboardLogin(service authenticating.Authenticator, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/?flash="+flashLoginFailed+"&login=1", http.StatusSeeOther)
			return
		}

		token, err := service.LoginUser(r.PostFormValue("email"), r.PostFormValue("password"))
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Falha no login pelo painel")
			http.Redirect(w, r, "/?flash="+flashLoginFailed+"&login=1", http.StatusSeeOther)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(tokenTTL.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/?flash="+flashLoginOK, http.StatusSeeOther)
	}
}

func DashboardLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		redirectWithFlash(w, r, flashLogout)
	}
}

// handleLoginError trata erros específicos de login e retorna a resposta apropriada
func handleLoginError(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro interno ao realizar login")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao realizar login", nil)
}
