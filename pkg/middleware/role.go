package middleware

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// OperatorOnly restringe a rota ao operador autenticado. Com a autenticação
// desabilitada qualquer requisição passa.
func OperatorOnly(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return requireOperator(authService, func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
	})
}

// OperatorOnlyPage é a versão para o formulário HTML: redireciona para a
// página inicial, que exibe o login
func OperatorOnlyPage(authService authenticating.Authenticator, redirectTo string) func(http.Handler) http.Handler {
	return requireOperator(authService, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, redirectTo+"?login=1", http.StatusSeeOther)
	})
}

func requireOperator(authService authenticating.Authenticator, denied http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := ClaimsFromContext(r.Context()); !ok {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Tentativa de acesso sem autenticação")
				denied(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
