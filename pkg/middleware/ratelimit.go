package middleware

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"golang.org/x/time/rate"
)

// RateLimit aplica um token bucket único para as rotas de gravação. Taxa ou
// burst não positivos desabilitam o limite.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 || burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Limite de requisições atingido")
			w.Header().Set("Retry-After", "1")
			apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Muitas requisições, tente novamente em instantes", nil)
		})
	}
}
