package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// CorrelationIDHeader devolve ao cliente o ID usado nos logs da requisição
const CorrelationIDHeader = "X-Correlation-ID"

// Leituras da planilha levam centenas de milissegundos; acima disso vale o aviso
const slowRequestThreshold = 2 * time.Second

// LoggingMiddleware registra cada requisição com o ID de correlação. Em
// desenvolvimento o pkg/log já reduz os campos.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationIDHeader, correlationID)

			rec := newStatusRecorder(w)
			startedAt := time.Now()

			next.ServeHTTP(rec, r)

			if isQuietPath(r.URL.Path) && rec.status < http.StatusBadRequest {
				return
			}

			elapsed := time.Since(startedAt)
			logger := log.ForContext(ctx).WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"query":       r.URL.RawQuery,
				"status_code": rec.status,
				"bytes":       rec.written,
				"duration_ms": elapsed.Milliseconds(),
				"remote_addr": clientAddr(r),
				"user_agent":  r.UserAgent(),
			})

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error(requestSummary(r, rec.status))
			case rec.status >= http.StatusBadRequest:
				logger.Warn(requestSummary(r, rec.status))
			case elapsed > slowRequestThreshold:
				logger.Warn("Requisição lenta: " + requestSummary(r, rec.status))
			default:
				logger.Info(requestSummary(r, rec.status))
			}
		})
	}
}

// LogPanicMiddleware transforma um panic em SRV_001. Se a resposta já começou,
// apenas registra.
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				logger := log.ForContext(r.Context()).WithFields(log.Fields{
					"panic":  fmt.Sprint(recovered),
					"method": r.Method,
					"path":   r.URL.Path,
				})
				logger.WithField("stack_trace", string(debug.Stack())).Error("Panic ao processar requisição")

				if rec.wroteHeader {
					return
				}
				apiErrors.WriteError(rec, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// O healthcheck do Render e os arquivos estáticos só aparecem quando falham
func isQuietPath(path string) bool {
	return path == "/healthcheck" || strings.HasPrefix(path, "/assets/")
}

func requestSummary(r *http.Request, status int) string {
	return fmt.Sprintf("%s %s → %d", r.Method, r.URL.Path, status)
}

// clientAddr considera o proxy do Render e do Heroku
func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += n
	return n, err
}
