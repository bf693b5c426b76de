package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(name, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(name, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRouterAppliesRouteMiddlewaresInOrder(t *testing.T) {
	rt := New(WithRoutes(Route{
		Path:   "/v1/sales",
		Method: http.MethodGet,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		Middlewares: []func(http.Handler) http.Handler{header("X-Order", "1"), nil, header("X-Order", "2")},
	}))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"1", "2"}, rec.Header().Values("X-Order"))
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	rt := New(WithRoutes(Route{
		Path:    "/v1/sales",
		Method:  http.MethodGet,
		Handler: http.NotFoundHandler(),
	}))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nada", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_006")

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/sales", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_007")
}
