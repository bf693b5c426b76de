package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderClient(t *testing.T, handler http.HandlerFunc) *RenderClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewRenderClient(&Config{Render: Render{
		APIKey:  "rnd_test",
		BaseURL: srv.URL,
	}})
}

func TestRenderClientListSecrets(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/services/srv-123/secret-files", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer rnd_test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"secretFile":{"name":"credentials.json","content":"{}"},"cursor":"abc"}]`)
	})

	secrets, err := client.ListSecrets(context.Background(), "srv-123")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"credentials.json": "{}"}, secrets)
}

func TestRenderClientAddOrUpdateSecret(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/services/srv-123/secret-files/credentials.json", r.URL.Path)

		var body AddOrUpdateSecretRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, `{"type":"service_account"}`, body.Content)

		w.WriteHeader(http.StatusOK)
	})

	err := client.AddOrUpdateSecret(context.Background(), "srv-123", "credentials.json", `{"type":"service_account"}`)
	assert.NoError(t, err)
}

func TestRenderClientReturnsAPIError(t *testing.T) {
	client := newTestRenderClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"unauthorized"}`)
	})

	_, err := client.ListSecrets(context.Background(), "srv-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
