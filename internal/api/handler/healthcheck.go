package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
)

// HealthcheckHandler responde à verificação de vida do Render. A planilha
// indisponível não derruba o processo, apenas aparece no corpo.
func HealthcheckHandler(service selling.Seller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":   "ok",
			"time":     time.Now().UTC(),
			"snapshot": service.Status(),
		})
	})
}
