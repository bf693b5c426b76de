package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// ListSubmissions retorna o histórico de envios do formulário
func ListSubmissions(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		submissions, err := service.Submissions(r.Context(), limit)
		if err != nil {
			if errors.Is(err, selling.ErrAuditDisabled) {
				apiErrors.WriteError(w, apiErrors.ErrFeatureDisabled, "Auditoria de envios desabilitada", nil)
				return
			}

			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar envios")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar envios", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"submissions": submissions,
			"count":       len(submissions),
		})
	}
}
