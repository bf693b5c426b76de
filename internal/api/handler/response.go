package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

// handleSaleError traduz os erros de venda para o formato padrão da API
func handleSaleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingDate):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Por favor, selecione uma data.", nil)
	case errors.Is(err, domain.ErrInvalidDate):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use o formato aaaa-mm-dd.", nil)
	case errors.Is(err, domain.ErrEmptySale):
		apiErrors.WriteError(w, apiErrors.ErrEmptySale, "Insira pelo menos um valor.", nil)
	case errors.Is(err, domain.ErrNegativeAmount):
		apiErrors.WriteError(w, apiErrors.ErrNegativeAmount, "Os valores não podem ser negativos.", nil)
	case errors.Is(err, selling.ErrSheetUnavailable):
		log.ForContext(r.Context()).WithError(err).Error("Erro de conexão com a planilha")
		apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro de conexão com a planilha.", nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("Erro inesperado")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
	}
}

// queryLimit lê ?limit=; ausente vale zero e o serviço aplica o padrão
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit inválido")
	}
	return limit, nil
}
