package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type SalesResponse struct {
	Sales []*domain.Sale `json:"sales"`
	Count int            `json:"count"`
}

// ListSales retorna todas as vendas da planilha, em ordem de data
func ListSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := service.ListSales(r.Context())
		if err != nil {
			handleSaleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, SalesResponse{Sales: sales, Count: len(sales)})
	}
}

// RecentSales retorna as últimas vendas, da mais recente para a mais antiga
func RecentSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		sales, err := service.RecentSales(r.Context(), limit)
		if err != nil {
			handleSaleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, SalesResponse{Sales: sales, Count: len(sales)})
	}
}

func SalesSummary(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.Summary(r.Context())
		if err != nil {
			handleSaleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, summary)
	}
}

// RegisterSale grava uma venda enviada em JSON
func RegisterSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.NewSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		sale, err := service.RegisterSale(r.Context(), &req)
		if err != nil {
			handleSaleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, map[string]any{
			"message": "Dados registrados com sucesso! ✅",
			"sale":    sale,
		})
	}
}

// PreviewTotal soma os valores do formulário enquanto ele é preenchido
func PreviewTotal(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.NewSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, service.PreviewTotal(&req))
	}
}
