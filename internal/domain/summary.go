package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// SalesSummary resume o conteúdo da planilha exibido no topo do painel
type SalesSummary struct {
	Records        int             `json:"records"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	FirstDate      *time.Time      `json:"first_date,omitempty"`
	LastDate       *time.Time      `json:"last_date,omitempty"`
	RefreshedAt    time.Time       `json:"refreshed_at"`
}

func Summarize(sales []*Sale, refreshedAt time.Time) *SalesSummary {
	summary := &SalesSummary{
		Records:     len(sales),
		Total:       decimal.Zero,
		RefreshedAt: refreshedAt,
	}

	for _, sale := range sales {
		summary.Total = summary.Total.Add(sale.Total)

		date := sale.Date
		if summary.FirstDate == nil || date.Before(*summary.FirstDate) {
			summary.FirstDate = &date
		}
		if summary.LastDate == nil || date.After(*summary.LastDate) {
			summary.LastDate = &date
		}
	}

	summary.FormattedTotal = utils.FormatBRL(summary.Total)

	return summary
}
