package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Cabeçalhos da aba de vendas
const (
	ColumnDate = "Data"
	ColumnCard = "Cartão"
	ColumnCash = "Dinheiro"
	ColumnPix  = "Pix"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Sale é uma linha da planilha: o faturamento de um dia por forma de pagamento
type Sale struct {
	Date          time.Time       `json:"date"`
	FormattedDate string          `json:"formatted_date"`
	Weekday       string          `json:"weekday"`
	MonthName     string          `json:"month_name"`
	Card          decimal.Decimal `json:"card"`
	Cash          decimal.Decimal `json:"cash"`
	Pix           decimal.Decimal `json:"pix"`
	Total         decimal.Decimal `json:"total"`
}

func NewSale(date time.Time, card, cash, pix decimal.Decimal) *Sale {
	day := utils.TruncateDay(date)

	return &Sale{
		Date:          day,
		FormattedDate: day.Format(utils.BRDateLayout),
		Weekday:       WeekdayName(day.Weekday()),
		MonthName:     MonthName(day.Month()),
		Card:          card,
		Cash:          cash,
		Pix:           pix,
		Total:         card.Add(cash).Add(pix),
	}
}

// SheetRow retorna a linha no formato gravado na planilha: [dd/mm/yyyy, cartão, dinheiro, pix]
func (s *Sale) SheetRow() []interface{} {
	return []interface{}{
		s.FormattedDate,
		s.Card.InexactFloat64(),
		s.Cash.InexactFloat64(),
		s.Pix.InexactFloat64(),
	}
}

func WeekdayName(day time.Weekday) string {
	return weekdayNames[day]
}

func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}
