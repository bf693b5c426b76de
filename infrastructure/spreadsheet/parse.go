package spreadsheet

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Datas seriais do Sheets contam dias a partir de 30/12/1899
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	utils.BRDateLayout,
	"2/1/2006",
	utils.ISODateLayout,
	"02/01/2006 15:04:05",
}

type columnIndex struct {
	date, card, cash, pix int
}

func indexHeader(header []interface{}) columnIndex {
	idx := columnIndex{date: -1, card: -1, cash: -1, pix: -1}

	for i, cell := range header {
		name := strings.TrimSpace(fmt.Sprint(cell))
		switch {
		case strings.EqualFold(name, domain.ColumnDate):
			idx.date = i
		case strings.EqualFold(name, domain.ColumnCard):
			idx.card = i
		case strings.EqualFold(name, domain.ColumnCash):
			idx.cash = i
		case strings.EqualFold(name, domain.ColumnPix):
			idx.pix = i
		}
	}

	return idx
}

// parseSales converte o intervalo lido da aba em vendas. A primeira linha é o
// cabeçalho. Linhas sem data válida são descartadas e contadas em skipped.
func parseSales(values [][]interface{}) (sales []*domain.Sale, skipped int, err error) {
	if len(values) == 0 {
		return []*domain.Sale{}, 0, nil
	}

	idx := indexHeader(values[0])
	if idx.date < 0 {
		return nil, 0, ErrMissingDateColumn
	}

	sales = make([]*domain.Sale, 0, len(values)-1)
	for _, row := range values[1:] {
		date, ok := parseDate(cell(row, idx.date))
		if !ok {
			skipped++
			continue
		}

		sales = append(sales, domain.NewSale(
			date,
			parseMoney(cell(row, idx.card)),
			parseMoney(cell(row, idx.cash)),
			parseMoney(cell(row, idx.pix)),
		))
	}

	return sales, skipped, nil
}

func cell(row []interface{}, i int) interface{} {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func parseDate(v interface{}) (time.Time, bool) {
	switch value := v.(type) {
	case float64:
		if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(value)), true
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// parseMoney nunca falha: célula vazia ou não numérica vale zero
func parseMoney(v interface{}) decimal.Decimal {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(value)
	case string:
		amount, err := utils.ParseAmount(value)
		if err != nil {
			return decimal.Zero
		}
		return amount
	}

	return decimal.Zero
}
