package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewSaleDerivedFields(t *testing.T) {
	sale := NewSale(
		time.Date(2024, time.January, 15, 18, 45, 0, 0, time.UTC),
		decimal.RequireFromString("100.50"),
		decimal.RequireFromString("20"),
		decimal.RequireFromString("9.5"),
	)

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), sale.Date)
	assert.Equal(t, "15/01/2024", sale.FormattedDate)
	assert.Equal(t, "Segunda-feira", sale.Weekday)
	assert.Equal(t, "Janeiro", sale.MonthName)
	assert.True(t, decimal.RequireFromString("130").Equal(sale.Total))
	assert.Equal(t, []interface{}{"15/01/2024", 100.5, 20.0, 9.5}, sale.SheetRow())
}

func TestMonthNameOutOfRange(t *testing.T) {
	assert.Equal(t, "Dezembro", MonthName(time.December))
	assert.Empty(t, MonthName(time.Month(13)))
}

func TestNewSaleRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     NewSaleRequest
		wantErr error
		total   string
	}{
		{
			name:    "sem data",
			req:     NewSaleRequest{Card: dec("10")},
			wantErr: ErrMissingDate,
		},
		{
			name:    "data inválida",
			req:     NewSaleRequest{Date: "2024-13-45", Card: dec("10")},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "todos os valores vazios",
			req:     NewSaleRequest{Date: "2024-01-15"},
			wantErr: ErrEmptySale,
		},
		{
			name:    "todos os valores zerados",
			req:     NewSaleRequest{Date: "2024-01-15", Card: dec("0"), Cash: dec("0"), Pix: dec("0")},
			wantErr: ErrEmptySale,
		},
		{
			name:    "valor negativo",
			req:     NewSaleRequest{Date: "2024-01-15", Card: dec("-1"), Pix: dec("10")},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "valor abaixo de um centavo",
			req:     NewSaleRequest{Date: "2024-01-15", Card: dec("0.004")},
			wantErr: ErrEmptySale,
		},
		{
			name:    "negativo abaixo de um centavo conta como zero",
			req:     NewSaleRequest{Date: "2024-01-15", Cash: dec("-0.004"), Pix: dec("0.001")},
			wantErr: ErrEmptySale,
		},
		{
			name:  "apenas pix",
			req:   NewSaleRequest{Date: "2024-01-15", Pix: dec("45.90")},
			total: "45.90",
		},
		{
			name:  "arredonda centavos",
			req:   NewSaleRequest{Date: "2024-01-15", Card: dec("10.005"), Cash: dec("1")},
			total: "11.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale, err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sale)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(sale.Total), "total %s", sale.Total)
		})
	}
}

func TestNewSaleRequestPreview(t *testing.T) {
	empty := (&NewSaleRequest{}).Preview()
	assert.False(t, empty.HasValue)
	assert.Equal(t, "R$ 0,00", empty.Formatted)

	preview := (&NewSaleRequest{Card: dec("1000"), Pix: dec("234.5")}).Preview()
	assert.True(t, preview.HasValue)
	assert.Equal(t, "R$ 1.234,50", preview.Formatted)
}

func TestSummarize(t *testing.T) {
	refreshedAt := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

	empty := Summarize(nil, refreshedAt)
	assert.Equal(t, 0, empty.Records)
	assert.Nil(t, empty.FirstDate)
	assert.Equal(t, "R$ 0,00", empty.FormattedTotal)

	sales := []*Sale{
		NewSale(time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, decimal.Zero),
		NewSale(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), decimal.Zero, decimal.NewFromInt(50), decimal.Zero),
		NewSale(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), decimal.Zero, decimal.Zero, decimal.NewFromInt(1100)),
	}

	summary := Summarize(sales, refreshedAt)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, "R$ 1.250,00", summary.FormattedTotal)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), *summary.FirstDate)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), *summary.LastDate)
	assert.Equal(t, refreshedAt, summary.RefreshedAt)
}
