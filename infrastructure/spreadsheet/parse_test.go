package spreadsheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalesMapsColumnsByHeader(t *testing.T) {
	values := [][]interface{}{
		{"Pix", "Observação", "Data", "Dinheiro", "Cartão"},
		{10.5, "feriado", "15/01/2024", "", "R$ 1.234,56"},
		{"", nil, "2/3/2024", 20.0},
	}

	sales, skipped, err := parseSales(values)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Zero(t, skipped)

	first := sales[0]
	assert.Equal(t, "15/01/2024", first.FormattedDate)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(first.Card))
	assert.True(t, first.Cash.IsZero())
	assert.True(t, decimal.RequireFromString("10.5").Equal(first.Pix))
	assert.True(t, decimal.RequireFromString("1245.06").Equal(first.Total))

	second := sales[1]
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), second.Date)
	assert.True(t, second.Card.IsZero(), "célula ausente vale zero")
	assert.True(t, decimal.NewFromInt(20).Equal(second.Cash))
}

func TestParseSalesDropsRowsWithInvalidDate(t *testing.T) {
	values := [][]interface{}{
		{"Data", "Cartão", "Dinheiro", "Pix"},
		{"ontem", 10.0, 0.0, 0.0},
		{"", 5.0},
		{},
		{"2024-01-10", "abc", 3.0, 0.0},
	}

	sales, skipped, err := parseSales(values)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Card.IsZero(), "valor não numérico vale zero")
	assert.True(t, decimal.NewFromInt(3).Equal(sales[0].Total))
}

func TestParseSalesHeaderOnlyOrEmpty(t *testing.T) {
	sales, skipped, err := parseSales(nil)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Zero(t, skipped)

	sales, _, err = parseSales([][]interface{}{{"Data", "Cartão", "Dinheiro", "Pix"}})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestParseSalesWithoutDateColumn(t *testing.T) {
	_, _, err := parseSales([][]interface{}{{"Dia", "Cartão"}, {"01/01/2024", 1.0}})
	assert.ErrorIs(t, err, ErrMissingDateColumn)
}

func TestParseSalesIgnoresHeaderCaseAndSpaces(t *testing.T) {
	sales, _, err := parseSales([][]interface{}{
		{" data ", "CARTÃO", "pix"},
		{"05/02/2024", 7.0, 3.0},
	})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(sales[0].Total))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  time.Time
		ok    bool
	}{
		{"dd/mm/yyyy", "31/12/2023", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), true},
		{"d/m/yyyy", "1/2/2024", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"iso", "2024-02-29", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), true},
		{"serial", 45306.0, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), true},
		{"serial zero", 0.0, time.Time{}, false},
		{"texto", "amanhã", time.Time{}, false},
		{"nulo", nil, time.Time{}, false},
		{"booleano", true, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	assert.True(t, decimal.RequireFromString("99.9").Equal(parseMoney(99.9)))
	assert.True(t, decimal.RequireFromString("1500").Equal(parseMoney("1.500,00")))
	assert.True(t, decimal.RequireFromString("12.5").Equal(parseMoney("12.50")))
	assert.True(t, parseMoney("").IsZero())
	assert.True(t, parseMoney("n/d").IsZero())
	assert.True(t, parseMoney(nil).IsZero())
}
