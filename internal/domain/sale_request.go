package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

var (
	ErrMissingDate    = errors.New("por favor, selecione uma data")
	ErrInvalidDate    = errors.New("data inválida, use o formato aaaa-mm-dd")
	ErrNegativeAmount = errors.New("os valores não podem ser negativos")
	ErrEmptySale      = errors.New("insira pelo menos um valor")
)

// NewSaleRequest é o formulário de registro. Valores ausentes contam como zero.
type NewSaleRequest struct {
	Date string           `json:"date"`
	Card *decimal.Decimal `json:"card"`
	Cash *decimal.Decimal `json:"cash"`
	Pix  *decimal.Decimal `json:"pix"`
}

// TotalPreview é o total exibido enquanto o formulário é preenchido
type TotalPreview struct {
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
	HasValue  bool            `json:"has_value"`
}

// Validate converte o formulário em uma venda pronta para ser gravada
func (r *NewSaleRequest) Validate() (*Sale, error) {
	if r.Date == "" {
		return nil, ErrMissingDate
	}

	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// Validação sobre os valores já em centavos
	card := utils.RoundWithTwoDecimalPlace(valueOrZero(r.Card))
	cash := utils.RoundWithTwoDecimalPlace(valueOrZero(r.Cash))
	pix := utils.RoundWithTwoDecimalPlace(valueOrZero(r.Pix))

	if card.IsNegative() || cash.IsNegative() || pix.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if card.IsZero() && cash.IsZero() && pix.IsZero() {
		return nil, ErrEmptySale
	}

	return NewSale(date, card, cash, pix), nil
}

// Preview soma o que já foi preenchido, sem validar
func (r *NewSaleRequest) Preview() *TotalPreview {
	total := valueOrZero(r.Card).Add(valueOrZero(r.Cash)).Add(valueOrZero(r.Pix))

	return &TotalPreview{
		Total:     total,
		Formatted: utils.FormatBRL(total),
		HasValue:  total.IsPositive(),
	}
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
