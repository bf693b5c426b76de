package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("valor monetário inválido")

// FormatBRL formata um valor em reais: 1234.5 vira "R$ 1.234,50"
func FormatBRL(value decimal.Decimal) string {
	fixed := value.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if value.Round(2).IsNegative() {
		sign = "-"
	}

	return "R$ " + sign + grouped.String() + "," + fracPart
}

// ParseAmount lê valores digitados ou vindos da planilha. Aceita "1234.56",
// "1234,56", "1.234,56" e "R$ 1.234,56". Texto vazio vale zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Zero, nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return value, nil
}

// RoundWithTwoDecimalPlace arredonda para centavos
func RoundWithTwoDecimalPlace(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
