package utils

import (
	"errors"
	"strings"
	"time"
)

const (
	// ISODateLayout é o formato usado pelo formulário e pela API (yyyy-mm-dd)
	ISODateLayout = time.DateOnly
	// BRDateLayout é o formato gravado na planilha (dd/mm/yyyy)
	BRDateLayout = "02/01/2006"
)

var ErrEmptyDate = errors.New("data não informada")

// ParseDate interpreta uma data yyyy-mm-dd. Aceita também dd/mm/yyyy, que é o que
// usuários digitam quando o navegador não tem seletor de data.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, ErrEmptyDate
	}

	date, err := time.Parse(ISODateLayout, dateStr)
	if err == nil {
		return date, nil
	}

	if brDate, brErr := time.Parse(BRDateLayout, dateStr); brErr == nil {
		return brDate, nil
	}

	return time.Time{}, err
}

// TruncateDay zera o horário mantendo o dia civil em UTC
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
