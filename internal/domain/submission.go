package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionStatus string

const (
	SubmissionSucceeded SubmissionStatus = "success"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission registra uma tentativa de gravação de venda na planilha
type Submission struct {
	ID        string           `json:"id"`
	SaleDate  time.Time        `json:"sale_date"`
	Card      decimal.Decimal  `json:"card"`
	Cash      decimal.Decimal  `json:"cash"`
	Pix       decimal.Decimal  `json:"pix"`
	Total     decimal.Decimal  `json:"total"`
	Status    SubmissionStatus `json:"status"`
	Message   string           `json:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewSubmission(id string, sale *Sale, status SubmissionStatus, message string) *Submission {
	return &Submission{
		ID:       id,
		SaleDate: sale.Date,
		Card:     sale.Card,
		Cash:     sale.Cash,
		Pix:      sale.Pix,
		Total:    sale.Total,
		Status:   status,
		Message:  message,
	}
}
