package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertCurrencyRequest asks for an amount to be converted between two
// currencies at the rate in effect on the given date.
type ConvertCurrencyRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Date             time.Time       `json:"date" binding:"required"`
}

// ConvertCurrencyResponse carries the converted amount and the rate used, so any
// reporting surface shows figures consistent with the ledger.
type ConvertCurrencyResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	Rate             decimal.Decimal `json:"rate"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	RateDate         time.Time       `json:"rateDate"`
}
