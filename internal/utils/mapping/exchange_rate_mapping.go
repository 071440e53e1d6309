package mapping

import (
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ExchangeRateID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		DateEffective:    d.DateEffective,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:   m.ExchangeRateID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		DateEffective:    m.DateEffective,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelConversionLog converts a domain CurrencyConversionLog to its model form
func ToModelConversionLog(d domain.CurrencyConversionLog) models.CurrencyConversionLog {
	return models.CurrencyConversionLog{
		ConversionLogID:  d.ConversionLogID,
		PaymentID:        d.PaymentID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		FromAmount:       d.FromAmount,
		ToAmount:         d.ToAmount,
		Rate:             d.Rate,
		ConversionDate:   d.ConversionDate,
		ConversionType:   string(d.ConversionType),
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
}

// ToDomainConversionLog converts a model CurrencyConversionLog to its domain form
func ToDomainConversionLog(m models.CurrencyConversionLog) domain.CurrencyConversionLog {
	return domain.CurrencyConversionLog{
		ConversionLogID:  m.ConversionLogID,
		PaymentID:        m.PaymentID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		FromAmount:       m.FromAmount,
		ToAmount:         m.ToAmount,
		Rate:             m.Rate,
		ConversionDate:   m.ConversionDate,
		ConversionType:   domain.ConversionType(m.ConversionType),
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}
