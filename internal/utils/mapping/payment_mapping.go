package mapping

import (
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:                  d.PaymentID,
		PledgeID:                   d.PledgeID,
		Amount:                     d.Amount,
		CurrencyCode:               d.CurrencyCode,
		AmountUsd:                  d.AmountUsd,
		AmountInPledgeCurrency:     d.AmountInPledgeCurrency,
		PledgeCurrencyExchangeRate: d.PledgeCurrencyExchangeRate,
		AmountInPlanCurrency:       d.AmountInPlanCurrency,
		PlanCurrencyExchangeRate:   d.PlanCurrencyExchangeRate,
		PaymentDate:                d.PaymentDate,
		ReceivedDate:               d.ReceivedDate,
		PaymentStatus:              string(d.PaymentStatus),
		IsThirdPartyPayment:        d.IsThirdPartyPayment,
		PayerContactID:             d.PayerContactID,
		PaymentPlanID:              d.PaymentPlanID,
		InstallmentScheduleID:      d.InstallmentScheduleID,
		AuditFields:                ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:                  m.PaymentID,
		PledgeID:                   m.PledgeID,
		Amount:                     m.Amount,
		CurrencyCode:               m.CurrencyCode,
		AmountUsd:                  m.AmountUsd,
		AmountInPledgeCurrency:     m.AmountInPledgeCurrency,
		PledgeCurrencyExchangeRate: m.PledgeCurrencyExchangeRate,
		AmountInPlanCurrency:       m.AmountInPlanCurrency,
		PlanCurrencyExchangeRate:   m.PlanCurrencyExchangeRate,
		PaymentDate:                m.PaymentDate,
		ReceivedDate:               m.ReceivedDate,
		PaymentStatus:              domain.PaymentStatus(m.PaymentStatus),
		IsThirdPartyPayment:        m.IsThirdPartyPayment,
		PayerContactID:             m.PayerContactID,
		PaymentPlanID:              m.PaymentPlanID,
		InstallmentScheduleID:      m.InstallmentScheduleID,
		AuditFields:                ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPaymentAllocation converts a domain PaymentAllocation to its model form
func ToModelPaymentAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID:                    d.AllocationID,
		PaymentID:                       d.PaymentID,
		PledgeID:                        d.PledgeID,
		PayerContactID:                  d.PayerContactID,
		AllocatedAmount:                 d.AllocatedAmount,
		AllocatedAmountUsd:              d.AllocatedAmountUsd,
		AllocatedAmountInPledgeCurrency: d.AllocatedAmountInPledgeCurrency,
		CurrencyCode:                    d.CurrencyCode,
		InstallmentScheduleID:           d.InstallmentScheduleID,
		AuditFields:                     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentAllocation converts a model PaymentAllocation to its domain form
func ToDomainPaymentAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID:                    m.AllocationID,
		PaymentID:                       m.PaymentID,
		PledgeID:                        m.PledgeID,
		PayerContactID:                  m.PayerContactID,
		AllocatedAmount:                 m.AllocatedAmount,
		AllocatedAmountUsd:              m.AllocatedAmountUsd,
		AllocatedAmountInPledgeCurrency: m.AllocatedAmountInPledgeCurrency,
		CurrencyCode:                    m.CurrencyCode,
		InstallmentScheduleID:           m.InstallmentScheduleID,
		AuditFields:                     ToDomainAuditFields(m.AuditFields),
	}
}
