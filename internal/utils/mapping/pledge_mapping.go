package mapping

import (
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/models"
)

// ToDomainPledge converts a model Pledge to a domain Pledge
func ToDomainPledge(m models.Pledge) domain.Pledge {
	return domain.Pledge{
		PledgeID:          m.PledgeID,
		ContactID:         m.ContactID,
		CurrencyCode:      m.CurrencyCode,
		OriginalAmount:    m.OriginalAmount,
		OriginalAmountUsd: m.OriginalAmountUsd,
		TotalPaid:         m.TotalPaid,
		TotalPaidUsd:      m.TotalPaidUsd,
		Balance:           m.Balance,
		BalanceUsd:        m.BalanceUsd,
		ExchangeRate:      m.ExchangeRate,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentPlan converts a model PaymentPlan to a domain PaymentPlan
func ToDomainPaymentPlan(m models.PaymentPlan) domain.PaymentPlan {
	return domain.PaymentPlan{
		PaymentPlanID:      m.PaymentPlanID,
		PledgeID:           m.PledgeID,
		CurrencyCode:       m.CurrencyCode,
		TotalPlannedAmount: m.TotalPlannedAmount,
		TotalPaid:          m.TotalPaid,
		TotalPaidUsd:       m.TotalPaidUsd,
		InstallmentsPaid:   m.InstallmentsPaid,
		RemainingAmount:    m.RemainingAmount,
		RemainingAmountUsd: m.RemainingAmountUsd,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSchedule converts a model InstallmentSchedule to its domain form
func ToDomainInstallmentSchedule(m models.InstallmentSchedule) domain.InstallmentSchedule {
	return domain.InstallmentSchedule{
		InstallmentScheduleID: m.InstallmentScheduleID,
		PaymentPlanID:         m.PaymentPlanID,
		DueDate:               m.DueDate,
		Status:                domain.InstallmentStatus(m.Status),
		PaidDate:              m.PaidDate,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTag converts a model Tag to a domain Tag
func ToDomainTag(m models.Tag) domain.Tag {
	return domain.Tag{
		TagID:         m.TagID,
		Name:          m.Name,
		IsActive:      m.IsActive,
		ShowOnPayment: m.ShowOnPayment,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
