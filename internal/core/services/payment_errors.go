package services

import (
	"fmt"
	"strings"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PledgeNotFoundError reports every pledge id in a request that does not resolve
// to an existing pledge. Existence is checked in batch, not one-by-one.
type PledgeNotFoundError struct {
	MissingIDs []string
}

func (e *PledgeNotFoundError) Error() string {
	return fmt.Sprintf("pledges not found: %s", strings.Join(e.MissingIDs, ", "))
}

// Is lets errors.Is(err, apperrors.ErrNotFound) match so handlers map this to a
// 404-equivalent response.
func (e *PledgeNotFoundError) Is(target error) bool {
	return target == apperrors.ErrNotFound
}

// AllocationMismatchError reports that the allocations of a split payment do not
// sum to the payment amount within the permitted tolerance.
type AllocationMismatchError struct {
	PaymentAmount  decimal.Decimal
	AllocatedTotal decimal.Decimal
	Difference     decimal.Decimal
}

func (e *AllocationMismatchError) Error() string {
	return fmt.Sprintf("allocation total %s does not match payment amount %s (difference %s)",
		e.AllocatedTotal.String(), e.PaymentAmount.String(), e.Difference.String())
}

func (e *AllocationMismatchError) Is(target error) bool {
	return target == apperrors.ErrValidation
}

// InvalidTagsError reports every tag id that cannot be attached to a payment,
// whether missing, inactive, or not flagged for payment use. Tags are validated,
// not silently dropped.
type InvalidTagsError struct {
	TagIDs []string
}

func (e *InvalidTagsError) Error() string {
	return fmt.Sprintf("tags cannot be attached to a payment: %s", strings.Join(e.TagIDs, ", "))
}

func (e *InvalidTagsError) Is(target error) bool {
	return target == apperrors.ErrValidation
}
