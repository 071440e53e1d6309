package services

import (
	"fmt"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/dto"
)

// Shape violations are client errors: each wraps apperrors.ErrValidation so
// handlers map them to a 400 response.
var (
	// ErrPaymentShapeRequired rejects a request that neither targets a pledge nor
	// carries allocations.
	ErrPaymentShapeRequired = fmt.Errorf("%w: either pledgeID or allocations is required", apperrors.ErrValidation)
	// ErrAmbiguousPaymentShape rejects a request carrying both a pledgeID and a
	// populated allocations list; exactly one addressing mode is permitted.
	ErrAmbiguousPaymentShape = fmt.Errorf("%w: a payment may target a single pledge or carry allocations, not both", apperrors.ErrValidation)
	// ErrThirdPartyRequired rejects a multi-contact payment not marked as paid by
	// a third party. A multi-beneficiary payment is definitionally paid by
	// someone other than at least one beneficiary.
	ErrThirdPartyRequired = fmt.Errorf("%w: multi-contact payments must be marked as third-party payments", apperrors.ErrValidation)
	// ErrAllocationsRequired rejects a payment flagged as split without any
	// allocations to distribute.
	ErrAllocationsRequired = fmt.Errorf("%w: split payments require at least one allocation", apperrors.ErrValidation)
)

// PaymentShapeKind discriminates the payment request variants.
type PaymentShapeKind string

const (
	ShapeSinglePledge PaymentShapeKind = "single_pledge"
	ShapeSplit        PaymentShapeKind = "split"
	ShapeMultiContact PaymentShapeKind = "multi_contact"
)

// PaymentShape is the tagged form of a creation request. The shape is decided
// exactly once at the service boundary; everything downstream switches on the
// kind, never on the raw request booleans.
type PaymentShape struct {
	Kind        PaymentShapeKind
	PledgeID    string
	Allocations []dto.AllocationInput
}

// classifyPaymentShape decides the addressing mode of a creation request.
// A request is split when it is flagged as split or multi-contact, or when it
// carries allocations without a single pledge id.
func classifyPaymentShape(req dto.CreatePaymentRequest) (PaymentShape, error) {
	hasPledge := req.PledgeID != nil && *req.PledgeID != ""
	hasAllocations := len(req.Allocations) > 0

	if hasPledge && hasAllocations {
		return PaymentShape{}, ErrAmbiguousPaymentShape
	}
	if req.IsMultiContactPayment && !req.IsThirdPartyPayment {
		return PaymentShape{}, ErrThirdPartyRequired
	}

	isSplit := req.IsSplitPayment || req.IsMultiContactPayment || (hasAllocations && !hasPledge)
	switch {
	case isSplit:
		if !hasAllocations {
			return PaymentShape{}, ErrAllocationsRequired
		}
		kind := ShapeSplit
		if req.IsMultiContactPayment {
			kind = ShapeMultiContact
		}
		return PaymentShape{Kind: kind, Allocations: req.Allocations}, nil
	case hasPledge:
		return PaymentShape{Kind: ShapeSinglePledge, PledgeID: *req.PledgeID}, nil
	default:
		return PaymentShape{}, ErrPaymentShapeRequired
	}
}
