package domain

// Tag is a label attachable to payments. Only active tags flagged for payment use
// may be attached.
type Tag struct {
	TagID         string `json:"tagID"` // Primary Key (UUID)
	Name          string `json:"name"`
	IsActive      bool   `json:"isActive"`
	ShowOnPayment bool   `json:"showOnPayment"`
	AuditFields
}

// AttachableToPayment reports whether the tag may be attached to a payment.
func (t Tag) AttachableToPayment() bool {
	return t.IsActive && t.ShowOnPayment
}
