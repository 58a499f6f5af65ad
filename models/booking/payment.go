package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeDeposit   PaymentType = "deposit"
	PaymentTypeRemaining PaymentType = "remaining"
	PaymentTypeFull      PaymentType = "full"
)

// FinalSettlementTypes are mutually exclusive with each other: only one
// final settlement payment may be active per booking.
func FinalSettlementTypes() []PaymentType {
	return []PaymentType{PaymentTypeRemaining, PaymentTypeFull}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
)

// IsActive reports whether the payment counts toward the per-type
// exclusivity rule. Both pending and verified payments are active.
func (ps PaymentStatus) IsActive() bool {
	return ps == PaymentStatusPending || ps == PaymentStatusVerified
}

type PaymentMethod string

const (
	PaymentMethodPromptPay    PaymentMethod = "promptpay"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodPromptPay, PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCreditCard:
		return true
	default:
		return false
	}
}

// AmountTolerance is the currency-minor-unit tolerance applied to payment
// amount validation.
var AmountTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether two money values differ by at most the
// minor-unit tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountTolerance)
}

// Payment records one settlement event against a booking. A payment starts
// verified when no proof artifact was supplied (attested direct payment) and
// pending when a proof awaits manual verification; promotion to verified is
// the only post-creation mutation allowed.
type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for booking relationship
	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null;default:THB" json:"currency"`

	Type   PaymentType   `gorm:"type:varchar(20);not null" json:"type"`
	Method PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`

	ProofURL       *string `gorm:"type:varchar(2048)" json:"proof_url,omitempty"`
	TransactionRef *string `gorm:"type:varchar(255)" json:"transaction_ref,omitempty"`
	PromptPayRef   *string `gorm:"type:varchar(255)" json:"promptpay_ref,omitempty"`

	PaidAt     time.Time  `gorm:"not null" json:"paid_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	VerifiedBy *string    `gorm:"type:varchar(255)" json:"verified_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
