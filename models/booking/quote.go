package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus is the response state of a quote. A quote is mutated exactly
// once (accept or reject) and is immutable afterward.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "PENDING"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
)

func (qs QuoteStatus) String() string {
	return string(qs)
}

func (qs QuoteStatus) IsValid() bool {
	switch qs {
	case QuoteStatusPending, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	default:
		return false
	}
}

// DefaultDepositPercentage applies when a quote names neither a fixed
// deposit amount nor a percentage.
const DefaultDepositPercentage = 30

// Quote is an artist-proposed price and deposit policy for a booking, with a
// validity window. A booking may carry many quotes but at most one ACCEPTED
// quote at any time.
type Quote struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for booking relationship
	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking"`

	QuotedPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"quoted_price"`
	DepositAmount     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit_amount,omitempty"`
	DepositPercentage *int             `gorm:"type:int" json:"deposit_percentage,omitempty"`
	ValidUntil        time.Time        `gorm:"not null" json:"valid_until"`

	Status        QuoteStatus `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	ArtistMessage *string     `gorm:"type:text" json:"artist_message,omitempty"`
	CustomerNotes *string     `gorm:"type:text" json:"customer_notes,omitempty"`
	RespondedAt   *time.Time  `json:"responded_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the validity window had passed at the given time.
// Expiry is a pure data check; no background sweep runs.
func (q *Quote) IsExpired(at time.Time) bool {
	return at.After(q.ValidUntil)
}

// DepositPolicyKind tags how the expected deposit is derived.
type DepositPolicyKind int

const (
	DepositFixed DepositPolicyKind = iota
	DepositPercent
	DepositDefault
)

// DepositPolicy is the deposit rule of a quote, resolved once at read time
// instead of re-derived ad hoc in each operation.
type DepositPolicy struct {
	Kind       DepositPolicyKind
	Amount     decimal.Decimal // set for DepositFixed
	Percentage int             // set for DepositPercent and DepositDefault
}

// DepositPolicy resolves the quote's deposit rule: a fixed amount wins over a
// percentage; absent both, the default percentage applies.
func (q *Quote) DepositPolicy() DepositPolicy {
	if q.DepositAmount != nil {
		return DepositPolicy{Kind: DepositFixed, Amount: *q.DepositAmount}
	}
	if q.DepositPercentage != nil {
		return DepositPolicy{Kind: DepositPercent, Percentage: *q.DepositPercentage}
	}
	return DepositPolicy{Kind: DepositDefault, Percentage: DefaultDepositPercentage}
}

// ExpectedDeposit computes the deposit owed against the quoted total.
func (p DepositPolicy) ExpectedDeposit(total decimal.Decimal) decimal.Decimal {
	if p.Kind == DepositFixed {
		return p.Amount
	}
	return total.Mul(decimal.NewFromInt(int64(p.Percentage))).Div(decimal.NewFromInt(100))
}
