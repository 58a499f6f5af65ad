package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// InquiryCreateRequest opens a new booking inquiry with its venue details.
type InquiryCreateRequest struct {
	ArtistID      uint      `json:"artist_id"`
	EventType     string    `json:"event_type"`
	EventDate     time.Time `json:"event_date"`
	VenueName     string    `json:"venue_name"`
	Province      string    `json:"province"`
	District      string    `json:"district"`
	StreetAddress string    `json:"street_address"`
	Capacity      *int      `json:"capacity"`
}

// SubmitQuoteRequest is an artist's offer against a booking inquiry.
type SubmitQuoteRequest struct {
	QuotedPrice       decimal.Decimal  `json:"quoted_price"`
	DepositAmount     *decimal.Decimal `json:"deposit_amount"`
	DepositPercentage *int             `json:"deposit_percentage"`
	ValidUntil        time.Time        `json:"valid_until"`
	Message           *string          `json:"message"`
}

// RespondQuoteRequest carries the customer's optional notes on accept/reject.
type RespondQuoteRequest struct {
	Notes *string `json:"notes"`
}

// PaymentCreateRequest records a deposit or final settlement payment.
type PaymentCreateRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	ProofURL       *string         `json:"proof_url"`
	TransactionRef *string         `json:"transaction_ref"`
	PromptPayRef   *string         `json:"promptpay_ref"`
}
