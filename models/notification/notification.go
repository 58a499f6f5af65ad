package notification

import (
	"time"
)

// Event identifies what a notification row describes.
type Event string

const (
	EventQuoteAccepted       Event = "quote_accepted"
	EventQuoteDeclined       Event = "quote_declined"
	EventQuoteSubmitted      Event = "quote_submitted"
	EventDepositReceived     Event = "deposit_received"
	EventFullPaymentReceived Event = "full_payment_received"
	EventPaymentVerified     Event = "payment_verified"
)

// Notification is a durable outbox row. It is written inside the same
// transaction as the state change it describes; delivery happens entirely
// outside this service.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	BookingID   uint   `gorm:"not null;index" json:"booking_id"`
	Event       Event  `gorm:"type:varchar(50);not null" json:"event"`
	Payload     string `gorm:"type:text" json:"payload"`
	Status      string `gorm:"type:varchar(20);not null;default:queued" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
