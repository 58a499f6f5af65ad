// Package notification builds the outbox rows enqueued alongside booking
// state changes. The rows are persisted by the ledger inside the same
// transaction; delivery is somebody else's job.
package notification

import (
	"encoding/json"

	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
)

func build(recipientID uint, b *bookingModel.Booking, event notificationModel.Event, payload map[string]interface{}) *notificationModel.Notification {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("{}")
	}
	return &notificationModel.Notification{
		RecipientID: recipientID,
		BookingID:   b.ID,
		Event:       event,
		Payload:     string(body),
		Status:      "queued",
	}
}

// QuoteSubmitted is addressed to the customer.
func QuoteSubmitted(b *bookingModel.Booking, q *bookingModel.Quote) *notificationModel.Notification {
	return build(b.CustomerID, b, notificationModel.EventQuoteSubmitted, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"quote_id":       q.ID,
		"quoted_price":   q.QuotedPrice.String(),
		"valid_until":    q.ValidUntil,
	})
}

// QuoteAccepted is addressed to the artist.
func QuoteAccepted(b *bookingModel.Booking, q *bookingModel.Quote) *notificationModel.Notification {
	return build(b.ArtistID, b, notificationModel.EventQuoteAccepted, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"quote_id":       q.ID,
		"final_price":    q.QuotedPrice.String(),
	})
}

// QuoteDeclined is addressed to the artist.
func QuoteDeclined(b *bookingModel.Booking, q *bookingModel.Quote) *notificationModel.Notification {
	return build(b.ArtistID, b, notificationModel.EventQuoteDeclined, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"quote_id":       q.ID,
	})
}

// DepositReceived is addressed to the artist.
func DepositReceived(b *bookingModel.Booking, p *bookingModel.Payment) *notificationModel.Notification {
	return build(b.ArtistID, b, notificationModel.EventDepositReceived, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"payment_id":     p.ID,
		"amount":         p.Amount.String(),
		"payment_status": p.Status,
	})
}

// FullPaymentReceived is addressed to the artist.
func FullPaymentReceived(b *bookingModel.Booking, p *bookingModel.Payment) *notificationModel.Notification {
	return build(b.ArtistID, b, notificationModel.EventFullPaymentReceived, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"payment_id":     p.ID,
		"amount":         p.Amount.String(),
		"payment_type":   p.Type,
	})
}

// PaymentVerified is addressed to the customer.
func PaymentVerified(b *bookingModel.Booking, p *bookingModel.Payment) *notificationModel.Notification {
	return build(b.CustomerID, b, notificationModel.EventPaymentVerified, map[string]interface{}{
		"booking_number": b.BookingNumber,
		"payment_id":     p.ID,
		"amount":         p.Amount.String(),
	})
}
