package ledger

import (
	"context"
	"time"

	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
	venueModel "artist-booking/models/venue"

	"github.com/shopspring/decimal"
)

// Tx is the set of row operations available inside one atomic transaction.
// Reads return detached copies; mutations become visible to other
// transactions only at commit.
type Tx interface {
	BookingByID(id uint) (*bookingModel.Booking, error)
	QuoteByID(id uint) (*bookingModel.Quote, error)
	// AcceptedQuote returns the booking's accepted quote, or ErrNotFound.
	AcceptedQuote(bookingID uint) (*bookingModel.Quote, error)
	// RejectPendingQuotes rejects every pending quote of the booking except
	// keepQuoteID, stamping respondedAt.
	RejectPendingQuotes(bookingID, keepQuoteID uint, respondedAt time.Time) error
	// HasActivePayment reports whether a pending or verified payment of any
	// of the given types exists for the booking.
	HasActivePayment(bookingID uint, types ...bookingModel.PaymentType) (bool, error)
	// VerifiedTotal sums the amounts of all verified payments of the booking.
	VerifiedTotal(bookingID uint) (decimal.Decimal, error)
	PaymentByID(id uint) (*bookingModel.Payment, error)

	CreateBooking(b *bookingModel.Booking) error
	CreateQuote(q *bookingModel.Quote) error
	CreatePayment(p *bookingModel.Payment) error
	CreateVenue(v *venueModel.Venue) error
	SaveBooking(b *bookingModel.Booking) error
	SaveQuote(q *bookingModel.Quote) error
	SavePayment(p *bookingModel.Payment) error

	RecordStatusEvent(e *bookingModel.BookingStatusEvent) error
	Enqueue(n *notificationModel.Notification) error
}

// Store runs a function inside one atomic, serializable transaction. The
// read-validate-write sequence of fn is indivisible with respect to other
// transactions touching the same booking.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}
