package ledger

import (
	"context"
	"errors"
	"time"

	bookingModel "artist-booking/models/booking"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingAggregate is the read model for one booking: the row itself, its
// accepted quote if any, and its verified payments, with balances computed
// once. A plain struct, not a live object graph.
type BookingAggregate struct {
	Booking          bookingModel.Booking   `json:"booking"`
	AcceptedQuote    *bookingModel.Quote    `json:"accepted_quote,omitempty"`
	VerifiedPayments []bookingModel.Payment `json:"verified_payments"`
	PaidAmount       decimal.Decimal        `json:"paid_amount"`
	RemainingAmount  decimal.Decimal        `json:"remaining_amount"`
}

// Aggregate fetches a booking together with its most recent accepted quote
// and verified payments. Read-only; runs outside the transactional path.
func (s *GormStore) Aggregate(ctx context.Context, bookingID uint) (*BookingAggregate, error) {
	var b bookingModel.Booking
	err := s.DB.WithContext(ctx).
		Preload("Customer").Preload("Artist").Preload("VenueInfo").
		First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	agg := &BookingAggregate{Booking: b, PaidAmount: decimal.Zero, RemainingAmount: decimal.Zero}

	var accepted bookingModel.Quote
	err = s.DB.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, bookingModel.QuoteStatusAccepted).
		Order("responded_at DESC").First(&accepted).Error
	if err == nil {
		agg.AcceptedQuote = &accepted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.DB.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, bookingModel.PaymentStatusVerified).
		Order("paid_at ASC").Find(&agg.VerifiedPayments).Error
	if err != nil {
		return nil, err
	}

	for _, p := range agg.VerifiedPayments {
		agg.PaidAmount = agg.PaidAmount.Add(p.Amount)
	}
	if agg.AcceptedQuote != nil {
		agg.RemainingAmount = agg.AcceptedQuote.QuotedPrice.Sub(agg.PaidAmount)
	}
	return agg, nil
}

// UpcomingBookings lists a user's bookings (as customer or artist) whose
// event date falls inside the given window.
func (s *GormStore) UpcomingBookings(ctx context.Context, userID uint, from, to time.Time) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := s.DB.WithContext(ctx).
		Preload("Customer").Preload("Artist").Preload("VenueInfo").
		Where("(customer_id = ? OR artist_id = ?) AND event_date >= ? AND event_date < ?", userID, userID, from, to).
		Where("status NOT IN ?", []bookingModel.BookingStatus{bookingModel.BookingStatusCancelled}).
		Order("event_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
