// Package quote implements quote negotiation: artists file quotes against a
// booking, customers accept or reject them. Every operation runs in a single
// ledger transaction so concurrent responses to sibling quotes resolve to at
// most one ACCEPTED quote per booking.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	bookingModel "artist-booking/models/booking"
	"artist-booking/services/booking_event"
	"artist-booking/services/ledger"
	"artist-booking/services/notification"

	"github.com/shopspring/decimal"
)

type Service struct {
	store ledger.Store
}

func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// SubmitRequest carries an artist's quote for a booking.
type SubmitRequest struct {
	BookingID         uint
	ArtistID          uint
	QuotedPrice       decimal.Decimal
	DepositAmount     *decimal.Decimal
	DepositPercentage *int
	ValidUntil        time.Time
	Message           *string
}

// RespondResult acknowledges an accept/reject with the booking status after
// the operation.
type RespondResult struct {
	QuoteID       uint                       `json:"quote_id"`
	QuoteStatus   bookingModel.QuoteStatus   `json:"quote_status"`
	BookingStatus bookingModel.BookingStatus `json:"booking_status"`
}

// Submit files a PENDING quote. The first quote moves the booking from
// INQUIRY to QUOTED; later quotes just refresh the advertised price.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*bookingModel.Quote, error) {
	if req.QuotedPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quoted price must be positive: %w", ledger.ErrInvalidAmount)
	}
	if req.DepositPercentage != nil && (*req.DepositPercentage < 1 || *req.DepositPercentage > 100) {
		return nil, fmt.Errorf("deposit percentage out of range: %w", ledger.ErrInvalidAmount)
	}
	now := time.Now()
	if !req.ValidUntil.After(now) {
		return nil, ledger.ErrExpired
	}

	var created *bookingModel.Quote
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		b, err := tx.BookingByID(req.BookingID)
		if err != nil {
			return err
		}
		if b.ArtistID != req.ArtistID {
			return ledger.ErrForbidden
		}
		if b.Status != bookingModel.BookingStatusInquiry && b.Status != bookingModel.BookingStatusQuoted {
			return ledger.ErrInvalidState
		}

		q := &bookingModel.Quote{
			BookingID:         b.ID,
			QuotedPrice:       req.QuotedPrice,
			DepositAmount:     req.DepositAmount,
			DepositPercentage: req.DepositPercentage,
			ValidUntil:        req.ValidUntil,
			Status:            bookingModel.QuoteStatusPending,
			ArtistMessage:     req.Message,
		}
		if err := tx.CreateQuote(q); err != nil {
			return err
		}

		price := req.QuotedPrice
		b.QuotedPrice = &price
		if b.Status == bookingModel.BookingStatusInquiry {
			if !b.Status.CanTransitionTo(bookingModel.BookingStatusQuoted) {
				return ledger.ErrInvalidState
			}
			from := b.Status
			b.Status = bookingModel.BookingStatusQuoted
			if err := booking_event.RecordTransition(tx, b, from, b.Status, actorLabel(req.ArtistID)); err != nil {
				return err
			}
		}
		b.UpdatedBy = actorLabel(req.ArtistID)
		if err := tx.SaveBooking(b); err != nil {
			return err
		}

		created = q
		return tx.Enqueue(notification.QuoteSubmitted(b, q))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Accept marks the quote ACCEPTED, rejects its pending siblings, and
// confirms the booking, all atomically.
func (s *Service) Accept(ctx context.Context, quoteID, actorID uint, notes *string) (*RespondResult, error) {
	var result *RespondResult
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		q, b, err := s.loadForResponse(tx, quoteID, actorID)
		if err != nil {
			return err
		}

		now := time.Now()
		q.Status = bookingModel.QuoteStatusAccepted
		q.RespondedAt = &now
		q.CustomerNotes = notes
		if err := tx.SaveQuote(q); err != nil {
			return err
		}
		if err := tx.RejectPendingQuotes(b.ID, q.ID, now); err != nil {
			return err
		}

		if !b.Status.CanTransitionTo(bookingModel.BookingStatusConfirmed) {
			return ledger.ErrInvalidState
		}
		from := b.Status
		b.Status = bookingModel.BookingStatusConfirmed
		price := q.QuotedPrice
		b.FinalPrice = &price
		b.ConfirmedAt = &now
		b.UpdatedBy = actorLabel(actorID)
		if err := booking_event.RecordTransition(tx, b, from, b.Status, actorLabel(actorID)); err != nil {
			return err
		}
		if err := tx.SaveBooking(b); err != nil {
			return err
		}

		if err := tx.Enqueue(notification.QuoteAccepted(b, q)); err != nil {
			return err
		}
		result = &RespondResult{QuoteID: q.ID, QuoteStatus: q.Status, BookingStatus: b.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject marks the quote REJECTED. The booking status is left unchanged; the
// artist may submit a new quote later.
func (s *Service) Reject(ctx context.Context, quoteID, actorID uint, notes *string) (*RespondResult, error) {
	var result *RespondResult
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		q, b, err := s.loadForResponse(tx, quoteID, actorID)
		if err != nil {
			return err
		}

		now := time.Now()
		q.Status = bookingModel.QuoteStatusRejected
		q.RespondedAt = &now
		q.CustomerNotes = notes
		if err := tx.SaveQuote(q); err != nil {
			return err
		}

		if err := tx.Enqueue(notification.QuoteDeclined(b, q)); err != nil {
			return err
		}
		result = &RespondResult{QuoteID: q.ID, QuoteStatus: q.Status, BookingStatus: b.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadForResponse fetches the quote and booking and runs the shared
// preconditions for accept/reject: ownership, PENDING status, validity
// window.
func (s *Service) loadForResponse(tx ledger.Tx, quoteID, actorID uint) (*bookingModel.Quote, *bookingModel.Booking, error) {
	q, err := tx.QuoteByID(quoteID)
	if err != nil {
		return nil, nil, err
	}
	b, err := tx.BookingByID(q.BookingID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil, ledger.ErrNotFound
		}
		return nil, nil, err
	}
	if b.CustomerID != actorID {
		return nil, nil, ledger.ErrForbidden
	}
	if q.Status != bookingModel.QuoteStatusPending {
		return nil, nil, ledger.ErrInvalidState
	}
	if q.IsExpired(time.Now()) {
		return nil, nil, ledger.ErrExpired
	}
	return q, b, nil
}

func actorLabel(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
