// Package settlement validates and records deposit and remaining/full
// payments against a booking and its accepted quote, recomputing balances
// and advancing the booking status inside one ledger transaction per call.
// The "no active payment of this type" precondition makes a retried request
// fail with Conflict instead of double-charging.
package settlement

import (
	"context"
	"errors"
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

// PaymentRequest carries a customer's settlement submission. A proof URL
// leaves the payment pending manual verification; without one the payment is
// recorded as verified (attested direct payment).
type PaymentRequest struct {
	BookingID      uint
	ActorID        uint
	Amount         decimal.Decimal
	Method         bookingModel.PaymentMethod
	ProofURL       *string
	TransactionRef *string
	PromptPayRef   *string
}

// PaymentResult acknowledges a recorded payment.
type PaymentResult struct {
	PaymentID     uint                       `json:"payment_id"`
	Status        bookingModel.PaymentStatus `json:"status"`
	Type          bookingModel.PaymentType   `json:"type"`
	BookingStatus bookingModel.BookingStatus `json:"booking_status"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
}

// PayDeposit records the first partial payment. The expected amount is the
// quote's fixed deposit if set, otherwise its percentage (default 30) of the
// quoted price, compared within the minor-unit tolerance.
func (s *Service) PayDeposit(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		b, err := tx.BookingByID(req.BookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != req.ActorID {
			return ledger.ErrForbidden
		}
		if b.Status != bookingModel.BookingStatusQuoted && b.Status != bookingModel.BookingStatusConfirmed {
			return ledger.ErrInvalidState
		}

		q, err := tx.AcceptedQuote(b.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return ledger.ErrInvalidState
			}
			return err
		}

		exists, err := tx.HasActivePayment(b.ID, bookingModel.PaymentTypeDeposit)
		if err != nil {
			return err
		}
		if exists {
			return ledger.ErrConflict
		}

		expected := q.DepositPolicy().ExpectedDeposit(q.QuotedPrice)
		if !bookingModel.WithinTolerance(req.Amount, expected) {
			return ledger.ErrInvalidAmount
		}

		now := time.Now()
		p := newPayment(b.ID, bookingModel.PaymentTypeDeposit, req, now)
		if err := tx.CreatePayment(p); err != nil {
			return err
		}

		if b.Status == bookingModel.BookingStatusQuoted {
			if !b.Status.CanTransitionTo(bookingModel.BookingStatusConfirmed) {
				return ledger.ErrInvalidState
			}
			from := b.Status
			b.Status = bookingModel.BookingStatusConfirmed
			price := q.QuotedPrice
			b.FinalPrice = &price
			b.ConfirmedAt = &now
			if err := booking_event.RecordTransition(tx, b, from, b.Status, actorLabel(req.ActorID)); err != nil {
				return err
			}
		}
		amount := req.Amount
		b.DepositPaid = true
		b.DepositAmount = &amount
		b.UpdatedBy = actorLabel(req.ActorID)
		if err := tx.SaveBooking(b); err != nil {
			return err
		}

		if err := tx.Enqueue(notification.DepositReceived(b, p)); err != nil {
			return err
		}
		result = &PaymentResult{
			PaymentID:     p.ID,
			Status:        p.Status,
			Type:          p.Type,
			BookingStatus: b.Status,
			TotalAmount:   q.QuotedPrice,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayRemaining records the final settlement. The amount must close the
// outstanding balance (quoted price minus verified payments) within
// tolerance; the payment is classified "remaining" when something was paid
// before and "full" when it is the first and only settlement.
func (s *Service) PayRemaining(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		b, err := tx.BookingByID(req.BookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != req.ActorID {
			return ledger.ErrForbidden
		}
		if b.Status != bookingModel.BookingStatusConfirmed && b.Status != bookingModel.BookingStatusPaid {
			return ledger.ErrInvalidState
		}

		q, err := tx.AcceptedQuote(b.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return ledger.ErrInvalidState
			}
			return err
		}

		exists, err := tx.HasActivePayment(b.ID, bookingModel.FinalSettlementTypes()...)
		if err != nil {
			return err
		}
		if exists {
			return ledger.ErrConflict
		}

		totalAmount := q.QuotedPrice
		paidAmount, err := tx.VerifiedTotal(b.ID)
		if err != nil {
			return err
		}
		remainingAmount := totalAmount.Sub(paidAmount)
		if !bookingModel.WithinTolerance(req.Amount, remainingAmount) {
			return ledger.ErrInvalidAmount
		}

		paymentType := bookingModel.PaymentTypeFull
		if paidAmount.GreaterThan(decimal.Zero) {
			paymentType = bookingModel.PaymentTypeRemaining
		}

		now := time.Now()
		p := newPayment(b.ID, paymentType, req, now)
		if err := tx.CreatePayment(p); err != nil {
			return err
		}

		if b.Status != bookingModel.BookingStatusPaid {
			if !b.Status.CanTransitionTo(bookingModel.BookingStatusPaid) {
				return ledger.ErrInvalidState
			}
			from := b.Status
			b.Status = bookingModel.BookingStatusPaid
			if err := booking_event.RecordTransition(tx, b, from, b.Status, actorLabel(req.ActorID)); err != nil {
				return err
			}
		}
		b.FinalPrice = &totalAmount
		b.PaidAt = &now
		b.UpdatedBy = actorLabel(req.ActorID)
		if err := tx.SaveBooking(b); err != nil {
			return err
		}

		if err := tx.Enqueue(notification.FullPaymentReceived(b, p)); err != nil {
			return err
		}
		result = &PaymentResult{
			PaymentID:     p.ID,
			Status:        p.Status,
			Type:          p.Type,
			BookingStatus: b.Status,
			TotalAmount:   totalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Verify promotes a pending payment to verified. This is the only mutation a
// payment row accepts after creation.
func (s *Service) Verify(ctx context.Context, paymentID uint, verifiedBy string) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.store.InTx(ctx, func(tx ledger.Tx) error {
		p, err := tx.PaymentByID(paymentID)
		if err != nil {
			return err
		}
		if p.Status != bookingModel.PaymentStatusPending {
			return ledger.ErrInvalidState
		}

		now := time.Now()
		p.Status = bookingModel.PaymentStatusVerified
		p.VerifiedAt = &now
		p.VerifiedBy = &verifiedBy
		if err := tx.SavePayment(p); err != nil {
			return err
		}

		b, err := tx.BookingByID(p.BookingID)
		if err != nil {
			return err
		}
		if err := tx.Enqueue(notification.PaymentVerified(b, p)); err != nil {
			return err
		}
		result = &PaymentResult{
			PaymentID:     p.ID,
			Status:        p.Status,
			Type:          p.Type,
			BookingStatus: b.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newPayment(bookingID uint, paymentType bookingModel.PaymentType, req PaymentRequest, paidAt time.Time) *bookingModel.Payment {
	status := bookingModel.PaymentStatusVerified
	if req.ProofURL != nil && *req.ProofURL != "" {
		status = bookingModel.PaymentStatusPending
	}
	return &bookingModel.Payment{
		BookingID:      bookingID,
		Amount:         req.Amount,
		Currency:       "THB",
		Type:           paymentType,
		Method:         req.Method,
		Status:         status,
		ProofURL:       req.ProofURL,
		TransactionRef: req.TransactionRef,
		PromptPayRef:   req.PromptPayRef,
		PaidAt:         paidAt,
	}
}

func actorLabel(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
