package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"artist-booking/logger"
	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
	venueModel "artist-booking/models/venue"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	txMaxAttempts = 3
	txBackoffStep = 50 * time.Millisecond
)

// GormStore is the Postgres-backed ledger store.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a new gorm-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// InTx executes fn in a serializable transaction, retrying a bounded number
// of times on serialization conflicts before surfacing ErrUnavailable.
func (s *GormStore) InTx(ctx context.Context, fn func(Tx) error) error {
	var err error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormTx{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		if err == nil || !isSerializationFailure(err) {
			return err
		}

		logger.Warning("Serialization conflict in ledger transaction, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txBackoffStep):
		}
	}
	logger.Error("Ledger transaction failed after retries", err)
	return ErrUnavailable
}

// isSerializationFailure matches Postgres serialization (40001) and deadlock
// (40P01) aborts, both safe to retry.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01")
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) BookingByID(id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := t.db.Preload("Customer").Preload("Artist").Preload("VenueInfo").First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *gormTx) QuoteByID(id uint) (*bookingModel.Quote, error) {
	var q bookingModel.Quote
	err := t.db.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (t *gormTx) AcceptedQuote(bookingID uint) (*bookingModel.Quote, error) {
	var q bookingModel.Quote
	err := t.db.Where("booking_id = ? AND status = ?", bookingID, bookingModel.QuoteStatusAccepted).
		Order("responded_at DESC").First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (t *gormTx) RejectPendingQuotes(bookingID, keepQuoteID uint, respondedAt time.Time) error {
	return t.db.Model(&bookingModel.Quote{}).
		Where("booking_id = ? AND id <> ? AND status = ?", bookingID, keepQuoteID, bookingModel.QuoteStatusPending).
		Updates(map[string]interface{}{
			"status":       bookingModel.QuoteStatusRejected,
			"responded_at": respondedAt,
		}).Error
}

func (t *gormTx) HasActivePayment(bookingID uint, types ...bookingModel.PaymentType) (bool, error) {
	var count int64
	err := t.db.Model(&bookingModel.Payment{}).
		Where("booking_id = ? AND type IN ? AND status IN ?", bookingID, types,
			[]bookingModel.PaymentStatus{bookingModel.PaymentStatusPending, bookingModel.PaymentStatusVerified}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t *gormTx) VerifiedTotal(bookingID uint) (decimal.Decimal, error) {
	var payments []bookingModel.Payment
	err := t.db.Where("booking_id = ? AND status = ?", bookingID, bookingModel.PaymentStatusVerified).
		Find(&payments).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (t *gormTx) PaymentByID(id uint) (*bookingModel.Payment, error) {
	var p bookingModel.Payment
	err := t.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *gormTx) CreateBooking(b *bookingModel.Booking) error { return t.db.Create(b).Error }
func (t *gormTx) CreateQuote(q *bookingModel.Quote) error     { return t.db.Create(q).Error }
func (t *gormTx) CreatePayment(p *bookingModel.Payment) error { return t.db.Create(p).Error }
func (t *gormTx) CreateVenue(v *venueModel.Venue) error       { return t.db.Create(v).Error }

func (t *gormTx) SaveBooking(b *bookingModel.Booking) error {
	return t.db.Omit("Customer", "Artist", "VenueInfo").Save(b).Error
}

func (t *gormTx) SaveQuote(q *bookingModel.Quote) error {
	return t.db.Omit("Booking").Save(q).Error
}

func (t *gormTx) SavePayment(p *bookingModel.Payment) error {
	return t.db.Omit("Booking").Save(p).Error
}

func (t *gormTx) RecordStatusEvent(e *bookingModel.BookingStatusEvent) error {
	return t.db.Omit("Booking").Create(e).Error
}

func (t *gormTx) Enqueue(n *notificationModel.Notification) error {
	return t.db.Create(n).Error
}
