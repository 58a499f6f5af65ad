package quote_test

import (
	"context"
	"testing"
	"time"

	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
	"artist-booking/services/ledger"
	"artist-booking/services/ledger/ledgertest"
	quoteService "artist-booking/services/quote"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerID = uint(1)
	artistID   = uint(2)
	strangerID = uint(99)
)

func seedBooking(store *ledgertest.Store, status bookingModel.BookingStatus) *bookingModel.Booking {
	return store.AddBooking(bookingModel.Booking{
		BookingNumber: "BK-test",
		CustomerID:    customerID,
		ArtistID:      artistID,
		EventType:     "wedding",
		EventDate:     time.Now().AddDate(0, 1, 0),
		Status:        status,
		CreatedBy:     "1",
	})
}

func seedPendingQuote(store *ledgertest.Store, bookingID uint, price int64) *bookingModel.Quote {
	return store.AddQuote(bookingModel.Quote{
		BookingID:   bookingID,
		QuotedPrice: decimal.NewFromInt(price),
		ValidUntil:  time.Now().Add(48 * time.Hour),
		Status:      bookingModel.QuoteStatusPending,
	})
}

func TestSubmit_FirstQuoteMovesInquiryToQuoted(t *testing.T) {
	store := ledgertest.NewStore()
	b := seedBooking(store, bookingModel.BookingStatusInquiry)
	service := quoteService.NewService(store)

	created, err := service.Submit(context.Background(), quoteService.SubmitRequest{
		BookingID:   b.ID,
		ArtistID:    artistID,
		QuotedPrice: decimal.NewFromInt(10000),
		ValidUntil:  time.Now().Add(72 * time.Hour),
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, bookingModel.QuoteStatusPending, created.Status)

	updated := store.Bookings[b.ID]
	assert.Equal(t, bookingModel.BookingStatusQuoted, updated.Status)
	require.NotNil(t, updated.QuotedPrice)
	assert.True(t, updated.QuotedPrice.Equal(decimal.NewFromInt(10000)))

	require.Len(t, store.StatusEvents, 1)
	assert.Equal(t, bookingModel.BookingStatusInquiry, store.StatusEvents[0].FromStatus)
	assert.Equal(t, bookingModel.BookingStatusQuoted, store.StatusEvents[0].ToStatus)

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventQuoteSubmitted, store.Notifications[0].Event)
	assert.Equal(t, customerID, store.Notifications[0].RecipientID)
}

func TestSubmit_SecondQuoteKeepsQuotedStatus(t *testing.T) {
	store := ledgertest.NewStore()
	b := seedBooking(store, bookingModel.BookingStatusQuoted)
	service := quoteService.NewService(store)

	_, err := service.Submit(context.Background(), quoteService.SubmitRequest{
		BookingID:   b.ID,
		ArtistID:    artistID,
		QuotedPrice: decimal.NewFromInt(12000),
		ValidUntil:  time.Now().Add(72 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, bookingModel.BookingStatusQuoted, store.Bookings[b.ID].Status)
	assert.Empty(t, store.StatusEvents, "re-quoting records no transition")
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  bookingModel.BookingStatus
		req     func(bookingID uint) quoteService.SubmitRequest
		wantErr error
	}{
		{
			name:   "wrong artist",
			status: bookingModel.BookingStatusInquiry,
			req: func(id uint) quoteService.SubmitRequest {
				return quoteService.SubmitRequest{
					BookingID:   id,
					ArtistID:    strangerID,
					QuotedPrice: decimal.NewFromInt(10000),
					ValidUntil:  time.Now().Add(time.Hour),
				}
			},
			wantErr: ledger.ErrForbidden,
		},
		{
			name:   "paid booking refuses quotes",
			status: bookingModel.BookingStatusPaid,
			req: func(id uint) quoteService.SubmitRequest {
				return quoteService.SubmitRequest{
					BookingID:   id,
					ArtistID:    artistID,
					QuotedPrice: decimal.NewFromInt(10000),
					ValidUntil:  time.Now().Add(time.Hour),
				}
			},
			wantErr: ledger.ErrInvalidState,
		},
		{
			name:   "non-positive price",
			status: bookingModel.BookingStatusInquiry,
			req: func(id uint) quoteService.SubmitRequest {
				return quoteService.SubmitRequest{
					BookingID:   id,
					ArtistID:    artistID,
					QuotedPrice: decimal.Zero,
					ValidUntil:  time.Now().Add(time.Hour),
				}
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:   "validity window already over",
			status: bookingModel.BookingStatusInquiry,
			req: func(id uint) quoteService.SubmitRequest {
				return quoteService.SubmitRequest{
					BookingID:   id,
					ArtistID:    artistID,
					QuotedPrice: decimal.NewFromInt(10000),
					ValidUntil:  time.Now().Add(-time.Hour),
				}
			},
			wantErr: ledger.ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := ledgertest.NewStore()
			b := seedBooking(store, tt.status)
			service := quoteService.NewService(store)

			created, err := service.Submit(context.Background(), tt.req(b.ID))

			assert.Nil(t, created)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, store.Bookings[b.ID].Status, "booking must be untouched")
			assert.Empty(t, store.Quotes)
			assert.Empty(t, store.Notifications)
		})
	}
}

func TestAccept_ConfirmsBookingAndRejectsSiblings(t *testing.T) {
	store := ledgertest.NewStore()
	b := seedBooking(store, bookingModel.BookingStatusQuoted)
	winner := seedPendingQuote(store, b.ID, 10000)
	sibling := seedPendingQuote(store, b.ID, 9000)
	service := quoteService.NewService(store)

	notes := "see you there"
	result, err := service.Accept(context.Background(), winner.ID, customerID, &notes)

	require.NoError(t, err)
	assert.Equal(t, bookingModel.QuoteStatusAccepted, result.QuoteStatus)
	assert.Equal(t, bookingModel.BookingStatusConfirmed, result.BookingStatus)

	assert.Equal(t, bookingModel.QuoteStatusAccepted, store.Quotes[winner.ID].Status)
	assert.Equal(t, bookingModel.QuoteStatusRejected, store.Quotes[sibling.ID].Status)

	updated := store.Bookings[b.ID]
	assert.Equal(t, bookingModel.BookingStatusConfirmed, updated.Status)
	require.NotNil(t, updated.FinalPrice)
	assert.True(t, updated.FinalPrice.Equal(decimal.NewFromInt(10000)))
	assert.NotNil(t, updated.ConfirmedAt)

	require.Len(t, store.StatusEvents, 1)
	assert.Equal(t, bookingModel.BookingStatusQuoted, store.StatusEvents[0].FromStatus)
	assert.Equal(t, bookingModel.BookingStatusConfirmed, store.StatusEvents[0].ToStatus)

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventQuoteAccepted, store.Notifications[0].Event)
	assert.Equal(t, artistID, store.Notifications[0].RecipientID)
}

func TestAccept_AtMostOneAcceptedQuote(t *testing.T) {
	store := ledgertest.NewStore()
	b := seedBooking(store, bookingModel.BookingStatusQuoted)
	first := seedPendingQuote(store, b.ID, 10000)
	second := seedPendingQuote(store, b.ID, 9000)
	service := quoteService.NewService(store)

	_, err := service.Accept(context.Background(), first.ID, customerID, nil)
	require.NoError(t, err)

	// The sibling was rejected by the first accept, so a second accept must
	// fail and leave exactly one ACCEPTED quote behind.
	_, err = service.Accept(context.Background(), second.ID, customerID, nil)
	assert.ErrorIs(t, err, ledger.ErrInvalidState)

	accepted := 0
	for _, q := range store.Quotes {
		if q.Status == bookingModel.QuoteStatusAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAccept_Failures(t *testing.T) {
	t.Run("expired quote", func(t *testing.T) {
		store := ledgertest.NewStore()
		b := seedBooking(store, bookingModel.BookingStatusQuoted)
		q := store.AddQuote(bookingModel.Quote{
			BookingID:   b.ID,
			QuotedPrice: decimal.NewFromInt(10000),
			ValidUntil:  time.Now().Add(-time.Minute),
			Status:      bookingModel.QuoteStatusPending,
		})
		service := quoteService.NewService(store)

		_, err := service.Accept(context.Background(), q.ID, customerID, nil)

		assert.ErrorIs(t, err, ledger.ErrExpired)
		assert.Equal(t, bookingModel.QuoteStatusPending, store.Quotes[q.ID].Status)
		assert.Equal(t, bookingModel.BookingStatusQuoted, store.Bookings[b.ID].Status)
	})

	t.Run("not the booking customer", func(t *testing.T) {
		store := ledgertest.NewStore()
		b := seedBooking(store, bookingModel.BookingStatusQuoted)
		q := seedPendingQuote(store, b.ID, 10000)
		service := quoteService.NewService(store)

		_, err := service.Accept(context.Background(), q.ID, strangerID, nil)

		assert.ErrorIs(t, err, ledger.ErrForbidden)
	})

	t.Run("already rejected quote", func(t *testing.T) {
		store := ledgertest.NewStore()
		b := seedBooking(store, bookingModel.BookingStatusQuoted)
		q := store.AddQuote(bookingModel.Quote{
			BookingID:   b.ID,
			QuotedPrice: decimal.NewFromInt(10000),
			ValidUntil:  time.Now().Add(time.Hour),
			Status:      bookingModel.QuoteStatusRejected,
		})
		service := quoteService.NewService(store)

		_, err := service.Accept(context.Background(), q.ID, customerID, nil)

		assert.ErrorIs(t, err, ledger.ErrInvalidState)
	})

	t.Run("unknown quote", func(t *testing.T) {
		store := ledgertest.NewStore()
		service := quoteService.NewService(store)

		_, err := service.Accept(context.Background(), 42, customerID, nil)

		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestReject_LeavesBookingUntouched(t *testing.T) {
	store := ledgertest.NewStore()
	b := seedBooking(store, bookingModel.BookingStatusQuoted)
	q := seedPendingQuote(store, b.ID, 10000)
	service := quoteService.NewService(store)

	notes := "too expensive"
	result, err := service.Reject(context.Background(), q.ID, customerID, &notes)

	require.NoError(t, err)
	assert.Equal(t, bookingModel.QuoteStatusRejected, result.QuoteStatus)
	assert.Equal(t, bookingModel.BookingStatusQuoted, result.BookingStatus)

	assert.Equal(t, bookingModel.QuoteStatusRejected, store.Quotes[q.ID].Status)
	assert.Equal(t, bookingModel.BookingStatusQuoted, store.Bookings[b.ID].Status)
	assert.Empty(t, store.StatusEvents)

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventQuoteDeclined, store.Notifications[0].Event)
	assert.Equal(t, artistID, store.Notifications[0].RecipientID)
}
