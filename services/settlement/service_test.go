package settlement_test

import (
	"context"
	"testing"
	"time"

	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
	"artist-booking/services/ledger"
	"artist-booking/services/ledger/ledgertest"
	settlementService "artist-booking/services/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerID = uint(1)
	artistID   = uint(2)
	strangerID = uint(99)
)

// seedQuotedBooking prepares a booking with an accepted 10000 quote (default
// 30% deposit policy) in the given status.
func seedQuotedBooking(store *ledgertest.Store, status bookingModel.BookingStatus) (*bookingModel.Booking, *bookingModel.Quote) {
	b := store.AddBooking(bookingModel.Booking{
		BookingNumber: "BK-test",
		CustomerID:    customerID,
		ArtistID:      artistID,
		EventType:     "concert",
		EventDate:     time.Now().AddDate(0, 1, 0),
		Status:        status,
		CreatedBy:     "1",
	})
	now := time.Now()
	q := store.AddQuote(bookingModel.Quote{
		BookingID:   b.ID,
		QuotedPrice: decimal.NewFromInt(10000),
		ValidUntil:  now.Add(48 * time.Hour),
		Status:      bookingModel.QuoteStatusAccepted,
		RespondedAt: &now,
	})
	return b, q
}

func depositRequest(bookingID uint, amount decimal.Decimal) settlementService.PaymentRequest {
	return settlementService.PaymentRequest{
		BookingID: bookingID,
		ActorID:   customerID,
		Amount:    amount,
		Method:    bookingModel.PaymentMethodPromptPay,
	}
}

func TestPayDeposit_ConfirmsQuotedBooking(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
	service := settlementService.NewService(store)

	result, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))

	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentTypeDeposit, result.Type)
	assert.Equal(t, bookingModel.PaymentStatusVerified, result.Status, "no proof means attested and verified")
	assert.Equal(t, bookingModel.BookingStatusConfirmed, result.BookingStatus)

	updated := store.Bookings[b.ID]
	assert.True(t, updated.DepositPaid)
	require.NotNil(t, updated.DepositAmount)
	assert.True(t, updated.DepositAmount.Equal(decimal.NewFromInt(3000)))
	require.NotNil(t, updated.FinalPrice)
	assert.True(t, updated.FinalPrice.Equal(decimal.NewFromInt(10000)))
	assert.NotNil(t, updated.ConfirmedAt)

	require.Len(t, store.StatusEvents, 1)
	assert.Equal(t, bookingModel.BookingStatusQuoted, store.StatusEvents[0].FromStatus)
	assert.Equal(t, bookingModel.BookingStatusConfirmed, store.StatusEvents[0].ToStatus)

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventDepositReceived, store.Notifications[0].Event)
	assert.Equal(t, artistID, store.Notifications[0].RecipientID)
}

func TestPayDeposit_ToleranceBounds(t *testing.T) {
	t.Run("within minor unit passes", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
		service := settlementService.NewService(store)

		_, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromFloat(3000.01)))
		assert.NoError(t, err)
	})

	t.Run("one baht over fails", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
		service := settlementService.NewService(store)

		result, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3001)))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		assert.Empty(t, store.Payments, "failed payment leaves no row behind")
		assert.Equal(t, bookingModel.BookingStatusQuoted, store.Bookings[b.ID].Status)
	})
}

func TestPayDeposit_FixedDepositPolicyWins(t *testing.T) {
	store := ledgertest.NewStore()
	b := store.AddBooking(bookingModel.Booking{
		BookingNumber: "BK-test",
		CustomerID:    customerID,
		ArtistID:      artistID,
		EventType:     "concert",
		EventDate:     time.Now().AddDate(0, 1, 0),
		Status:        bookingModel.BookingStatusQuoted,
		CreatedBy:     "1",
	})
	now := time.Now()
	fixed := decimal.NewFromInt(2500)
	pct := 50
	store.AddQuote(bookingModel.Quote{
		BookingID:         b.ID,
		QuotedPrice:       decimal.NewFromInt(10000),
		DepositAmount:     &fixed,
		DepositPercentage: &pct,
		ValidUntil:        now.Add(48 * time.Hour),
		Status:            bookingModel.QuoteStatusAccepted,
		RespondedAt:       &now,
	})
	service := settlementService.NewService(store)

	_, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(5000)))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "percentage must not apply when a fixed amount is set")

	_, err = service.PayDeposit(context.Background(), depositRequest(b.ID, fixed))
	assert.NoError(t, err)
}

func TestPayDeposit_DuplicateConflicts(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
	service := settlementService.NewService(store)

	_, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))
	require.NoError(t, err)

	_, err = service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))
	assert.ErrorIs(t, err, ledger.ErrConflict)
	assert.Len(t, store.Payments, 1)
}

func TestPayDeposit_PendingDepositStillConflicts(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
	service := settlementService.NewService(store)

	proof := "https://cdn.example.com/slips/1.jpg"
	req := depositRequest(b.ID, decimal.NewFromInt(3000))
	req.ProofURL = &proof
	result, err := service.PayDeposit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentStatusPending, result.Status)

	// Pending payments are active, so a retry must not double-charge.
	_, err = service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))
	assert.ErrorIs(t, err, ledger.ErrConflict)
}

func TestPayDeposit_Failures(t *testing.T) {
	t.Run("wrong actor", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
		service := settlementService.NewService(store)

		req := depositRequest(b.ID, decimal.NewFromInt(3000))
		req.ActorID = strangerID
		_, err := service.PayDeposit(context.Background(), req)
		assert.ErrorIs(t, err, ledger.ErrForbidden)
	})

	t.Run("inquiry booking has nothing to pay", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusInquiry)
		service := settlementService.NewService(store)

		_, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))
		assert.ErrorIs(t, err, ledger.ErrInvalidState)
	})

	t.Run("no accepted quote", func(t *testing.T) {
		store := ledgertest.NewStore()
		b := store.AddBooking(bookingModel.Booking{
			BookingNumber: "BK-test",
			CustomerID:    customerID,
			ArtistID:      artistID,
			Status:        bookingModel.BookingStatusQuoted,
			CreatedBy:     "1",
		})
		service := settlementService.NewService(store)

		_, err := service.PayDeposit(context.Background(), depositRequest(b.ID, decimal.NewFromInt(3000)))
		assert.ErrorIs(t, err, ledger.ErrInvalidState)
	})
}

func TestPayRemaining_ClosesBalanceAfterDeposit(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusConfirmed)
	store.AddPayment(bookingModel.Payment{
		BookingID: b.ID,
		Amount:    decimal.NewFromInt(3000),
		Type:      bookingModel.PaymentTypeDeposit,
		Method:    bookingModel.PaymentMethodPromptPay,
		Status:    bookingModel.PaymentStatusVerified,
		PaidAt:    time.Now(),
	})
	service := settlementService.NewService(store)

	result, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(7000)))

	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentTypeRemaining, result.Type)
	assert.Equal(t, bookingModel.BookingStatusPaid, result.BookingStatus)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(10000)))

	updated := store.Bookings[b.ID]
	assert.Equal(t, bookingModel.BookingStatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)

	// Verified payments now sum to the accepted quote's price.
	total := decimal.Zero
	for _, p := range store.Payments {
		if p.Status == bookingModel.PaymentStatusVerified {
			total = total.Add(p.Amount)
		}
	}
	assert.True(t, total.Equal(decimal.NewFromInt(10000)))

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventFullPaymentReceived, store.Notifications[0].Event)
}

func TestPayRemaining_FullPaymentWithoutDeposit(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusConfirmed)
	service := settlementService.NewService(store)

	result, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(10000)))

	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentTypeFull, result.Type, "first settlement with nothing paid is a full payment")
	assert.Equal(t, bookingModel.BookingStatusPaid, result.BookingStatus)
}

func TestPayRemaining_PendingDepositExcludedFromBalance(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusConfirmed)
	proof := "https://cdn.example.com/slips/2.jpg"
	store.AddPayment(bookingModel.Payment{
		BookingID: b.ID,
		Amount:    decimal.NewFromInt(3000),
		Type:      bookingModel.PaymentTypeDeposit,
		Method:    bookingModel.PaymentMethodBankTransfer,
		Status:    bookingModel.PaymentStatusPending,
		ProofURL:  &proof,
		PaidAt:    time.Now(),
	})
	service := settlementService.NewService(store)

	// The pending deposit does not count toward the verified balance, so
	// 7000 does not close the booking.
	_, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(7000)))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	result, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(10000)))
	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentTypeFull, result.Type)
}

func TestPayRemaining_Failures(t *testing.T) {
	t.Run("duplicate final settlement conflicts", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusConfirmed)
		service := settlementService.NewService(store)

		_, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(10000)))
		require.NoError(t, err)

		_, err = service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(10000)))
		assert.ErrorIs(t, err, ledger.ErrConflict)
	})

	t.Run("quoted booking cannot settle", func(t *testing.T) {
		store := ledgertest.NewStore()
		b, _ := seedQuotedBooking(store, bookingModel.BookingStatusQuoted)
		service := settlementService.NewService(store)

		_, err := service.PayRemaining(context.Background(), depositRequest(b.ID, decimal.NewFromInt(10000)))
		assert.ErrorIs(t, err, ledger.ErrInvalidState)
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := ledgertest.NewStore()
		service := settlementService.NewService(store)

		_, err := service.PayRemaining(context.Background(), depositRequest(404, decimal.NewFromInt(10000)))
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestVerify_PromotesPendingExactlyOnce(t *testing.T) {
	store := ledgertest.NewStore()
	b, _ := seedQuotedBooking(store, bookingModel.BookingStatusConfirmed)
	proof := "https://cdn.example.com/slips/3.jpg"
	p := store.AddPayment(bookingModel.Payment{
		BookingID: b.ID,
		Amount:    decimal.NewFromInt(3000),
		Type:      bookingModel.PaymentTypeDeposit,
		Method:    bookingModel.PaymentMethodBankTransfer,
		Status:    bookingModel.PaymentStatusPending,
		ProofURL:  &proof,
		PaidAt:    time.Now(),
	})
	service := settlementService.NewService(store)

	result, err := service.Verify(context.Background(), p.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, bookingModel.PaymentStatusVerified, result.Status)

	stored := store.Payments[p.ID]
	assert.NotNil(t, stored.VerifiedAt)
	require.NotNil(t, stored.VerifiedBy)
	assert.Equal(t, "admin", *stored.VerifiedBy)

	require.Len(t, store.Notifications, 1)
	assert.Equal(t, notificationModel.EventPaymentVerified, store.Notifications[0].Event)
	assert.Equal(t, customerID, store.Notifications[0].RecipientID)

	// A second verify is a no-op state-wise and surfaces InvalidState.
	_, err = service.Verify(context.Background(), p.ID, "admin")
	assert.ErrorIs(t, err, ledger.ErrInvalidState)
	assert.Len(t, store.Notifications, 1)
}
