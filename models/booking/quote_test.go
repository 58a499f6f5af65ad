package booking_test

import (
	"testing"
	"time"

	"artist-booking/models/booking"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote_DepositPolicy(t *testing.T) {
	total := decimal.NewFromInt(10000)

	t.Run("fixed amount wins over percentage", func(t *testing.T) {
		fixed := decimal.NewFromInt(2500)
		pct := 50
		q := &booking.Quote{QuotedPrice: total, DepositAmount: &fixed, DepositPercentage: &pct}

		policy := q.DepositPolicy()
		assert.Equal(t, booking.DepositFixed, policy.Kind)
		assert.True(t, policy.ExpectedDeposit(total).Equal(fixed))
	})

	t.Run("percentage of quoted price", func(t *testing.T) {
		pct := 40
		q := &booking.Quote{QuotedPrice: total, DepositPercentage: &pct}

		policy := q.DepositPolicy()
		assert.Equal(t, booking.DepositPercent, policy.Kind)
		assert.True(t, policy.ExpectedDeposit(total).Equal(decimal.NewFromInt(4000)))
	})

	t.Run("default percentage when nothing set", func(t *testing.T) {
		q := &booking.Quote{QuotedPrice: total}

		policy := q.DepositPolicy()
		assert.Equal(t, booking.DepositDefault, policy.Kind)
		assert.Equal(t, booking.DefaultDepositPercentage, policy.Percentage)
		assert.True(t, policy.ExpectedDeposit(total).Equal(decimal.NewFromInt(3000)))
	})
}

func TestQuote_IsExpired(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := &booking.Quote{ValidUntil: deadline}

	assert.False(t, q.IsExpired(deadline.Add(-time.Minute)))
	assert.False(t, q.IsExpired(deadline), "deadline itself is still valid")
	assert.True(t, q.IsExpired(deadline.Add(time.Second)))
}

func TestWithinTolerance(t *testing.T) {
	expected := decimal.NewFromInt(3000)

	assert.True(t, booking.WithinTolerance(expected, expected))
	assert.True(t, booking.WithinTolerance(decimal.NewFromFloat(3000.01), expected))
	assert.True(t, booking.WithinTolerance(decimal.NewFromFloat(2999.99), expected))
	assert.False(t, booking.WithinTolerance(decimal.NewFromFloat(3000.02), expected))
	assert.False(t, booking.WithinTolerance(decimal.NewFromFloat(3001), expected))
}
