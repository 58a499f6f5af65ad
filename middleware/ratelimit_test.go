package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(rl *RateLimiter) *fiber.App {
	app := fiber.New()
	// Simulate the auth middleware attaching verified claims.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"uuid": "user-1"})
		return c.Next()
	})
	app.Post("/op", rl.Limit("op"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, 2, time.Minute)
	fixed := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	key := rl.windowKey("op", "user-1", fixed)
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	app := newLimitedApp(rl)

	for i, want := range []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest("POST", "/op", nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_NewWindowResetsCounter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, 1, time.Minute)

	current := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return current }

	firstKey := rl.windowKey("op", "user-1", current)
	mock.ExpectIncr(firstKey).SetVal(1)
	mock.ExpectExpire(firstKey, time.Minute).SetVal(true)

	app := newLimitedApp(rl)
	resp, err := app.Test(httptest.NewRequest("POST", "/op", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Next minute lands in a fresh bucket.
	current = current.Add(time.Minute)
	secondKey := rl.windowKey("op", "user-1", current)
	require.NotEqual(t, firstKey, secondKey)
	mock.ExpectIncr(secondKey).SetVal(1)
	mock.ExpectExpire(secondKey, time.Minute).SetVal(true)

	resp, err = app.Test(httptest.NewRequest("POST", "/op", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, 1, time.Minute)
	fixed := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	key := rl.windowKey("op", "user-1", fixed)
	mock.ExpectIncr(key).SetErr(assert.AnError)

	app := newLimitedApp(rl)
	resp, err := app.Test(httptest.NewRequest("POST", "/op", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "redis outage must not block traffic")
}
