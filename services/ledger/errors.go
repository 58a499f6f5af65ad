package ledger

import "errors"

// Error taxonomy surfaced by every booking, quote and settlement operation.
// All are terminal for the request that hit them; only ErrUnavailable is
// worth retrying from the caller side.
var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("actor is not allowed to act on this booking")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrExpired       = errors.New("quote validity window has passed")
	ErrInvalidAmount = errors.New("payment amount does not match the expected amount")
	ErrConflict      = errors.New("an active payment of this type already exists")
	ErrUnavailable   = errors.New("store temporarily unavailable, retry later")
)
