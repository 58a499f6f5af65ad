package booking

// BookingStatus is the lifecycle state of a booking. Transitions only move
// forward along the graph below; CANCELLED is reachable from any
// non-terminal state.
//
//	INQUIRY -> QUOTED -> CONFIRMED -> PAID -> COMPLETED
type BookingStatus string

const (
	BookingStatusInquiry   BookingStatus = "INQUIRY"
	BookingStatusQuoted    BookingStatus = "QUOTED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Helper methods for BookingStatus
func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusInquiry, BookingStatusQuoted, BookingStatusConfirmed,
		BookingStatusPaid, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition may leave this state
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusCompleted || bs == BookingStatusCancelled
}

// CanTransitionTo is the single transition authority consulted before any
// component writes Booking.Status.
func (bs BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if bs.IsTerminal() {
		return false
	}
	if next == BookingStatusCancelled {
		return true
	}
	switch bs {
	case BookingStatusInquiry:
		return next == BookingStatusQuoted
	case BookingStatusQuoted:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusPaid
	case BookingStatusPaid:
		return next == BookingStatusCompleted
	default:
		return false
	}
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusInquiry,
		BookingStatusQuoted,
		BookingStatusConfirmed,
		BookingStatusPaid,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}
