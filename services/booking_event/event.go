package booking_event

import (
	bookingModel "artist-booking/models/booking"
	"artist-booking/services/ledger"
)

// RecordTransition writes a BookingStatusEvent row for a status change of b.
// Must be called inside the same transaction as the change itself.
func RecordTransition(tx ledger.Tx, b *bookingModel.Booking, from, to bookingModel.BookingStatus, actor string) error {
	return tx.RecordStatusEvent(&bookingModel.BookingStatusEvent{
		BookingID:  b.ID,
		FromStatus: from,
		ToStatus:   to,
		CreatedBy:  actor,
	})
}
