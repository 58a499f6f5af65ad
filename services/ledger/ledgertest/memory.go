// Package ledgertest provides an in-memory ledger.Store used by service
// tests. It mimics transactional semantics: mutations made through a failed
// transaction function are rolled back, and reads return detached copies so
// only Save*/Create* calls persist changes.
package ledgertest

import (
	"context"
	"sync"
	"time"

	bookingModel "artist-booking/models/booking"
	notificationModel "artist-booking/models/notification"
	venueModel "artist-booking/models/venue"
	"artist-booking/services/ledger"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu sync.Mutex

	Bookings      map[uint]*bookingModel.Booking
	Quotes        map[uint]*bookingModel.Quote
	Payments      map[uint]*bookingModel.Payment
	Venues        map[uint]*venueModel.Venue
	StatusEvents  []bookingModel.BookingStatusEvent
	Notifications []notificationModel.Notification

	nextID uint
}

func NewStore() *Store {
	return &Store{
		Bookings: make(map[uint]*bookingModel.Booking),
		Quotes:   make(map[uint]*bookingModel.Quote),
		Payments: make(map[uint]*bookingModel.Payment),
		Venues:   make(map[uint]*venueModel.Venue),
	}
}

// Seed helpers assign ids when missing and store copies.

func (s *Store) AddBooking(b bookingModel.Booking) *bookingModel.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.allocID()
	}
	s.Bookings[b.ID] = &b
	return &b
}

func (s *Store) AddQuote(q bookingModel.Quote) *bookingModel.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == 0 {
		q.ID = s.allocID()
	}
	s.Quotes[q.ID] = &q
	return &q
}

func (s *Store) AddPayment(p bookingModel.Payment) *bookingModel.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.allocID()
	}
	s.Payments[p.ID] = &p
	return &p
}

func (s *Store) allocID() uint {
	s.nextID++
	return s.nextID
}

// InTx serializes transactions with a mutex and rolls back all mutations
// when fn returns an error.
func (s *Store) InTx(ctx context.Context, fn func(ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	bookings      map[uint]bookingModel.Booking
	quotes        map[uint]bookingModel.Quote
	payments      map[uint]bookingModel.Payment
	venues        map[uint]venueModel.Venue
	statusEvents  []bookingModel.BookingStatusEvent
	notifications []notificationModel.Notification
	nextID        uint
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		bookings:      make(map[uint]bookingModel.Booking, len(s.Bookings)),
		quotes:        make(map[uint]bookingModel.Quote, len(s.Quotes)),
		payments:      make(map[uint]bookingModel.Payment, len(s.Payments)),
		venues:        make(map[uint]venueModel.Venue, len(s.Venues)),
		statusEvents:  append([]bookingModel.BookingStatusEvent(nil), s.StatusEvents...),
		notifications: append([]notificationModel.Notification(nil), s.Notifications...),
		nextID:        s.nextID,
	}
	for id, b := range s.Bookings {
		snap.bookings[id] = *b
	}
	for id, q := range s.Quotes {
		snap.quotes[id] = *q
	}
	for id, p := range s.Payments {
		snap.payments[id] = *p
	}
	for id, v := range s.Venues {
		snap.venues[id] = *v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.Bookings = make(map[uint]*bookingModel.Booking, len(snap.bookings))
	for id := range snap.bookings {
		b := snap.bookings[id]
		s.Bookings[id] = &b
	}
	s.Quotes = make(map[uint]*bookingModel.Quote, len(snap.quotes))
	for id := range snap.quotes {
		q := snap.quotes[id]
		s.Quotes[id] = &q
	}
	s.Payments = make(map[uint]*bookingModel.Payment, len(snap.payments))
	for id := range snap.payments {
		p := snap.payments[id]
		s.Payments[id] = &p
	}
	s.Venues = make(map[uint]*venueModel.Venue, len(snap.venues))
	for id := range snap.venues {
		v := snap.venues[id]
		s.Venues[id] = &v
	}
	s.StatusEvents = snap.statusEvents
	s.Notifications = snap.notifications
	s.nextID = snap.nextID
}

type memTx struct {
	store *Store
}

func (t *memTx) BookingByID(id uint) (*bookingModel.Booking, error) {
	b, ok := t.store.Bookings[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) QuoteByID(id uint) (*bookingModel.Quote, error) {
	q, ok := t.store.Quotes[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (t *memTx) AcceptedQuote(bookingID uint) (*bookingModel.Quote, error) {
	var latest *bookingModel.Quote
	for _, q := range t.store.Quotes {
		if q.BookingID != bookingID || q.Status != bookingModel.QuoteStatusAccepted {
			continue
		}
		if latest == nil || (q.RespondedAt != nil && latest.RespondedAt != nil && q.RespondedAt.After(*latest.RespondedAt)) {
			latest = q
		}
	}
	if latest == nil {
		return nil, ledger.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (t *memTx) RejectPendingQuotes(bookingID, keepQuoteID uint, respondedAt time.Time) error {
	for _, q := range t.store.Quotes {
		if q.BookingID == bookingID && q.ID != keepQuoteID && q.Status == bookingModel.QuoteStatusPending {
			q.Status = bookingModel.QuoteStatusRejected
			at := respondedAt
			q.RespondedAt = &at
		}
	}
	return nil
}

func (t *memTx) HasActivePayment(bookingID uint, types ...bookingModel.PaymentType) (bool, error) {
	for _, p := range t.store.Payments {
		if p.BookingID != bookingID || !p.Status.IsActive() {
			continue
		}
		for _, pt := range types {
			if p.Type == pt {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *memTx) VerifiedTotal(bookingID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range t.store.Payments {
		if p.BookingID == bookingID && p.Status == bookingModel.PaymentStatusVerified {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (t *memTx) PaymentByID(id uint) (*bookingModel.Payment, error) {
	p, ok := t.store.Payments[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) CreateBooking(b *bookingModel.Booking) error {
	if b.ID == 0 {
		b.ID = t.store.allocID()
	}
	cp := *b
	t.store.Bookings[b.ID] = &cp
	return nil
}

func (t *memTx) CreateQuote(q *bookingModel.Quote) error {
	if q.ID == 0 {
		q.ID = t.store.allocID()
	}
	cp := *q
	t.store.Quotes[q.ID] = &cp
	return nil
}

func (t *memTx) CreatePayment(p *bookingModel.Payment) error {
	if p.ID == 0 {
		p.ID = t.store.allocID()
	}
	cp := *p
	t.store.Payments[p.ID] = &cp
	return nil
}

func (t *memTx) CreateVenue(v *venueModel.Venue) error {
	if v.ID == 0 {
		v.ID = t.store.allocID()
	}
	cp := *v
	t.store.Venues[v.ID] = &cp
	return nil
}

func (t *memTx) SaveBooking(b *bookingModel.Booking) error {
	cp := *b
	t.store.Bookings[b.ID] = &cp
	return nil
}

func (t *memTx) SaveQuote(q *bookingModel.Quote) error {
	cp := *q
	t.store.Quotes[q.ID] = &cp
	return nil
}

func (t *memTx) SavePayment(p *bookingModel.Payment) error {
	cp := *p
	t.store.Payments[p.ID] = &cp
	return nil
}

func (t *memTx) RecordStatusEvent(e *bookingModel.BookingStatusEvent) error {
	t.store.StatusEvents = append(t.store.StatusEvents, *e)
	return nil
}

func (t *memTx) Enqueue(n *notificationModel.Notification) error {
	t.store.Notifications = append(t.store.Notifications, *n)
	return nil
}
