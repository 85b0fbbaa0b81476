package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
)

// memDB is an in-memory stand-in for the bookings/transactions tables.
// It enforces the same slot and one-transaction-per-booking rules as the schema.
type memDB struct {
	mu           sync.Mutex
	bookings     map[uuid.UUID]*models.Booking
	transactions map[uuid.UUID]*models.Transaction
	history      map[uuid.UUID][]models.BookingStatusHistory
	services     map[uuid.UUID]*models.Service
	vehicles     map[uuid.UUID]*models.Vehicle
	users        map[uuid.UUID]*models.User
}

func newMemDB() *memDB {
	return &memDB{
		bookings:     map[uuid.UUID]*models.Booking{},
		transactions: map[uuid.UUID]*models.Transaction{},
		history:      map[uuid.UUID][]models.BookingStatusHistory{},
		services:     map[uuid.UUID]*models.Service{},
		vehicles:     map[uuid.UUID]*models.Vehicle{},
		users:        map[uuid.UUID]*models.User{},
	}
}

func (db *memDB) addService(price int64, lc models.Lifecycle) *models.Service {
	s := &models.Service{ID: uuid.New(), Name: "Cuci Mobil Reguler", Price: price, Duration: 30, Lifecycle: lc}
	db.services[s.ID] = s
	return s
}

func (db *memDB) addUser(phone string) *models.User {
	u := &models.User{ID: uuid.New(), Name: "Test User", Email: uuid.NewString() + "@test.com", Role: models.RoleUser, Phone: models.NewNullString(phone)}
	db.users[u.ID] = u
	return u
}

func (db *memDB) slotTaken(date time.Time, slot string, except uuid.UUID) bool {
	for _, b := range db.bookings {
		if b.ID != except && b.Date.Equal(date) && b.TimeSlot == slot && b.Status.OccupiesSlot() {
			return true
		}
	}
	return false
}

func (db *memDB) setStatus(b *models.Booking, status models.BookingStatus, note string) error {
	if status.OccupiesSlot() && db.slotTaken(b.Date, b.TimeSlot, b.ID) {
		return apperror.NewConflict("Time slot is already booked")
	}
	b.Status = status
	db.history[b.ID] = append(db.history[b.ID], models.BookingStatusHistory{
		ID: uuid.New(), BookingID: b.ID, Status: status, Notes: models.NewNullString(note), CreatedAt: time.Now(),
	})
	return nil
}

func (db *memDB) transactionFor(bookingID uuid.UUID) *models.Transaction {
	for _, t := range db.transactions {
		if t.BookingID == bookingID {
			return t
		}
	}
	return nil
}

// fakeBookings implements BookingStore, BookingOwnerGetter and VehicleBookings
type fakeBookings struct{ db *memDB }

func (f fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.slotTaken(b.Date, b.TimeSlot, uuid.Nil) {
		return apperror.NewConflict("Time slot is already booked")
	}
	b.ID = uuid.New()
	b.Status = models.BookingStatusPending
	b.CreatedAt = time.Now()
	copied := *b
	f.db.bookings[b.ID] = &copied
	f.db.history[b.ID] = append(f.db.history[b.ID], models.BookingStatusHistory{BookingID: b.ID, Status: b.Status})
	return nil
}

func (f fakeBookings) Cancel(_ context.Context, id, userID uuid.UUID, note string) (*models.Booking, *models.Transaction, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	b, ok := f.db.bookings[id]
	if !ok || b.UserID != userID {
		return nil, nil, apperror.NewNotFound("Booking not found")
	}
	switch b.Status {
	case models.BookingStatusCancelled:
		return nil, nil, apperror.NewConflict("Booking is already cancelled")
	case models.BookingStatusDone:
		return nil, nil, apperror.NewConflict("Cannot cancel completed booking")
	}
	_ = f.db.setStatus(b, models.BookingStatusCancelled, note)
	var refunded *models.Transaction
	if t := f.db.transactionFor(id); t != nil && t.Status == models.TransactionStatusPaid {
		t.Status = models.TransactionStatusRefunded
		copied := *t
		refunded = &copied
	}
	copied := *b
	return &copied, refunded, nil
}

func (f fakeBookings) OverrideStatus(_ context.Context, id uuid.UUID, status models.BookingStatus, note string) (*models.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	b, ok := f.db.bookings[id]
	if !ok {
		return nil, apperror.NewNotFound("Booking not found")
	}
	if err := f.db.setStatus(b, status, note); err != nil {
		return nil, err
	}
	copied := *b
	return &copied, nil
}

func (f fakeBookings) BookedSlots(_ context.Context, date time.Time) ([]string, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	slots := []string{}
	for _, b := range f.db.bookings {
		if b.Date.Equal(date) && b.Status.OccupiesSlot() {
			slots = append(slots, b.TimeSlot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (f fakeBookings) GetForUser(_ context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	b, ok := f.db.bookings[id]
	if !ok || b.UserID != userID {
		return nil, apperror.NewNotFound("Booking not found")
	}
	copied := *b
	return &copied, nil
}

func (f fakeBookings) GetDetail(ctx context.Context, id, userID uuid.UUID, _ database.Relations) (*models.BookingDetail, error) {
	b, err := f.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return &models.BookingDetail{
		Booking:       *b,
		Service:       f.db.services[b.ServiceID],
		Transaction:   f.db.transactionFor(id),
		StatusHistory: f.db.history[id],
	}, nil
}

func (f fakeBookings) List(_ context.Context, filter models.BookingFilter, page models.PageRequest, _ database.Relations) ([]models.BookingDetail, int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.BookingDetail
	for _, b := range f.db.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.VehicleID != nil && (!b.VehicleID.Valid || b.VehicleID.UUID != *filter.VehicleID) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, models.BookingDetail{Booking: *b})
	}
	total := len(out)
	n := page.Normalize()
	if len(out) > n.Limit {
		out = out[:n.Limit]
	}
	return out, total, nil
}

func (f fakeBookings) CountActiveByVehicle(_ context.Context, vehicleID uuid.UUID) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, b := range f.db.bookings {
		if b.VehicleID.Valid && b.VehicleID.UUID == vehicleID && b.Status.OccupiesSlot() {
			n++
		}
	}
	return n, nil
}

func (f fakeBookings) CountActiveByService(_ context.Context, serviceID uuid.UUID) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, b := range f.db.bookings {
		if b.ServiceID == serviceID && b.Status.OccupiesSlot() {
			n++
		}
	}
	return n, nil
}

// fakeTransactions implements TransactionStore
type fakeTransactions struct{ db *memDB }

func (f fakeTransactions) Create(_ context.Context, t *models.Transaction) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.transactionFor(t.BookingID) != nil {
		return apperror.NewConflict("Transaction already exists for this booking")
	}
	t.ID = uuid.New()
	t.Status = models.TransactionStatusPending
	copied := *t
	f.db.transactions[t.ID] = &copied
	return nil
}

func (f fakeTransactions) GetDetail(_ context.Context, id, userID uuid.UUID) (*models.TransactionDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.transactions[id]
	if !ok || t.UserID != userID {
		return nil, apperror.NewNotFound("Transaction not found")
	}
	return &models.TransactionDetail{Transaction: *t, Booking: f.db.bookings[t.BookingID]}, nil
}

func (f fakeTransactions) List(_ context.Context, filter models.TransactionFilter, _ models.PageRequest, _ bool) ([]models.TransactionDetail, int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.TransactionDetail
	for _, t := range f.db.transactions {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, models.TransactionDetail{Transaction: *t})
	}
	return out, len(out), nil
}

func (f fakeTransactions) Confirm(_ context.Context, id, userID uuid.UUID) (*models.Transaction, *models.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.transactions[id]
	if !ok || t.UserID != userID {
		return nil, nil, apperror.NewNotFound("Transaction not found")
	}
	if t.Status != models.TransactionStatusPending {
		return nil, nil, apperror.NewConflict("Transaction is not in pending status")
	}
	b := f.db.bookings[t.BookingID]
	if b.Status.IsTerminal() {
		return nil, nil, apperror.NewConflict("Booking is no longer payable")
	}
	t.Status = models.TransactionStatusPaid
	if b.Status != models.BookingStatusProcessing {
		_ = f.db.setStatus(b, models.BookingStatusProcessing, models.HistoryNotePaymentConfirmed)
	}
	ct, cb := *t, *b
	return &ct, &cb, nil
}

func (f fakeTransactions) SetStatus(_ context.Context, id uuid.UUID, status models.TransactionStatus) (*models.Transaction, *models.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.transactions[id]
	if !ok {
		return nil, nil, apperror.NewNotFound("Transaction not found")
	}
	b := f.db.bookings[t.BookingID]
	t.Status = status
	if target, note, ok := status.BookingEffect(); ok && b.Status != target {
		if err := f.db.setStatus(b, target, note); err != nil {
			return nil, nil, err
		}
	}
	ct, cb := *t, *b
	return &ct, &cb, nil
}

// fakeServices implements ServiceGetter
type fakeServices struct{ db *memDB }

func (f fakeServices) GetByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := f.db.services[id]
	if !ok {
		return nil, apperror.NewNotFound("Service not found")
	}
	copied := *s
	return &copied, nil
}

// fakeVehicles implements VehicleGetter
type fakeVehicles struct{ db *memDB }

func (f fakeVehicles) GetForUser(_ context.Context, id, userID uuid.UUID) (*models.Vehicle, error) {
	v, ok := f.db.vehicles[id]
	if !ok || v.UserID != userID {
		return nil, apperror.NewNotFound("Vehicle not found")
	}
	copied := *v
	return &copied, nil
}

// fakeUsers implements UserGetter
type fakeUsers struct{ db *memDB }

func (f fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.db.users[id]
	if !ok {
		return nil, apperror.NewNotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

// recordingNotifier records the events it receives
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) BookingCreated(context.Context, uuid.UUID, *models.BookingDetail) {
	n.record("created")
}

func (n *recordingNotifier) BookingCancelled(context.Context, uuid.UUID, *models.Booking) {
	n.record("cancelled")
}

func (n *recordingNotifier) PaymentConfirmed(context.Context, uuid.UUID, *models.Transaction) {
	n.record("paid")
}
