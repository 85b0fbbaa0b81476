package database

import (
	"context"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Relations selects which related records are attached to bookings
type Relations uint8

const (
	WithService Relations = 1 << iota
	WithVehicle
	WithUser
	WithTransaction
	WithReview
	WithHistory
)

// WithAll attaches every relation, including the status history
const WithAll = WithService | WithVehicle | WithUser | WithTransaction | WithReview | WithHistory

func (r Relations) has(flag Relations) bool {
	return r&flag != 0
}

const (
	bookingColumns     = `id, user_id, service_id, vehicle_id, booking_date, time_slot, location, notes, status, created_at, updated_at`
	serviceColumns     = `id, name, description, price, duration, is_active, created_at, updated_at`
	vehicleColumns     = `id, user_id, brand, model, year, color, plate_number, vehicle_type, is_active, created_at, updated_at`
	transactionColumns = `id, booking_id, user_id, amount, method, status, created_at, updated_at`
	reviewColumns      = `id, user_id, booking_id, rating, comment, created_at, updated_at`
	historyColumns     = `id, booking_id, status, notes, created_at`
	userSummaryColumns = `id, name, email, phone`
)

// relationLoader batch-loads the records related to a page of bookings,
// one IN query per relation
type relationLoader struct {
	db *sqlx.DB
}

// selectIn runs query with its single IN (?) placeholder expanded to ids
func (l relationLoader) selectIn(ctx context.Context, dest interface{}, query string, ids []uuid.UUID) error {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return l.db.SelectContext(ctx, dest, l.db.Rebind(query), args...)
}

// attach fills the requested relations of details in place
func (l relationLoader) attach(ctx context.Context, details []models.BookingDetail, rel Relations) error {
	if len(details) == 0 || rel == 0 {
		return nil
	}

	bookingIDs := make([]uuid.UUID, 0, len(details))
	serviceIDs := make([]uuid.UUID, 0, len(details))
	userIDs := make([]uuid.UUID, 0, len(details))
	var vehicleIDs []uuid.UUID
	for _, d := range details {
		bookingIDs = append(bookingIDs, d.ID)
		serviceIDs = append(serviceIDs, d.ServiceID)
		userIDs = append(userIDs, d.UserID)
		if d.VehicleID.Valid {
			vehicleIDs = append(vehicleIDs, d.VehicleID.UUID)
		}
	}

	if rel.has(WithService) {
		var services []models.Service
		if err := l.selectIn(ctx, &services, `SELECT `+serviceColumns+` FROM services WHERE id IN (?)`, unique(serviceIDs)); err != nil {
			return classify(err, "load booking services", "")
		}
		byID := make(map[uuid.UUID]*models.Service, len(services))
		for i := range services {
			byID[services[i].ID] = &services[i]
		}
		for i := range details {
			details[i].Service = byID[details[i].ServiceID]
		}
	}

	if rel.has(WithVehicle) && len(vehicleIDs) > 0 {
		var vehicles []models.Vehicle
		if err := l.selectIn(ctx, &vehicles, `SELECT `+vehicleColumns+` FROM vehicles WHERE id IN (?)`, unique(vehicleIDs)); err != nil {
			return classify(err, "load booking vehicles", "")
		}
		byID := make(map[uuid.UUID]*models.Vehicle, len(vehicles))
		for i := range vehicles {
			byID[vehicles[i].ID] = &vehicles[i]
		}
		for i := range details {
			if details[i].VehicleID.Valid {
				details[i].Vehicle = byID[details[i].VehicleID.UUID]
			}
		}
	}

	if rel.has(WithUser) {
		users, err := l.userSummaries(ctx, userIDs)
		if err != nil {
			return err
		}
		for i := range details {
			details[i].User = users[details[i].UserID]
		}
	}

	if rel.has(WithTransaction) {
		var txs []models.Transaction
		if err := l.selectIn(ctx, &txs, `SELECT `+transactionColumns+` FROM transactions WHERE booking_id IN (?)`, bookingIDs); err != nil {
			return classify(err, "load booking transactions", "")
		}
		byBooking := make(map[uuid.UUID]*models.Transaction, len(txs))
		for i := range txs {
			byBooking[txs[i].BookingID] = &txs[i]
		}
		for i := range details {
			details[i].Transaction = byBooking[details[i].ID]
		}
	}

	if rel.has(WithReview) {
		var reviews []models.Review
		if err := l.selectIn(ctx, &reviews, `SELECT `+reviewColumns+` FROM reviews WHERE booking_id IN (?)`, bookingIDs); err != nil {
			return classify(err, "load booking reviews", "")
		}
		byBooking := make(map[uuid.UUID]*models.Review, len(reviews))
		for i := range reviews {
			byBooking[reviews[i].BookingID] = &reviews[i]
		}
		for i := range details {
			details[i].Review = byBooking[details[i].ID]
		}
	}

	if rel.has(WithHistory) {
		var history []models.BookingStatusHistory
		query := `SELECT ` + historyColumns + ` FROM booking_status_history WHERE booking_id IN (?) ORDER BY created_at DESC, id DESC`
		if err := l.selectIn(ctx, &history, query, bookingIDs); err != nil {
			return classify(err, "load booking history", "")
		}
		byBooking := make(map[uuid.UUID][]models.BookingStatusHistory, len(details))
		for _, h := range history {
			byBooking[h.BookingID] = append(byBooking[h.BookingID], h)
		}
		for i := range details {
			details[i].StatusHistory = byBooking[details[i].ID]
		}
	}

	return nil
}

// userSummaries loads the public user fields keyed by id
func (l relationLoader) userSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	byID := make(map[uuid.UUID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var users []models.UserSummary
	if err := l.selectIn(ctx, &users, `SELECT `+userSummaryColumns+` FROM users WHERE id IN (?)`, unique(ids)); err != nil {
		return nil, classify(err, "load users", "")
	}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toDetails(bookings []models.Booking) []models.BookingDetail {
	details := make([]models.BookingDetail, len(bookings))
	for i, b := range bookings {
		details[i] = models.BookingDetail{Booking: b}
	}
	return details
}
