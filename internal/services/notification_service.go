package services

import (
	"context"
	"fmt"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/mail"
	"github.com/carwash/carwash-backend/pkg/sms"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier receives committed lifecycle events. Implementations must not fail the caller.
type Notifier interface {
	BookingCreated(ctx context.Context, userID uuid.UUID, booking *models.BookingDetail)
	BookingCancelled(ctx context.Context, userID uuid.UUID, booking *models.Booking)
	PaymentConfirmed(ctx context.Context, userID uuid.UUID, txn *models.Transaction)
}

// NotificationService sends best-effort email and SMS notices.
// A nil mailer or SMS gateway disables that channel.
type NotificationService struct {
	users  UserGetter
	mailer mail.Sender
	sms    sms.SMSGateway
	logger *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(users UserGetter, mailer mail.Sender, gateway sms.SMSGateway, logger *logrus.Logger) *NotificationService {
	return &NotificationService{users: users, mailer: mailer, sms: gateway, logger: logger}
}

// BookingCreated notifies the customer of a new booking
func (s *NotificationService) BookingCreated(ctx context.Context, userID uuid.UUID, booking *models.BookingDetail) {
	serviceName := "your service"
	if booking.Service != nil {
		serviceName = booking.Service.Name
	}
	text := fmt.Sprintf("Your booking for %s on %s at %s has been received.",
		serviceName, booking.Date.Format("2006-01-02"), booking.TimeSlot)
	s.deliver(ctx, userID, "Booking created", text, booking.ID)
}

// BookingCancelled notifies the customer of a cancellation
func (s *NotificationService) BookingCancelled(ctx context.Context, userID uuid.UUID, booking *models.Booking) {
	text := fmt.Sprintf("Your booking on %s at %s has been cancelled.",
		booking.Date.Format("2006-01-02"), booking.TimeSlot)
	s.deliver(ctx, userID, "Booking cancelled", text, booking.ID)
}

// PaymentConfirmed notifies the customer that a payment went through
func (s *NotificationService) PaymentConfirmed(ctx context.Context, userID uuid.UUID, txn *models.Transaction) {
	text := fmt.Sprintf("Payment of Rp %d received. Your booking is now being processed.", txn.Amount)
	s.deliver(ctx, userID, "Payment confirmed", text, txn.BookingID)
}

func (s *NotificationService) deliver(ctx context.Context, userID uuid.UUID, subject, text string, bookingID uuid.UUID) {
	if s.mailer == nil && s.sms == nil {
		return
	}

	log := s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"booking_id": bookingID,
		"event":      subject,
	})

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Notification skipped: user lookup failed")
		return
	}

	if s.mailer != nil {
		err := s.mailer.Send(ctx, mail.Message{
			ToName:  user.Name,
			ToEmail: user.Email,
			Subject: subject,
			Text:    text,
			HTML:    "<p>" + text + "</p>",
		})
		if err != nil {
			log.WithError(err).Warn("Failed to send email notification")
		}
	}

	if s.sms != nil && user.Phone.Valid {
		if _, err := s.sms.Send(user.Phone.String, text); err != nil {
			log.WithError(err).Warn("Failed to send SMS notification")
		}
	}
}
