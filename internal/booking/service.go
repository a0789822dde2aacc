package booking

import (
	"context"
	"fmt"
	"strings"

	"spirit-hunts/internal/kafka"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

const (
	SuccessMessage = "Booking submitted successfully! We'll contact you shortly."
	FailureMessage = "Failed to submit booking. Please try again."
)

type Service struct {
	events    store.Table[models.Event]
	bookings  store.Table[models.Booking]
	publisher kafka.Publisher
	topic     string
	logger    *logger.Logger
}

func NewService(events store.Table[models.Event], bookings store.Table[models.Booking], publisher kafka.Publisher, topic string, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{events: events, bookings: bookings, publisher: publisher, topic: topic, logger: log}
}

// LoadEvent returns the event only while it is active.
func (s *Service) LoadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.QueryOne(ctx, store.Eq("id", eventID), store.Eq("status", models.EventStatusActive))
	if err != nil {
		if !store.IsNotFound(err) {
			s.logger.Error("BOOKING", fmt.Sprintf("Error fetching event %s: %v", eventID, err))
		}
		return nil, err
	}
	return event, nil
}

// Quote is the total for a party of guests.
func Quote(price float64, guests int) float64 {
	return price * float64(guests)
}

// ValidateGuests checks that a party of guests fits the event.
func ValidateGuests(event *models.Event, guests int) error {
	if guests < 1 || guests > event.MaxAttendees {
		return utils.NewValidationError("guests", fmt.Sprintf("Number of guests must be between 1 and %d", event.MaxAttendees))
	}
	return nil
}

// Validate checks the form against the event before anything is stored.
func Validate(event *models.Event, form models.BookingRequest) error {
	switch {
	case strings.TrimSpace(form.UserName) == "":
		return utils.NewValidationError("user_name", "Full name is required")
	case strings.TrimSpace(form.UserEmail) == "":
		return utils.NewValidationError("user_email", "Email is required")
	case strings.TrimSpace(form.UserPhone) == "":
		return utils.NewValidationError("user_phone", "Phone number is required")
	}
	return ValidateGuests(event, form.Guests)
}

// Submit stores a pending booking for an active event. Status, payment
// status and total price are always set here, never taken from the caller.
func (s *Service) Submit(ctx context.Context, eventID string, form models.BookingRequest) (*models.Booking, error) {
	event, err := s.LoadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := Validate(event, form); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		EventID:         event.ID,
		UserName:        strings.TrimSpace(form.UserName),
		UserEmail:       strings.TrimSpace(form.UserEmail),
		UserPhone:       strings.TrimSpace(form.UserPhone),
		Guests:          form.Guests,
		TotalPrice:      Quote(event.Price, form.Guests),
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: form.SpecialRequests,
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		s.logger.Error("BOOKING", fmt.Sprintf("Error submitting booking for event %s: %v", eventID, err))
		return nil, err
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Booking %s created for event %s (%d guests)", booking.ID, event.ID, booking.Guests))

	booking.Event = event
	if err := s.publisher.PublishJSON(ctx, s.topic, booking.ID, booking); err != nil {
		s.logger.Warn("BOOKING", fmt.Sprintf("Follow-up event for booking %s not published: %v", booking.ID, err))
	}
	return booking, nil
}
