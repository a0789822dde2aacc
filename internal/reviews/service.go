package reviews

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
	SuccessMessage = "Review submitted successfully! It will be published after approval."
	FailureMessage = "Failed to submit review. Please try again."
	RatingRequired = "Please provide a rating"
)

type Service struct {
	events    store.Table[models.Event]
	reviews   store.Table[models.Review]
	publisher kafka.Publisher
	topic     string
	logger    *logger.Logger
}

func NewService(events store.Table[models.Event], reviews store.Table[models.Review], publisher kafka.Publisher, topic string, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{events: events, reviews: reviews, publisher: publisher, topic: topic, logger: log}
}

// LoadEvent returns the event whatever its status; past events can be reviewed.
func (s *Service) LoadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.QueryOne(ctx, store.Eq("id", eventID))
	if err != nil {
		if !store.IsNotFound(err) {
			s.logger.Error("REVIEWS", fmt.Sprintf("Error fetching event %s: %v", eventID, err))
		}
		return nil, err
	}
	return event, nil
}

func Validate(form models.ReviewRequest) error {
	switch {
	case form.Rating < models.MinRating || form.Rating > models.MaxRating:
		return utils.NewValidationError("rating", RatingRequired)
	case strings.TrimSpace(form.UserName) == "":
		return utils.NewValidationError("user_name", "Your name is required")
	case strings.TrimSpace(form.UserEmail) == "":
		return utils.NewValidationError("user_email", "Email is required")
	}
	return nil
}

// Submit stores the review as pending moderation. The form is validated
// before any store call; an unknown event yields a NotFoundError.
func (s *Service) Submit(ctx context.Context, eventID string, form models.ReviewRequest) (*models.Review, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}
	event, err := s.LoadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		EventID:   event.ID,
		UserName:  strings.TrimSpace(form.UserName),
		UserEmail: strings.TrimSpace(form.UserEmail),
		Rating:    form.Rating,
		Comment:   form.Comment,
		Status:    models.ReviewStatusPending,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		s.logger.Error("REVIEWS", fmt.Sprintf("Error submitting review for event %s: %v", eventID, err))
		return nil, err
	}
	s.logger.Info("REVIEWS", fmt.Sprintf("Review %s (%d stars) awaiting approval for event %s", review.ID, review.Rating, eventID))

	if err := s.publisher.PublishJSON(ctx, s.topic, review.ID, review); err != nil {
		s.logger.Warn("REVIEWS", fmt.Sprintf("Moderation event for review %s not published: %v", review.ID, err))
	}
	return review, nil
}
