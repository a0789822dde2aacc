package catalogue

import (
	"context"
	"fmt"
	"sync"

	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
)

// LatestReviewsLimit is how many approved reviews an event page shows.
const LatestReviewsLimit = 5

// Listing is one filtered view of the catalogue.
type Listing struct {
	Events    []models.Event `json:"events"`
	Locations []string       `json:"locations"`
	Total     int            `json:"total"`
	Filters   Filters        `json:"filters"`
}

// Service holds the fetched active events in memory and derives filtered
// views from them without going back to the store.
type Service struct {
	events  store.Table[models.Event]
	reviews store.Table[models.Review]
	logger  *logger.Logger

	mu     sync.RWMutex
	cached []models.Event
	loaded bool
}

func NewService(events store.Table[models.Event], reviews store.Table[models.Review], log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{events: events, reviews: reviews, logger: log}
}

// Load fetches every active event ordered by date and replaces the cache.
// On failure the cache is left as it was.
func (s *Service) Load(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.Query(ctx, store.Query{
		Filters: []store.Filter{store.Eq("status", models.EventStatusActive)},
		Order:   []store.Order{store.Asc("date")},
	})
	if err != nil {
		s.logger.Error("CATALOGUE", fmt.Sprintf("Error fetching events: %v", err))
		return nil, err
	}

	s.mu.Lock()
	s.cached = events
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("CATALOGUE", fmt.Sprintf("Cached %d active events", len(events)))
	return events, nil
}

// Events returns the cached list, loading it on first use.
func (s *Service) Events(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	events, loaded := s.cached, s.loaded
	s.mu.RUnlock()
	if loaded {
		return events, nil
	}
	return s.Load(ctx)
}

func (s *Service) Browse(ctx context.Context, f Filters) (*Listing, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	visible := Apply(events, f)
	return &Listing{
		Events:    visible,
		Locations: Locations(events),
		Total:     len(events),
		Filters:   f,
	}, nil
}

// Watch reloads the cache whenever the events table changes.
func (s *Service) Watch(feed realtime.Subscriber) (unsubscribe func()) {
	return feed.Subscribe(store.TableEvents, func(change realtime.Change) {
		s.logger.Debug("CATALOGUE", fmt.Sprintf("Events changed (%s), reloading", change.Op))
		if _, err := s.Load(context.Background()); err != nil {
			s.logger.Warn("CATALOGUE", fmt.Sprintf("Reload after change failed, keeping cached events: %v", err))
		}
	})
}

// EventDetails loads an active event with its latest approved reviews.
func (s *Service) EventDetails(ctx context.Context, eventID string) (*models.EventDetails, error) {
	event, err := s.events.QueryOne(ctx, store.Eq("id", eventID), store.Eq("status", models.EventStatusActive))
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.Query(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("event_id", eventID),
			store.Eq("status", models.ReviewStatusApproved),
		},
		Order: []store.Order{store.Desc("created_at")},
		Limit: LatestReviewsLimit,
	})
	if err != nil {
		return nil, err
	}

	return &models.EventDetails{
		Event:         *event,
		Reviews:       reviews,
		AverageRating: AverageRating(reviews),
	}, nil
}

// AverageRating is the mean rating, or 0 when there are no reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
