package admin

import (
	"time"

	"spirit-hunts/internal/models"
)

const (
	recentBookingsLimit = 5
	recentReviewsLimit  = 3
)

// RecentActivity is the dashboard's latest bookings and reviews awaiting moderation.
type RecentActivity struct {
	Bookings       []models.Booking `json:"bookings"`
	PendingReviews []models.Review  `json:"pending_reviews"`
}

// ComputeStats derives the summary counters in one pass over each list.
// Revenue counts paid bookings only; upcoming events are active ones dated
// after now.
func ComputeStats(events []models.Event, bookings []models.Booking, reviews []models.Review, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{TotalBookings: len(bookings)}

	for _, b := range bookings {
		if b.PaymentStatus == models.PaymentStatusPaid {
			stats.TotalRevenue += b.TotalPrice
		}
	}
	for _, e := range events {
		if e.Status == models.EventStatusActive && e.Date.After(now) {
			stats.UpcomingEvents++
		}
	}
	for _, r := range reviews {
		if r.Status == models.ReviewStatusPending {
			stats.PendingReviews++
		}
	}
	return stats
}

// Recent picks the recent-activity panel from lists ordered newest first.
func Recent(bookings []models.Booking, reviews []models.Review) RecentActivity {
	recent := RecentActivity{
		Bookings:       make([]models.Booking, 0, recentBookingsLimit),
		PendingReviews: make([]models.Review, 0, recentReviewsLimit),
	}
	for _, b := range bookings {
		if len(recent.Bookings) == recentBookingsLimit {
			break
		}
		recent.Bookings = append(recent.Bookings, b)
	}
	for _, r := range reviews {
		if len(recent.PendingReviews) == recentReviewsLimit {
			break
		}
		if r.Status == models.ReviewStatusPending {
			recent.PendingReviews = append(recent.PendingReviews, r)
		}
	}
	return recent
}
