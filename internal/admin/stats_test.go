package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spirit-hunts/internal/models"
)

func TestComputeStatsRevenueCountsPaidOnly(t *testing.T) {
	bookings := []models.Booking{
		{TotalPrice: 100, PaymentStatus: models.PaymentStatusPaid},
		{TotalPrice: 50, PaymentStatus: models.PaymentStatusPending},
		{TotalPrice: 70, PaymentStatus: models.PaymentStatusRefunded},
	}

	stats := ComputeStats(nil, bookings, nil, time.Now())

	assert.Equal(t, 100.0, stats.TotalRevenue)
	assert.Equal(t, 3, stats.TotalBookings)
}

func TestComputeStatsUpcomingAndPending(t *testing.T) {
	now := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		{Status: models.EventStatusActive, Date: now.Add(24 * time.Hour)},
		{Status: models.EventStatusActive, Date: now.Add(-24 * time.Hour)},
		{Status: models.EventStatusCancelled, Date: now.Add(48 * time.Hour)},
		{Status: models.EventStatusActive, Date: now},
	}
	reviews := []models.Review{
		{Status: models.ReviewStatusPending},
		{Status: models.ReviewStatusApproved},
		{Status: models.ReviewStatusPending},
	}

	stats := ComputeStats(events, nil, reviews, now)

	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Equal(t, 2, stats.PendingReviews)
	assert.Equal(t, 0, stats.TotalBookings)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func TestRecentActivity(t *testing.T) {
	bookings := make([]models.Booking, 7)
	for i := range bookings {
		bookings[i].ID = string(rune('a' + i))
	}
	reviews := []models.Review{
		{ID: "1", Status: models.ReviewStatusApproved},
		{ID: "2", Status: models.ReviewStatusPending},
		{ID: "3", Status: models.ReviewStatusPending},
		{ID: "4", Status: models.ReviewStatusRejected},
		{ID: "5", Status: models.ReviewStatusPending},
		{ID: "6", Status: models.ReviewStatusPending},
	}

	recent := Recent(bookings, reviews)

	assert.Len(t, recent.Bookings, 5)
	assert.Equal(t, "a", recent.Bookings[0].ID)
	var ids []string
	for _, r := range recent.PendingReviews {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "3", "5"}, ids)
}
