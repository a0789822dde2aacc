package models

// DashboardStats are the admin summary counters.
type DashboardStats struct {
	TotalBookings  int     `json:"total_bookings"`
	TotalRevenue   float64 `json:"total_revenue"`
	UpcomingEvents int     `json:"upcoming_events"`
	PendingReviews int     `json:"pending_reviews"`
}

// EventDetails is an event page: the event plus its latest approved reviews.
type EventDetails struct {
	Event         Event    `json:"event"`
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
}
