package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"spirit-hunts/internal/models"
)

// FollowUp is the manual task raised for every new booking: payment is
// arranged by phone or email, never online.
type FollowUp struct {
	BookingID  string
	Contact    string
	EventTitle string
	EventDate  string
	Guests     int
	TotalPrice float64
	Notes      string
}

// ParseFollowUp decodes a booking-created payload into a follow-up task.
func ParseFollowUp(payload []byte) (*FollowUp, error) {
	var b models.Booking
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	if b.ID == "" {
		return nil, errors.New("booking payload has no id")
	}

	task := &FollowUp{
		BookingID:  b.ID,
		Contact:    fmt.Sprintf("%s <%s> %s", b.UserName, b.UserEmail, b.UserPhone),
		EventTitle: b.EventID,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Notes:      strings.TrimSpace(b.SpecialRequests),
	}
	if b.Event != nil {
		task.EventTitle = b.Event.Title
		task.EventDate = b.Event.Date.Format("Mon 2 Jan 2006") + " " + b.Event.Time
	}
	return task, nil
}

func (f FollowUp) String() string {
	event := f.EventTitle
	if f.EventDate != "" {
		event += fmt.Sprintf(" (%s)", f.EventDate)
	}
	s := fmt.Sprintf("Booking %s: contact %s about %s, %d guests, £%.2f due",
		f.BookingID, f.Contact, event, f.Guests, f.TotalPrice)
	if f.Notes != "" {
		s += fmt.Sprintf("; notes: %s", f.Notes)
	}
	return s
}
