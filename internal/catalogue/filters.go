package catalogue

import (
	"sort"
	"strings"

	"spirit-hunts/internal/models"
)

const (
	SortByDate  = "date"
	SortByPrice = "price"
)

// Filters are the catalogue controls. Zero values mean "any".
type Filters struct {
	Search     string            `json:"search,omitempty"`
	Location   string            `json:"location,omitempty"`
	EventType  models.EventType  `json:"event_type,omitempty"`
	Difficulty models.Difficulty `json:"difficulty,omitempty"`
	SortBy     string            `json:"sort_by,omitempty"`
}

func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Apply derives the visible list from the fetched one. It never mutates
// events, and with zero filters returns them in their original order.
func Apply(events []models.Event, f Filters) []models.Event {
	search := strings.ToLower(f.Search)
	location := strings.ToLower(f.Location)

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Location), search) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(e.Location), location) {
			continue
		}
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		if f.Difficulty != "" && e.DifficultyLevel != f.Difficulty {
			continue
		}
		out = append(out, e)
	}

	switch f.SortBy {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	}
	return out
}

// Locations lists distinct event locations in first-seen order.
func Locations(events []models.Event) []string {
	seen := make(map[string]bool, len(events))
	locations := make([]string, 0, len(events))
	for _, e := range events {
		if e.Location == "" || seen[e.Location] {
			continue
		}
		seen[e.Location] = true
		locations = append(locations, e.Location)
	}
	return locations
}
