package models

import (
	"time"

	"github.com/uptrace/bun"
)

type EventType string

const (
	EventTypeHorror        EventType = "horror"
	EventTypePsychic       EventType = "psychic"
	EventTypeInvestigation EventType = "investigation"
	EventTypeSeance        EventType = "séance"
	EventTypeOvernight     EventType = "overnight"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Event is a bookable ghost hunt. Price is per guest.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID              string      `bun:"id,pk" json:"id"`
	Title           string      `bun:"title,notnull" json:"title"`
	Description     string      `bun:"description" json:"description"`
	Location        string      `bun:"location,notnull" json:"location"`
	Date            time.Time   `bun:"date,notnull" json:"date"`
	Time            string      `bun:"time" json:"time"`
	Price           float64     `bun:"price,notnull" json:"price"`
	MaxAttendees    int         `bun:"max_attendees,notnull" json:"max_attendees"`
	ImageURL        string      `bun:"image_url" json:"image_url"`
	EventType       EventType   `bun:"event_type,notnull" json:"event_type"`
	DifficultyLevel Difficulty  `bun:"difficulty_level,notnull" json:"difficulty_level"`
	Duration        string      `bun:"duration" json:"duration"`
	Status          EventStatus `bun:"status,notnull" json:"status"`
	CreatedAt       time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// EventTypes lists the catalogue's event type filter options in display order.
func EventTypes() []EventType {
	return []EventType{EventTypeHorror, EventTypePsychic, EventTypeInvestigation, EventTypeSeance, EventTypeOvernight}
}

// DifficultyLevels lists the difficulty filter options in display order.
func DifficultyLevels() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}
