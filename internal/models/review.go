package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID        string       `bun:"id,pk" json:"id"`
	EventID   string       `bun:"event_id,notnull" json:"event_id"`
	UserName  string       `bun:"user_name,notnull" json:"user_name"`
	UserEmail string       `bun:"user_email,notnull" json:"user_email"`
	Rating    int          `bun:"rating,notnull" json:"rating"`
	Comment   string       `bun:"comment" json:"comment"`
	Status    ReviewStatus `bun:"status,notnull" json:"status"`
	CreatedAt time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
}

type ReviewRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
