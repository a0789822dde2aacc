package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Subject is the fixed set of topics offered by the contact form.
type Subject string

const (
	SubjectBooking Subject = "booking"
	SubjectPrivate Subject = "private"
	SubjectGeneral Subject = "general"
	SubjectMedia   Subject = "media"
	SubjectOther   Subject = "other"
)

func (s Subject) Valid() bool {
	switch s {
	case SubjectBooking, SubjectPrivate, SubjectGeneral, SubjectMedia, SubjectOther:
		return true
	}
	return false
}

type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID        string        `bun:"id,pk" json:"id"`
	Name      string        `bun:"name,notnull" json:"name"`
	Email     string        `bun:"email,notnull" json:"email"`
	Phone     string        `bun:"phone,nullzero" json:"phone,omitempty"`
	Subject   Subject       `bun:"subject,notnull" json:"subject"`
	Message   string        `bun:"message,notnull" json:"message"`
	Status    MessageStatus `bun:"status,notnull" json:"status"`
	CreatedAt time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// ContactRequest is the contact form as submitted.
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Subject Subject `json:"subject"`
	Message string  `json:"message"`
}
