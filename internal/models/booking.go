package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID              string        `bun:"id,pk" json:"id"`
	EventID         string        `bun:"event_id,notnull" json:"event_id"`
	UserName        string        `bun:"user_name,notnull" json:"user_name"`
	UserEmail       string        `bun:"user_email,notnull" json:"user_email"`
	UserPhone       string        `bun:"user_phone,notnull" json:"user_phone"`
	Guests          int           `bun:"guests,notnull" json:"guests"`
	TotalPrice      float64       `bun:"total_price,notnull" json:"total_price"`
	Status          BookingStatus `bun:"status,notnull" json:"status"`
	PaymentStatus   PaymentStatus `bun:"payment_status,notnull" json:"payment_status"`
	SpecialRequests string        `bun:"special_requests,nullzero" json:"special_requests,omitempty"`
	CreatedAt       time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	// Populated only when the query asks for the "Event" relation.
	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
}

// BookingRequest is the public booking form.
type BookingRequest struct {
	UserName        string `json:"user_name"`
	UserEmail       string `json:"user_email"`
	UserPhone       string `json:"user_phone"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests,omitempty"`
}
