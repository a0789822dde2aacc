package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	_ bun.BeforeAppendModelHook = (*Event)(nil)
	_ bun.BeforeAppendModelHook = (*Booking)(nil)
	_ bun.BeforeAppendModelHook = (*Review)(nil)
	_ bun.BeforeAppendModelHook = (*Message)(nil)
)

// stamp fills a missing id and creation time before an insert.
func stamp(query bun.Query, id *string, createdAt *time.Time) {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

func (e *Event) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stamp(query, &e.ID, &e.CreatedAt)
	switch query.(type) {
	case *bun.InsertQuery:
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}
	case *bun.UpdateQuery:
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stamp(query, &b.ID, &b.CreatedAt)
	return nil
}

func (r *Review) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stamp(query, &r.ID, &r.CreatedAt)
	return nil
}

func (m *Message) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stamp(query, &m.ID, &m.CreatedAt)
	return nil
}

func (e *Event) RecordID() string   { return e.ID }
func (b *Booking) RecordID() string { return b.ID }
func (r *Review) RecordID() string  { return r.ID }
func (m *Message) RecordID() string { return m.ID }
