// Package storetest provides SQLite-backed tables for tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"spirit-hunts/internal/models"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
)

// NewDB returns an empty in-memory database with the schema applied.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.CreateSchema(context.Background(), db))
	return db
}

// NewTables returns tables over a fresh database. notifier may be nil.
func NewTables(t *testing.T, notifier realtime.Notifier) *store.Tables {
	t.Helper()
	return store.NewTables(NewDB(t), notifier, nil)
}

// Event builds an active event dated days from now.
func Event(title, location string, days int, price float64) *models.Event {
	return &models.Event{
		Title:           title,
		Description:     title + " after dark",
		Location:        location,
		Date:            time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour).Truncate(time.Second),
		Time:            "20:00",
		Price:           price,
		MaxAttendees:    20,
		EventType:       models.EventTypeInvestigation,
		DifficultyLevel: models.DifficultyBeginner,
		Duration:        "6 hours",
		Status:          models.EventStatusActive,
	}
}

// MustInsert inserts record or fails the test.
func MustInsert[T any](t *testing.T, table store.Table[T], record *T) *T {
	t.Helper()
	require.NoError(t, table.Insert(context.Background(), record))
	return record
}
