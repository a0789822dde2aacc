package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spirit-hunts/internal/booking"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/store/storetest"
	"spirit-hunts/internal/utils"
)

const topic = "spirithunts.booking.created"

func validForm(guests int) models.BookingRequest {
	return models.BookingRequest{
		UserName:  "Alice Moore",
		UserEmail: "alice@example.com",
		UserPhone: "07700 900123",
		Guests:    guests,
	}
}

func TestQuoteIsPriceTimesGuests(t *testing.T) {
	assert.Equal(t, 135.0, booking.Quote(45, 3))

	event := &models.Event{Price: 37.5, MaxAttendees: 12}
	for g := 1; g <= event.MaxAttendees; g++ {
		assert.InDelta(t, event.Price*float64(g), booking.Quote(event.Price, g), 1e-9)
	}
}

func TestValidate(t *testing.T) {
	event := &models.Event{MaxAttendees: 4}

	assert.NoError(t, booking.Validate(event, validForm(1)))
	assert.NoError(t, booking.Validate(event, validForm(4)))

	cases := map[string]models.BookingRequest{
		"zero guests":  validForm(0),
		"over maximum": validForm(5),
		"missing name": {UserEmail: "a@b.c", UserPhone: "1", Guests: 1},
		"blank email":  {UserName: "A", UserEmail: "  ", UserPhone: "1", Guests: 1},
		"no phone":     {UserName: "A", UserEmail: "a@b.c", Guests: 1},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, utils.IsValidationError(booking.Validate(event, form)))
		})
	}
}

func TestSubmitStoresPendingBookingAndPublishes(t *testing.T) {
	events := storetest.NewTables(t, nil).Events
	bookings := &storetest.MockTable[models.Booking]{TableName: store.TableBookings}
	publisher := &storetest.MockPublisher{}
	svc := booking.NewService(events, bookings, publisher, topic, nil)
	event := storetest.MustInsert(t, events, storetest.Event("Ancient Ram Inn", "Gloucestershire", 7, 45))

	bookings.On("Insert", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.EventID == event.ID &&
			b.Status == models.BookingStatusPending &&
			b.PaymentStatus == models.PaymentStatusPending &&
			b.TotalPrice == 135
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Booking).ID = "b-1"
	}).Return(nil).Once()
	publisher.On("PublishJSON", mock.Anything, topic, "b-1", mock.Anything).Return(nil).Once()

	created, err := svc.Submit(context.Background(), event.ID, validForm(3))
	require.NoError(t, err)
	assert.Equal(t, "b-1", created.ID)
	assert.Equal(t, 135.0, created.TotalPrice)

	bookings.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitInvalidFormNeverInserts(t *testing.T) {
	events := storetest.NewTables(t, nil).Events
	bookings := &storetest.MockTable[models.Booking]{}
	svc := booking.NewService(events, bookings, nil, topic, nil)
	event := storetest.MustInsert(t, events, storetest.Event("Pendle Hill", "Lancashire", 7, 30))

	_, err := svc.Submit(context.Background(), event.ID, validForm(event.MaxAttendees+1))
	assert.True(t, utils.IsValidationError(err))
	bookings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitForInactiveEventIsNotFound(t *testing.T) {
	events := storetest.NewTables(t, nil).Events
	bookings := &storetest.MockTable[models.Booking]{}
	svc := booking.NewService(events, bookings, nil, topic, nil)

	e := storetest.Event("Closed", "Nowhere", 7, 30)
	e.Status = models.EventStatusCompleted
	storetest.MustInsert(t, events, e)

	_, err := svc.Submit(context.Background(), e.ID, validForm(1))
	assert.True(t, store.IsNotFound(err))
	bookings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitInsertFailureIsReturned(t *testing.T) {
	events := storetest.NewTables(t, nil).Events
	bookings := &storetest.MockTable[models.Booking]{}
	publisher := &storetest.MockPublisher{}
	svc := booking.NewService(events, bookings, publisher, topic, nil)
	event := storetest.MustInsert(t, events, storetest.Event("Jamaica Inn", "Cornwall", 7, 50))

	bookings.On("Insert", mock.Anything, mock.Anything).
		Return(&store.DataError{Op: "insert", Table: "bookings", Message: "connection refused"})

	_, err := svc.Submit(context.Background(), event.ID, validForm(2))
	assert.True(t, store.IsDataError(err))
	publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSucceedsWhenPublishFails(t *testing.T) {
	tables := storetest.NewTables(t, nil)
	publisher := &storetest.MockPublisher{}
	svc := booking.NewService(tables.Events, tables.Bookings, publisher, topic, nil)
	event := storetest.MustInsert(t, tables.Events, storetest.Event("Jamaica Inn", "Cornwall", 7, 50))

	publisher.On("PublishJSON", mock.Anything, topic, mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	created, err := svc.Submit(context.Background(), event.ID, validForm(2))
	require.NoError(t, err)

	stored, err := tables.Bookings.QueryOne(context.Background(), store.Eq("id", created.ID))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, 100.0, stored.TotalPrice)
}
