package admin_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spirit-hunts/internal/admin"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/store/storetest"
)

type countingTable[T any] struct {
	store.Table[T]
	queries atomic.Int32
}

func (c *countingTable[T]) Query(ctx context.Context, q store.Query) ([]T, error) {
	c.queries.Add(1)
	return c.Table.Query(ctx, q)
}

func yes(string) bool { return true }
func no(string) bool  { return false }

type fixture struct {
	tables  *store.Tables
	broker  *realtime.Broker
	event   *models.Event
	booking *models.Booking
	review  *models.Review
	message *models.Message
}

func newFixture(t *testing.T) *fixture {
	broker := realtime.NewBroker(nil)
	tables := storetest.NewTables(t, broker)

	event := storetest.MustInsert(t, tables.Events, storetest.Event("Ancient Ram Inn", "Gloucestershire", 7, 50))
	booking := storetest.MustInsert(t, tables.Bookings, &models.Booking{
		EventID: event.ID, UserName: "Alice", UserEmail: "alice@example.com", UserPhone: "1",
		Guests: 2, TotalPrice: 100, Status: models.BookingStatusConfirmed, PaymentStatus: models.PaymentStatusPaid,
	})
	storetest.MustInsert(t, tables.Bookings, &models.Booking{
		EventID: event.ID, UserName: "Bob", UserEmail: "bob@example.com", UserPhone: "2",
		Guests: 1, TotalPrice: 50, Status: models.BookingStatusPending, PaymentStatus: models.PaymentStatusPending,
	})
	review := storetest.MustInsert(t, tables.Reviews, &models.Review{
		EventID: event.ID, UserName: "Carol", UserEmail: "carol@example.com", Rating: 5, Status: models.ReviewStatusPending,
	})
	message := storetest.MustInsert(t, tables.Messages, &models.Message{
		Name: "Dan", Email: "dan@example.com", Subject: models.SubjectGeneral, Message: "Hi", Status: models.MessageStatusUnread,
	})

	return &fixture{tables: tables, broker: broker, event: event, booking: booking, review: review, message: message}
}

func TestLoadComputesStatsAfterFetch(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)

	_, loaded := d.Snapshot()
	assert.False(t, loaded)

	snap, err := d.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Events, 1)
	assert.Len(t, snap.Bookings, 2)
	require.NotNil(t, snap.Bookings[0].Event)
	assert.Equal(t, "Ancient Ram Inn", snap.Bookings[0].Event.Title)
	assert.Equal(t, models.DashboardStats{
		TotalBookings:  2,
		TotalRevenue:   100,
		UpcomingEvents: 1,
		PendingReviews: 1,
	}, snap.Stats)
	assert.Len(t, snap.Recent.PendingReviews, 1)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	f := newFixture(t)
	realMessages := f.tables.Messages
	d := admin.NewDashboard(f.tables, f.broker, nil)

	before, err := d.Load(context.Background())
	require.NoError(t, err)

	var updates atomic.Int32
	d.OnUpdate(func(admin.Snapshot) { updates.Add(1) })

	failing := &storetest.MockTable[models.Message]{TableName: store.TableMessages}
	failing.On("Query", mock.Anything, mock.Anything).
		Return(nil, &store.DataError{Op: "query", Table: "messages", Message: "permission denied"})
	f.tables.Messages = failing

	// New rows in the other tables must not leak into stats.
	storetest.MustInsert(t, f.tables.Bookings, &models.Booking{
		EventID: f.event.ID, UserName: "Eve", UserEmail: "e@example.com", UserPhone: "3",
		Guests: 1, TotalPrice: 999, Status: models.BookingStatusConfirmed, PaymentStatus: models.PaymentStatusPaid,
	})

	_, err = d.Load(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsDataError(err))

	after, loaded := d.Snapshot()
	assert.True(t, loaded)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Len(t, after.Bookings, 2)
	assert.Equal(t, int32(0), updates.Load())

	f.tables.Messages = realMessages
}

func TestFirstLoadFailureComputesNoStats(t *testing.T) {
	f := newFixture(t)
	failing := &storetest.MockTable[models.Review]{TableName: store.TableReviews}
	failing.On("Query", mock.Anything, mock.Anything).
		Return(nil, &store.DataError{Op: "query", Table: "reviews", Message: "timeout"})
	f.tables.Reviews = failing
	d := admin.NewDashboard(f.tables, f.broker, nil)

	_, err := d.Load(context.Background())
	require.Error(t, err)

	snap, loaded := d.Snapshot()
	assert.False(t, loaded)
	assert.Equal(t, models.DashboardStats{}, snap.Stats)
	assert.Nil(t, snap.Bookings)
}

func TestDeleteEventRefetchesEventsOnce(t *testing.T) {
	broker := realtime.NewBroker(nil)
	tables := storetest.NewTables(t, broker)
	event := storetest.MustInsert(t, tables.Events, storetest.Event("Lonely Chapel", "Kent", 3, 20))

	events := &countingTable[models.Event]{Table: tables.Events}
	tables.Events = events
	d := admin.NewDashboard(tables, broker, nil)
	require.NoError(t, d.Open(context.Background()))
	defer d.Close()

	events.queries.Store(0)
	require.NoError(t, d.DeleteEvent(context.Background(), event.ID, yes))

	// Give any stray subscription callbacks time to run.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), events.queries.Load())

	snap, _ := d.Snapshot()
	assert.Empty(t, snap.Events)
	assert.Equal(t, 0, snap.Stats.UpcomingEvents)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	events := &storetest.MockTable[models.Event]{TableName: store.TableEvents}
	reviews := &storetest.MockTable[models.Review]{TableName: store.TableReviews}
	f.tables.Events = events
	f.tables.Reviews = reviews
	d := admin.NewDashboard(f.tables, f.broker, nil)

	var prompts []string
	record := func(p string) bool { prompts = append(prompts, p); return false }

	err := d.DeleteEvent(context.Background(), f.event.ID, record)
	assert.True(t, admin.IsConfirmationRequired(err))
	err = d.DeleteReview(context.Background(), f.review.ID, nil)
	assert.True(t, admin.IsConfirmationRequired(err))
	err = d.DeleteReview(context.Background(), f.review.ID, no)
	assert.True(t, admin.IsConfirmationRequired(err))

	assert.Equal(t, []string{admin.DeleteEventPrompt}, prompts)
	events.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewModeration(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)
	ctx := context.Background()
	_, err := d.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, d.ApproveReview(ctx, f.review.ID))
	snap, _ := d.Snapshot()
	require.Len(t, snap.Reviews, 1)
	assert.Equal(t, models.ReviewStatusApproved, snap.Reviews[0].Status)
	assert.Equal(t, 0, snap.Stats.PendingReviews)

	require.NoError(t, d.RejectReview(ctx, f.review.ID))
	snap, _ = d.Snapshot()
	assert.Equal(t, models.ReviewStatusRejected, snap.Reviews[0].Status)

	require.NoError(t, d.DeleteReview(ctx, f.review.ID, yes))
	snap, _ = d.Snapshot()
	assert.Empty(t, snap.Reviews)
}

func TestMarkMessageRead(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)
	ctx := context.Background()
	_, err := d.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, d.MarkMessageRead(ctx, f.message.ID))
	snap, _ := d.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, models.MessageStatusRead, snap.Messages[0].Status)
}

func TestActionFailureLeavesSnapshot(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)
	ctx := context.Background()
	before, err := d.Load(ctx)
	require.NoError(t, err)

	messages := &storetest.MockTable[models.Message]{TableName: store.TableMessages}
	messages.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(&store.DataError{Op: "update", Table: "messages", Message: "denied"})
	f.tables.Messages = messages

	err = d.MarkMessageRead(ctx, f.message.ID)
	assert.True(t, store.IsDataError(err))
	assert.False(t, admin.IsRefreshError(err))

	after, _ := d.Snapshot()
	assert.Equal(t, before.Messages, after.Messages)
}

func TestRefreshFailureAfterActionIsReported(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)
	ctx := context.Background()
	_, err := d.Load(ctx)
	require.NoError(t, err)

	messages := &storetest.MockTable[models.Message]{TableName: store.TableMessages}
	messages.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	messages.On("Query", mock.Anything, mock.Anything).
		Return(nil, &store.DataError{Op: "query", Table: "messages", Message: "timeout"})
	f.tables.Messages = messages

	err = d.MarkMessageRead(ctx, f.message.ID)
	assert.True(t, admin.IsRefreshError(err))
}

func TestOpenSubscribesAndRefetchesOnChange(t *testing.T) {
	f := newFixture(t)
	d := admin.NewDashboard(f.tables, f.broker, nil)

	var mu sync.Mutex
	var seen []admin.Snapshot
	d.OnUpdate(func(s admin.Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	require.NoError(t, d.Open(context.Background()))
	assert.Equal(t, 3, d.Subscribed())
	assert.Equal(t, 1, f.broker.SubscriberCount(store.TableBookings))
	assert.Equal(t, 1, f.broker.SubscriberCount(store.TableReviews))
	assert.Equal(t, 1, f.broker.SubscriberCount(store.TableMessages))
	assert.Equal(t, 0, f.broker.SubscriberCount(store.TableEvents))

	storetest.MustInsert(t, f.tables.Bookings, &models.Booking{
		EventID: f.event.ID, UserName: "Frank", UserEmail: "f@example.com", UserPhone: "4",
		Guests: 3, TotalPrice: 150, Status: models.BookingStatusConfirmed, PaymentStatus: models.PaymentStatusPaid,
	})

	assert.Eventually(t, func() bool {
		snap, _ := d.Snapshot()
		return snap.Stats.TotalBookings == 3 && snap.Stats.TotalRevenue == 250
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.GreaterOrEqual(t, len(seen), 2)
	mu.Unlock()

	d.Close()
	d.Close()
	assert.Equal(t, 0, d.Subscribed())
	assert.Equal(t, 0, f.broker.SubscriberCount(store.TableBookings))
	assert.Equal(t, 0, f.broker.SubscriberCount(store.TableReviews))
	assert.Equal(t, 0, f.broker.SubscriberCount(store.TableMessages))
}

func TestOpenHoldsSubscriptionsWhenLoadFails(t *testing.T) {
	f := newFixture(t)
	events := &storetest.MockTable[models.Event]{TableName: store.TableEvents}
	events.On("Query", mock.Anything, mock.Anything).
		Return(nil, &store.DataError{Op: "query", Table: "events", Message: "offline"})
	f.tables.Events = events
	d := admin.NewDashboard(f.tables, f.broker, nil)

	err := d.Open(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, d.Subscribed())
	d.Close()
}
