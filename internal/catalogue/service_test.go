package catalogue_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spirit-hunts/internal/catalogue"
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

func seed(t *testing.T, tables *store.Tables) (later, sooner, cancelled *models.Event) {
	later = storetest.MustInsert(t, tables.Events, storetest.Event("Jamaica Inn", "Cornwall", 20, 55))
	sooner = storetest.MustInsert(t, tables.Events, storetest.Event("Pendle Hill", "Lancashire", 2, 30))
	c := storetest.Event("Closed Asylum", "Essex", 4, 40)
	c.Status = models.EventStatusCancelled
	cancelled = storetest.MustInsert(t, tables.Events, c)
	return later, sooner, cancelled
}

func TestLoadReturnsActiveEventsByDate(t *testing.T) {
	tables := storetest.NewTables(t, nil)
	later, sooner, _ := seed(t, tables)
	svc := catalogue.NewService(tables.Events, tables.Reviews, nil)

	events, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, sooner.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)
}

func TestBrowseFiltersCachedListWithoutRefetch(t *testing.T) {
	tables := storetest.NewTables(t, nil)
	seed(t, tables)
	events := &countingTable[models.Event]{Table: tables.Events}
	svc := catalogue.NewService(events, tables.Reviews, nil)
	ctx := context.Background()

	all, err := svc.Browse(ctx, catalogue.Filters{})
	require.NoError(t, err)
	assert.Len(t, all.Events, 2)
	assert.Equal(t, []string{"Lancashire", "Cornwall"}, all.Locations)

	some, err := svc.Browse(ctx, catalogue.Filters{Search: "jamaica"})
	require.NoError(t, err)
	require.Len(t, some.Events, 1)
	assert.Equal(t, 2, some.Total)

	_, err = svc.Browse(ctx, catalogue.Filters{SortBy: catalogue.SortByPrice})
	require.NoError(t, err)

	assert.Equal(t, int32(1), events.queries.Load())
}

func TestWatchReloadsOnEventChange(t *testing.T) {
	broker := realtime.NewBroker(nil)
	tables := storetest.NewTables(t, broker)
	seed(t, tables)
	svc := catalogue.NewService(tables.Events, tables.Reviews, nil)
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	unsubscribe := svc.Watch(broker)
	defer unsubscribe()

	storetest.MustInsert(t, tables.Events, storetest.Event("Tower of London", "London", 1, 90))

	assert.Eventually(t, func() bool {
		events, err := svc.Events(ctx)
		return err == nil && len(events) == 3 && events[0].Title == "Tower of London"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventDetailsIncludesLatestApprovedReviews(t *testing.T) {
	tables := storetest.NewTables(t, nil)
	_, sooner, cancelled := seed(t, tables)
	svc := catalogue.NewService(tables.Events, tables.Reviews, nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		status := models.ReviewStatusApproved
		if i == 6 {
			status = models.ReviewStatusPending
		}
		storetest.MustInsert(t, tables.Reviews, &models.Review{
			EventID:   sooner.ID,
			UserName:  "Guest",
			UserEmail: "guest@example.com",
			Rating:    1 + i%5,
			Comment:   "Spooky",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	details, err := svc.EventDetails(context.Background(), sooner.ID)
	require.NoError(t, err)
	assert.Equal(t, sooner.ID, details.Event.ID)
	require.Len(t, details.Reviews, catalogue.LatestReviewsLimit)
	// Newest approved review was created at hour 5 with rating 1.
	assert.Equal(t, 1, details.Reviews[0].Rating)
	assert.InDelta(t, (2+3+4+5+1)/5.0, details.AverageRating, 1e-9)

	_, err = svc.EventDetails(context.Background(), cancelled.ID)
	assert.True(t, store.IsNotFound(err))
}
