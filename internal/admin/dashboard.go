package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
)

// Snapshot is an immutable view of every table plus the stats derived
// from it. The dashboard replaces it wholesale and never edits it in place.
type Snapshot struct {
	Events   []models.Event        `json:"events"`
	Bookings []models.Booking      `json:"bookings"`
	Reviews  []models.Review       `json:"reviews"`
	Messages []models.Message      `json:"messages"`
	Stats    models.DashboardStats `json:"stats"`
	Recent   RecentActivity        `json:"recent"`
	// LoadedAt is when the most recent fetch resolved.
	LoadedAt time.Time `json:"loaded_at"`
}

func (s Snapshot) derive(now time.Time) Snapshot {
	s.Stats = ComputeStats(s.Events, s.Bookings, s.Reviews, now)
	s.Recent = Recent(s.Bookings, s.Reviews)
	s.LoadedAt = now
	return s
}

// Dashboard is the authenticated admin view. It owns one subscription per
// watched table while open and re-fetches a whole table on each change.
type Dashboard struct {
	tables *store.Tables
	feed   realtime.Subscriber
	logger *logger.Logger
	now    func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	loaded   bool
	unsubs   []func()
	onUpdate func(Snapshot)
}

func NewDashboard(tables *store.Tables, feed realtime.Subscriber, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.Discard()
	}
	return &Dashboard{
		tables: tables,
		feed:   feed,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OnUpdate registers fn to receive every new snapshot. fn must not block.
func (d *Dashboard) OnUpdate(fn func(Snapshot)) {
	d.mu.Lock()
	d.onUpdate = fn
	d.mu.Unlock()
}

// Snapshot returns the current view and whether a load has ever succeeded.
func (d *Dashboard) Snapshot() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot, d.loaded
}

// Load fetches the four tables concurrently. Either all succeed and the
// snapshot is replaced, or the previous snapshot is kept and a single
// error is returned.
func (d *Dashboard) Load(ctx context.Context) (Snapshot, error) {
	var next Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		next.Events, err = d.fetchEvents(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Bookings, err = d.fetchBookings(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Reviews, err = d.fetchReviews(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.Messages, err = d.fetchMessages(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		d.logger.Error("DASHBOARD", fmt.Sprintf("Error fetching dashboard data: %v", err))
		current, _ := d.Snapshot()
		return current, fmt.Errorf("load dashboard: %w", err)
	}

	next = next.derive(d.now())
	d.publish(next)
	d.logger.Info("DASHBOARD", fmt.Sprintf("Loaded %d events, %d bookings, %d reviews, %d messages",
		len(next.Events), len(next.Bookings), len(next.Reviews), len(next.Messages)))
	return next, nil
}

// Open loads the dashboard and subscribes to bookings, reviews and
// messages. The subscriptions are held even when the load fails, so the
// next change retries it; the load error is still returned.
func (d *Dashboard) Open(ctx context.Context) error {
	_, loadErr := d.Load(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.unsubs) > 0 {
		return loadErr
	}
	for _, table := range []string{store.TableBookings, store.TableReviews, store.TableMessages} {
		table := table
		d.unsubs = append(d.unsubs, d.feed.Subscribe(table, func(change realtime.Change) {
			d.logger.Debug("DASHBOARD", fmt.Sprintf("%s %s, re-fetching", change.Table, change.Op))
			if err := d.Refresh(context.Background(), table); err != nil {
				d.logger.Warn("DASHBOARD", fmt.Sprintf("Re-fetch of %s after change failed: %v", table, err))
			}
		}))
	}
	d.logger.Info("DASHBOARD", "Subscribed to live changes")
	return loadErr
}

// Close releases every subscription. It is safe to call more than once.
func (d *Dashboard) Close() {
	d.mu.Lock()
	unsubs := d.unsubs
	d.unsubs = nil
	d.onUpdate = nil
	d.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	if len(unsubs) > 0 {
		d.logger.Info("DASHBOARD", "Released live change subscriptions")
	}
}

// Subscribed reports how many table subscriptions are held.
func (d *Dashboard) Subscribed() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.unsubs)
}

// Refresh re-fetches one table and recomputes stats from the result. Before
// the first successful load it falls back to a full load, so stats never
// mix fetched and missing tables.
func (d *Dashboard) Refresh(ctx context.Context, table string) error {
	if _, loaded := d.Snapshot(); !loaded {
		_, err := d.Load(ctx)
		return err
	}

	var apply func(*Snapshot)
	switch table {
	case store.TableEvents:
		rows, err := d.fetchEvents(ctx)
		if err != nil {
			return err
		}
		apply = func(s *Snapshot) { s.Events = rows }
	case store.TableBookings:
		rows, err := d.fetchBookings(ctx)
		if err != nil {
			return err
		}
		apply = func(s *Snapshot) { s.Bookings = rows }
	case store.TableReviews:
		rows, err := d.fetchReviews(ctx)
		if err != nil {
			return err
		}
		apply = func(s *Snapshot) { s.Reviews = rows }
	case store.TableMessages:
		rows, err := d.fetchMessages(ctx)
		if err != nil {
			return err
		}
		apply = func(s *Snapshot) { s.Messages = rows }
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	d.mu.Lock()
	next := d.snapshot
	apply(&next)
	next = next.derive(d.now())
	d.snapshot = next
	notify := d.onUpdate
	d.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	return nil
}

func (d *Dashboard) publish(next Snapshot) {
	d.mu.Lock()
	d.snapshot = next
	d.loaded = true
	notify := d.onUpdate
	d.mu.Unlock()

	if notify != nil {
		notify(next)
	}
}

func (d *Dashboard) fetchEvents(ctx context.Context) ([]models.Event, error) {
	return d.tables.Events.Query(ctx, store.Query{
		Order: []store.Order{store.Asc("date")},
	})
}

func (d *Dashboard) fetchBookings(ctx context.Context) ([]models.Booking, error) {
	return d.tables.Bookings.Query(ctx, store.Query{
		Order:     []store.Order{store.Desc("created_at")},
		Relations: []string{"Event"},
	})
}

func (d *Dashboard) fetchReviews(ctx context.Context) ([]models.Review, error) {
	return d.tables.Reviews.Query(ctx, store.Query{
		Order:     []store.Order{store.Desc("created_at")},
		Relations: []string{"Event"},
	})
}

func (d *Dashboard) fetchMessages(ctx context.Context) ([]models.Message, error) {
	return d.tables.Messages.Query(ctx, store.Query{
		Order: []store.Order{store.Desc("created_at")},
	})
}
