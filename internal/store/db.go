package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"spirit-hunts/internal/config"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/realtime"
)

const (
	TableEvents   = "events"
	TableBookings = "bookings"
	TableReviews  = "reviews"
	TableMessages = "messages"
)

// Tables groups the four record tables the site reads and writes.
type Tables struct {
	Events   Table[models.Event]
	Bookings Table[models.Booking]
	Reviews  Table[models.Review]
	Messages Table[models.Message]
}

func NewTables(db bun.IDB, notifier realtime.Notifier, log *logger.Logger) *Tables {
	return &Tables{
		Events:   NewBunTable[models.Event](db, TableEvents, notifier, log),
		Bookings: NewBunTable[models.Booking](db, TableBookings, notifier, log),
		Reviews:  NewBunTable[models.Review](db, TableReviews, notifier, log),
		Messages: NewBunTable[models.Message](db, TableMessages, notifier, log),
	}
}

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// OpenPostgres connects to PostgreSQL, retrying while the server comes up.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var sqldb *sql.DB
	var err error

	for i := 0; i < connectAttempts; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, connectAttempts))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < connectAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(connectBackoff):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", connectAttempts, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a SQLite database. A single connection is kept so
// that ":memory:" databases are shared by every query.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates the record tables from the models. Postgres
// deployments use the SQL migrations instead.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	tables := []interface{}{
		(*models.Event)(nil),
		(*models.Booking)(nil),
		(*models.Review)(nil),
		(*models.Message)(nil),
	}
	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
