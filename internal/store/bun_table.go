package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/realtime"
)

// BunTable implements Table over a bun database and reports every
// successful mutation to its notifier.
type BunTable[T any] struct {
	db       bun.IDB
	name     string
	notifier realtime.Notifier
	logger   *logger.Logger
}

func NewBunTable[T any](db bun.IDB, name string, notifier realtime.Notifier, log *logger.Logger) *BunTable[T] {
	if log == nil {
		log = logger.Discard()
	}
	return &BunTable[T]{db: db, name: name, notifier: notifier, logger: log}
}

func (t *BunTable[T]) Name() string {
	return t.name
}

func (t *BunTable[T]) Query(ctx context.Context, q Query) ([]T, error) {
	var rows []T
	sel := t.db.NewSelect().Model(&rows)
	for _, rel := range q.Relations {
		sel = sel.Relation(rel)
	}
	sel = applyFilters(sel, q.Filters)
	for _, o := range q.Order {
		if o.Desc {
			sel = sel.OrderExpr("?TableAlias.? DESC", bun.Ident(o.Column))
		} else {
			sel = sel.OrderExpr("?TableAlias.? ASC", bun.Ident(o.Column))
		}
	}
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}

	if err := sel.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		t.logger.Error("DATABASE", fmt.Sprintf("Query %s failed: %v", t.name, err))
		return nil, dataError("query", t.name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	t.logger.Debug("DATABASE", fmt.Sprintf("Query %s returned %d rows", t.name, len(rows)))
	return rows, nil
}

func (t *BunTable[T]) QueryOne(ctx context.Context, filters ...Filter) (*T, error) {
	row := new(T)
	sel := applyFilters(t.db.NewSelect().Model(row), filters).Limit(1)

	if err := sel.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Table: t.name, Filters: filters}
		}
		t.logger.Error("DATABASE", fmt.Sprintf("QueryOne %s failed: %v", t.name, err))
		return nil, dataError("query", t.name, err)
	}
	return row, nil
}

func (t *BunTable[T]) Insert(ctx context.Context, record *T) error {
	if _, err := t.db.NewInsert().Model(record).Exec(ctx); err != nil {
		t.logger.Error("DATABASE", fmt.Sprintf("Insert into %s failed: %v", t.name, err))
		return dataError("insert", t.name, err)
	}

	var id string
	if rec, ok := any(record).(Identified); ok {
		id = rec.RecordID()
	}
	t.logger.LogDatabase("INSERT", t.name, id)
	t.notify(ctx, realtime.OpInsert, id)
	return nil
}

func (t *BunTable[T]) Update(ctx context.Context, patch Patch, filters ...Filter) error {
	if len(patch) == 0 {
		return &DataError{Op: "update", Table: t.name, Message: "empty patch"}
	}
	if len(filters) == 0 {
		return &DataError{Op: "update", Table: t.name, Message: "refusing to update without filters"}
	}

	upd := t.db.NewUpdate().Model((*T)(nil))
	for _, col := range patch.columns() {
		upd = upd.Set("? = ?", bun.Ident(col), patch[col])
	}
	for _, f := range filters {
		upd = upd.Where("? = ?", bun.Ident(f.Column), f.Value)
	}

	if _, err := upd.Exec(ctx); err != nil {
		t.logger.Error("DATABASE", fmt.Sprintf("Update %s failed: %v", t.name, err))
		return dataError("update", t.name, err)
	}

	id := idFromFilters(filters)
	t.logger.LogDatabase("UPDATE", t.name, id)
	t.notify(ctx, realtime.OpUpdate, id)
	return nil
}

func (t *BunTable[T]) Delete(ctx context.Context, filters ...Filter) error {
	if len(filters) == 0 {
		return &DataError{Op: "delete", Table: t.name, Message: "refusing to delete without filters"}
	}

	del := t.db.NewDelete().Model((*T)(nil))
	for _, f := range filters {
		del = del.Where("? = ?", bun.Ident(f.Column), f.Value)
	}

	if _, err := del.Exec(ctx); err != nil {
		t.logger.Error("DATABASE", fmt.Sprintf("Delete from %s failed: %v", t.name, err))
		return dataError("delete", t.name, err)
	}

	id := idFromFilters(filters)
	t.logger.LogDatabase("DELETE", t.name, id)
	t.notify(ctx, realtime.OpDelete, id)
	return nil
}

func (t *BunTable[T]) notify(ctx context.Context, op realtime.Op, id string) {
	if t.notifier == nil {
		return
	}
	err := t.notifier.Notify(ctx, realtime.Change{Table: t.name, Op: op, RecordID: id})
	if err != nil {
		t.logger.Warn("REALTIME", fmt.Sprintf("Failed to publish %s change on %s: %v", op, t.name, err))
	}
}

func applyFilters(sel *bun.SelectQuery, filters []Filter) *bun.SelectQuery {
	for _, f := range filters {
		sel = sel.Where("?TableAlias.? = ?", bun.Ident(f.Column), f.Value)
	}
	return sel
}
