package store

import (
	"context"
	"sort"
)

// Filter is an equality condition on a column.
type Filter struct {
	Column string
	Value  interface{}
}

func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Value: value}
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query selects rows. Relations names bun relations to join, e.g. "Event".
type Query struct {
	Filters   []Filter
	Order     []Order
	Limit     int
	Relations []string
}

// Patch maps column names to their new values.
type Patch map[string]interface{}

func (p Patch) columns() []string {
	cols := make([]string, 0, len(p))
	for col := range p {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Table is the generic client for one table of the record store.
type Table[T any] interface {
	Name() string
	Query(ctx context.Context, q Query) ([]T, error)
	QueryOne(ctx context.Context, filters ...Filter) (*T, error)
	Insert(ctx context.Context, record *T) error
	Update(ctx context.Context, patch Patch, filters ...Filter) error
	Delete(ctx context.Context, filters ...Filter) error
}

// Identified is implemented by records that expose their primary key.
type Identified interface {
	RecordID() string
}

func idFromFilters(filters []Filter) string {
	for _, f := range filters {
		if f.Column == "id" {
			if id, ok := f.Value.(string); ok {
				return id
			}
		}
	}
	return ""
}
