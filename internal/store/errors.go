package store

import (
	"errors"
	"fmt"
	"strings"
)

// DataError is any failure reported by the record store. Callers do not
// distinguish network, constraint or permission failures.
type DataError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Table, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned by QueryOne when no row matches.
type NotFoundError struct {
	Table   string
	Filters []Filter
}

func (e *NotFoundError) Error() string {
	parts := make([]string, 0, len(e.Filters))
	for _, f := range e.Filters {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Column, f.Value))
	}
	return fmt.Sprintf("%s: no row matching %s", e.Table, strings.Join(parts, ", "))
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

func dataError(op, table string, err error) error {
	return &DataError{Op: op, Table: table, Message: err.Error(), Err: err}
}
