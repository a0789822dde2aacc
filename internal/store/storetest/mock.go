package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spirit-hunts/internal/store"
)

// MockTable is a testify mock of store.Table.
type MockTable[T any] struct {
	mock.Mock
	TableName string
}

var _ store.Table[struct{}] = (*MockTable[struct{}])(nil)

func (m *MockTable[T]) Name() string {
	return m.TableName
}

func (m *MockTable[T]) Query(ctx context.Context, q store.Query) ([]T, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockTable[T]) QueryOne(ctx context.Context, filters ...store.Filter) (*T, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTable[T]) Insert(ctx context.Context, record *T) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTable[T]) Update(ctx context.Context, patch store.Patch, filters ...store.Filter) error {
	args := m.Called(ctx, patch, filters)
	return args.Error(0)
}

func (m *MockTable[T]) Delete(ctx context.Context, filters ...store.Filter) error {
	args := m.Called(ctx, filters)
	return args.Error(0)
}

// MockPublisher is a testify mock of kafka.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, topic, key string, payload interface{}) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}
