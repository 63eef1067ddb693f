// Package mockstorage provides a testify-based mock implementation
// of the storage interface. It is used for unit testing the service and
// the HTTP handlers by simulating storage behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/todos/internal/todo"
)

// StorageMock is a testify mock that implements the storage interface
// used by the service layer.
type StorageMock struct {
	mock.Mock

	// OnGetNumberOfUsers optionally overrides GetNumberOfUsers.
	// If set, the method delegates to it instead of testify's generic
	// mock handler.
	OnGetNumberOfUsers func(ctx context.Context) (int64, error)

	// OnGetNumberOfTodos optionally overrides GetNumberOfTodos.
	OnGetNumberOfTodos func(ctx context.Context) (int64, error)
}

// CreateTodo mocks inserting a new todo item.
func (m *StorageMock) CreateTodo(ctx context.Context, item *todo.Todo) (*todo.Todo, error) {
	args := m.Called(ctx, item)
	result, _ := args.Get(0).(*todo.Todo)
	return result, args.Error(1)
}

// UpdateTodo mocks the owner-scoped coalesce update.
func (m *StorageMock) UpdateTodo(
	ctx context.Context,
	todoID,
	ownerID string,
	info todo.Information,
) (*todo.Todo, error) {
	args := m.Called(ctx, todoID, ownerID, info)
	result, _ := args.Get(0).(*todo.Todo)
	return result, args.Error(1)
}

// GetTodoByID mocks the owner-scoped single item fetch.
func (m *StorageMock) GetTodoByID(ctx context.Context, todoID, ownerID string) (*todo.Todo, error) {
	args := m.Called(ctx, todoID, ownerID)
	result, _ := args.Get(0).(*todo.Todo)
	return result, args.Error(1)
}

// GetUserTodos mocks fetching one page of the user's items.
func (m *StorageMock) GetUserTodos(
	ctx context.Context,
	ownerID string,
	limit,
	offset int,
) ([]todo.Todo, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	result, _ := args.Get(0).([]todo.Todo)
	return result, args.Error(1)
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks fetching a user by their ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetNumberOfUsers returns the number of users as defined by the mock.
// Defaults to 0 and no error when OnGetNumberOfUsers is nil.
func (m *StorageMock) GetNumberOfUsers(ctx context.Context) (int64, error) {
	if m.OnGetNumberOfUsers != nil {
		return m.OnGetNumberOfUsers(ctx)
	}
	return 0, nil
}

// GetNumberOfTodos returns the number of stored items as defined by the
// mock. Defaults to 0 and no error when OnGetNumberOfTodos is nil.
func (m *StorageMock) GetNumberOfTodos(ctx context.Context) (int64, error) {
	if m.OnGetNumberOfTodos != nil {
		return m.OnGetNumberOfTodos(ctx)
	}
	return 0, nil
}
