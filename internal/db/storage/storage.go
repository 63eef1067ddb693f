package storage

import (
	"context"

	"github.com/patric-chuzhbe/todos/internal/todo"
)

// Storage is implemented by every storage backend of the service.
// Each call borrows and returns a single connection; no call spans
// multiple statements.
type Storage interface {
	CreateTodo(ctx context.Context, item *todo.Todo) (*todo.Todo, error)

	UpdateTodo(
		ctx context.Context,
		todoID,
		ownerID string,
		info todo.Information,
	) (*todo.Todo, error)

	GetTodoByID(ctx context.Context, todoID, ownerID string) (*todo.Todo, error)

	GetUserTodos(
		ctx context.Context,
		ownerID string,
		limit,
		offset int,
	) ([]todo.Todo, error)

	CreateUser(ctx context.Context) (string, error)

	GetUserByID(ctx context.Context, userID string) (string, error)

	GetNumberOfTodos(ctx context.Context) (int64, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error

	Close() error
}
