// Package service implements the application logic of the todos API:
// payload validation, identifier minting, pagination normalization and
// error normalization on top of the storage layer.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/todo"
)

type todosKeeper interface {
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

	GetNumberOfTodos(ctx context.Context) (int64, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	todosKeeper
	pinger
}

// MaxRowsPerPage caps the page size a client may request.
const MaxRowsPerPage = 100

type Service struct {
	db                 storage
	defaultRowsPerPage int
}

func New(db storage, defaultRowsPerPage int) *Service {
	return &Service{
		db:                 db,
		defaultRowsPerPage: defaultRowsPerPage,
	}
}

// CreateTodo validates the payload, mints a new identifier and persists
// the item for the given owner. Empty required fields reject the request
// before any storage access.
func (s *Service) CreateTodo(
	ctx context.Context,
	userID string,
	info todo.Information,
) (*todo.Todo, error) {
	if emptyFields := todo.CollectEmptyFields(info.CollectAsStrings()); len(emptyFields) > 0 {
		return nil, &models.ValidationError{Fields: emptyFields}
	}

	return s.db.CreateTodo(
		ctx,
		&todo.Todo{
			ID:          uuid.New().String(),
			Title:       *info.Title,
			Description: *info.Description,
			OwnerID:     userID,
		},
	)
}

// EditTodo applies a partial update to the item matching both the todo and
// the owner identifier. Absent fields preserve the stored values; supplied
// fields must be non-empty.
func (s *Service) EditTodo(
	ctx context.Context,
	userID,
	todoID string,
	info todo.Information,
) (*todo.Todo, error) {
	if emptyFields := todo.CollectEmptyFields(info.CollectSuppliedAsStrings()); len(emptyFields) > 0 {
		return nil, &models.ValidationError{Fields: emptyFields}
	}

	return s.db.UpdateTodo(ctx, todoID, userID, info)
}

// GetTodo fetches the item matching both the todo and the owner identifier.
func (s *Service) GetTodo(ctx context.Context, userID, todoID string) (*todo.Todo, error) {
	return s.db.GetTodoByID(ctx, todoID, userID)
}

// ListTodos returns one page of the user's items in creation order,
// along with the normalized pagination actually applied.
func (s *Service) ListTodos(
	ctx context.Context,
	userID string,
	pagination models.Pagination,
) ([]todo.Todo, models.Pagination, error) {
	normalized := s.normalizePagination(pagination)

	items, err := s.db.GetUserTodos(ctx, userID, normalized.RowsPerPage, normalized.Offset())
	if err != nil {
		return nil, normalized, err
	}

	return items, normalized, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetInternalStats returns totals such as stored todos and user count.
func (s *Service) GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	todos, err := s.db.GetNumberOfTodos(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	users, err := s.db.GetNumberOfUsers(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	return models.InternalStatsResponse{
		Todos: todos,
		Users: users,
	}, nil
}

func (s *Service) normalizePagination(pagination models.Pagination) models.Pagination {
	if pagination.Page < 0 {
		pagination.Page = 0
	}
	if pagination.RowsPerPage <= 0 {
		pagination.RowsPerPage = s.defaultRowsPerPage
	}
	if pagination.RowsPerPage > MaxRowsPerPage {
		pagination.RowsPerPage = MaxRowsPerPage
	}

	return pagination
}
