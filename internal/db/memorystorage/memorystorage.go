// Package memorystorage provides an in-memory implementation of the
// storage interface. It is used when no database DSN is configured and
// by handler tests.
package memorystorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/todo"
)

// MemoryStorage keeps todos and users in process memory.
// Items are listed in insertion order, mirroring the creation-order
// listing of the PostgreSQL backend.
type MemoryStorage struct {
	mu             sync.RWMutex
	todos          map[string]*todo.Todo
	insertionOrder []string
	users          map[string]struct{}
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		todos:          map[string]*todo.Todo{},
		insertionOrder: []string{},
		users:          map[string]struct{}{},
	}, nil
}

func (theStorage *MemoryStorage) CreateTodo(ctx context.Context, item *todo.Todo) (*todo.Todo, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.todos[item.ID]; exists {
		// Mirrors ON CONFLICT DO NOTHING: the insert is a silent no-op.
		return nil, models.ErrNothingInserted
	}

	now := time.Now()
	stored := *item
	stored.CreatedAt = now
	stored.LastUpdate = now

	theStorage.todos[stored.ID] = &stored
	theStorage.insertionOrder = append(theStorage.insertionOrder, stored.ID)

	result := stored

	return &result, nil
}

func (theStorage *MemoryStorage) UpdateTodo(
	ctx context.Context,
	todoID,
	ownerID string,
	info todo.Information,
) (*todo.Todo, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	stored, exists := theStorage.todos[todoID]
	if !exists || stored.OwnerID != ownerID {
		return nil, models.ErrTodoNotFound
	}

	if info.Title != nil {
		stored.Title = *info.Title
	}
	if info.Description != nil {
		stored.Description = *info.Description
	}
	stored.LastUpdate = time.Now()

	result := *stored

	return &result, nil
}

func (theStorage *MemoryStorage) GetTodoByID(ctx context.Context, todoID, ownerID string) (*todo.Todo, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	stored, exists := theStorage.todos[todoID]
	if !exists || stored.OwnerID != ownerID {
		return nil, models.ErrTodoNotFound
	}

	result := *stored

	return &result, nil
}

func (theStorage *MemoryStorage) GetUserTodos(
	ctx context.Context,
	ownerID string,
	limit,
	offset int,
) ([]todo.Todo, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	result := []todo.Todo{}
	skipped := 0
	for _, todoID := range theStorage.insertionOrder {
		stored := theStorage.todos[todoID]
		if stored.OwnerID != ownerID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(result) == limit {
			break
		}

		result = append(result, *stored)
	}

	return result, nil
}

func (theStorage *MemoryStorage) CreateUser(ctx context.Context) (string, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	userID := uuid.New().String()
	theStorage.users[userID] = struct{}{}

	return userID, nil
}

func (theStorage *MemoryStorage) GetUserByID(ctx context.Context, userID string) (string, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	if _, exists := theStorage.users[userID]; !exists {
		return "", nil
	}

	return userID, nil
}

func (theStorage *MemoryStorage) GetNumberOfTodos(ctx context.Context) (int64, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	return int64(len(theStorage.todos)), nil
}

func (theStorage *MemoryStorage) GetNumberOfUsers(ctx context.Context) (int64, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	return int64(len(theStorage.users)), nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
