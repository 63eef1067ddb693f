package memorystorage

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/todo"
)

func strPtr(value string) *string {
	return &value
}

func newTestTodo(ownerID, title string) *todo.Todo {
	return &todo.Todo{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "some description",
		OwnerID:     ownerID,
	}
}

func TestCreateAndGetTodo(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	ownerID, err := theStorage.CreateUser(ctx)
	require.NoError(t, err)

	created, err := theStorage.CreateTodo(ctx, newTestTodo(ownerID, "Buy milk"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.LastUpdate.IsZero())

	fetched, err := theStorage.GetTodoByID(ctx, created.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)
}

func TestCreateTodoDuplicateIDIsNoOp(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	item := newTestTodo("owner", "Buy milk")

	_, err = theStorage.CreateTodo(ctx, item)
	require.NoError(t, err)

	_, err = theStorage.CreateTodo(ctx, item)
	assert.ErrorIs(t, err, models.ErrNothingInserted)
}

func TestOwnershipIsolation(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	created, err := theStorage.CreateTodo(ctx, newTestTodo("user-1", "Buy milk"))
	require.NoError(t, err)

	_, err = theStorage.GetTodoByID(ctx, created.ID, "user-2")
	assert.ErrorIs(t, err, models.ErrTodoNotFound)

	_, err = theStorage.UpdateTodo(ctx, created.ID, "user-2", todo.Information{Title: strPtr("hacked")})
	assert.ErrorIs(t, err, models.ErrTodoNotFound)

	fetched, err := theStorage.GetTodoByID(ctx, created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", fetched.Title)
}

func TestUpdateTodoCoalesceSemantics(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	created, err := theStorage.CreateTodo(ctx, newTestTodo("owner", "Buy milk"))
	require.NoError(t, err)

	updated, err := theStorage.UpdateTodo(
		ctx,
		created.ID,
		"owner",
		todo.Information{Title: strPtr("Buy oat milk")},
	)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.False(t, updated.LastUpdate.Before(created.LastUpdate))
}

func TestGetUserTodosPagination(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := theStorage.CreateTodo(ctx, newTestTodo("owner", fmt.Sprintf("todo %d", i)))
		require.NoError(t, err)
	}
	_, err = theStorage.CreateTodo(ctx, newTestTodo("neighbor", "other todo"))
	require.NoError(t, err)

	firstPage, err := theStorage.GetUserTodos(ctx, "owner", 2, 0)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, "todo 0", firstPage[0].Title)
	assert.Equal(t, "todo 1", firstPage[1].Title)

	lastPage, err := theStorage.GetUserTodos(ctx, "owner", 2, 4)
	require.NoError(t, err)
	require.Len(t, lastPage, 1)
	assert.Equal(t, "todo 4", lastPage[0].Title)

	emptyPage, err := theStorage.GetUserTodos(ctx, "owner", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, emptyPage)
}

func TestUsersAndStats(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	userID, err := theStorage.CreateUser(ctx)
	require.NoError(t, err)

	known, err := theStorage.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, known)

	unknown, err := theStorage.GetUserByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, unknown)

	users, err := theStorage.GetNumberOfUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	todos, err := theStorage.GetNumberOfTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), todos)

	assert.NoError(t, theStorage.Ping(ctx))
	assert.NoError(t, theStorage.Close())
}
