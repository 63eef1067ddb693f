package postgresdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/todo"
)

func newDB(t *testing.T) (*PostgresDB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &PostgresDB{
		pool:              mock,
		connectionTimeout: time.Second,
	}, mock
}

// Route and auth identifiers are UUIDs in production; the repository
// short-circuits anything else before touching the pool.
const (
	testTodoID  = "8d2f6a2e-0f3b-4f6d-9f6d-3a4f2b1c5d7e"
	testOwnerID = "4b6c2d1a-9e8f-4a3b-b2c1-7d5e6f8a9b0c"
	testOtherID = "0a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d"
)

func strPtr(value string) *string {
	return &value
}

func todoRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "title", "description", "owner_id", "created_at", "last_update"})
}

func TestCreateTodo_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO todos \(id, title, description, owner_id\)`).
		WithArgs(testTodoID, "Buy milk", "2%", testOwnerID).
		WillReturnRows(todoRows().AddRow(testTodoID, "Buy milk", "2%", testOwnerID, now, now))

	created, err := db.CreateTodo(ctx, &todo.Todo{
		ID:          testTodoID,
		Title:       "Buy milk",
		Description: "2%",
		OwnerID:     testOwnerID,
	})
	require.NoError(t, err)
	assert.Equal(t, testTodoID, created.ID)
	assert.Equal(t, testOwnerID, created.OwnerID)
	assert.Equal(t, now, created.LastUpdate)
}

func TestCreateTodo_IdentifierCollision(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	// ON CONFLICT DO NOTHING returns no row on collision.
	mock.ExpectQuery(`INSERT INTO todos \(id, title, description, owner_id\)`).
		WithArgs(testTodoID, "Buy milk", "2%", testOwnerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.CreateTodo(context.Background(), &todo.Todo{
		ID:          testTodoID,
		Title:       "Buy milk",
		Description: "2%",
		OwnerID:     testOwnerID,
	})
	assert.ErrorIs(t, err, models.ErrNothingInserted)
}

func TestUpdateTodo_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	now := time.Now()
	newTitle := strPtr("Buy oat milk")
	var noDescription *string

	mock.ExpectQuery(`UPDATE todos`).
		WithArgs(newTitle, noDescription, testOwnerID, testTodoID).
		WillReturnRows(todoRows().AddRow(testTodoID, "Buy oat milk", "2%", testOwnerID, now, now))

	updated, err := db.UpdateTodo(
		context.Background(),
		testTodoID,
		testOwnerID,
		todo.Information{Title: newTitle},
	)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "2%", updated.Description)
}

func TestUpdateTodo_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	newTitle := strPtr("Buy oat milk")
	var noDescription *string

	mock.ExpectQuery(`UPDATE todos`).
		WithArgs(newTitle, noDescription, testOtherID, testTodoID).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.UpdateTodo(
		context.Background(),
		testTodoID,
		testOtherID,
		todo.Information{Title: newTitle},
	)
	assert.ErrorIs(t, err, models.ErrTodoNotFound)
}

func TestGetTodoByID_OK_And_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title, description, owner_id, created_at, last_update FROM todos WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(testTodoID, testOwnerID).
		WillReturnRows(todoRows().AddRow(testTodoID, "Buy milk", "2%", testOwnerID, now, now))

	fetched, err := db.GetTodoByID(ctx, testTodoID, testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", fetched.Title)

	mock.ExpectQuery(`SELECT id, title, description, owner_id, created_at, last_update FROM todos WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(testTodoID, testOtherID).
		WillReturnError(pgx.ErrNoRows)

	_, err = db.GetTodoByID(ctx, testTodoID, testOtherID)
	assert.ErrorIs(t, err, models.ErrTodoNotFound)
}

func TestMalformedTodoIDIsNotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	ctx := context.Background()

	// The guard answers before any statement is issued, so a non-UUID
	// route id maps to a 404 instead of a uuid cast error from the driver.
	_, err := db.GetTodoByID(ctx, "not-a-uuid", testOwnerID)
	assert.ErrorIs(t, err, models.ErrTodoNotFound)

	_, err = db.UpdateTodo(ctx, "not-a-uuid", testOwnerID, todo.Information{Title: strPtr("x")})
	assert.ErrorIs(t, err, models.ErrTodoNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserTodos(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	now := time.Now()
	rows := todoRows().
		AddRow(testTodoID, "first", "d1", testOwnerID, now, now).
		AddRow(testOtherID, "second", "d2", testOwnerID, now, now)

	mock.ExpectQuery(`SELECT id, title, description, owner_id, created_at, last_update FROM todos WHERE owner_id = \$1 ORDER BY created_at, id LIMIT \$2 OFFSET \$3`).
		WithArgs(testOwnerID, 2, 4).
		WillReturnRows(rows)

	todos, err := db.GetUserTodos(context.Background(), testOwnerID, 2, 4)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "first", todos[0].Title)
	assert.Equal(t, "second", todos[1].Title)
}

func TestGetUserTodos_EmptyPageIsNotAnError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, title, description, owner_id, created_at, last_update FROM todos WHERE owner_id = \$1`).
		WithArgs(testOwnerID, 10, 100).
		WillReturnRows(todoRows())

	todos, err := db.GetUserTodos(context.Background(), testOwnerID, 10, 100)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestCreateUser(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO users DEFAULT VALUES RETURNING id`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(testOwnerID))

	userID, err := db.CreateUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testOwnerID, userID)
}

func TestGetUserByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	ctx := context.Background()

	knownUserID := "6ff90b56-5165-45a5-8e69-24ed2ee5ae3b"
	missingUserID := "1f1bfb48-2a64-4bce-9ddd-e6ca7aaa4b05"

	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1`).
		WithArgs(knownUserID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(knownUserID))

	userID, err := db.GetUserByID(ctx, knownUserID)
	require.NoError(t, err)
	assert.Equal(t, knownUserID, userID)

	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1`).
		WithArgs(missingUserID).
		WillReturnError(pgx.ErrNoRows)

	userID, err = db.GetUserByID(ctx, missingUserID)
	require.NoError(t, err)
	assert.Empty(t, userID)

	// A malformed ID short-circuits without touching the pool.
	userID, err = db.GetUserByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestCounts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM todos`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))
	todos, err := db.GetNumberOfTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), todos)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	users, err := db.GetNumberOfUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), users)
}

func TestCounts_QueryErr(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM todos`).
		WillReturnError(errors.New("boom"))

	_, err := db.GetNumberOfTodos(context.Background())
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping(context.Background()))
}
