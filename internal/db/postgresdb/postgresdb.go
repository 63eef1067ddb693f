// Package postgresdb provides the PostgreSQL-backed implementation of the
// storage interface. Every operation issues a single parameterized
// statement scoped by the owning user where applicable.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/todo"
	"github.com/patric-chuzhbe/todos/migrations"
)

// PgxPool is the minimal pool surface used by the repository.
// It is implemented by *pgxpool.Pool and by pgxmock.PgxPoolIface in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresDB is the PostgreSQL-backed storage of todo items and users.
type PostgresDB struct {
	pool              PgxPool
	connectionTimeout time.Duration
}

const todoColumns = `id, title, description, owner_id, created_at, last_update`

// New runs the embedded schema migrations, opens a connection pool and
// returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
) (*PostgresDB, error) {
	if err := runMigrations(databaseDSN); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `runMigrations()` calling: %w",
				err,
			)
	}

	pool, err := pgxpool.New(ctx, databaseDSN)
	if err != nil {
		return nil, err
	}

	return &PostgresDB{
		pool:              pool,
		connectionTimeout: connectionTimeout,
	}, nil
}

func runMigrations(databaseDSN string) error {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(database, ".")
}

// CreateTodo inserts a new row for the given item. A collision on the
// generated identifier skips the insert, which surfaces as
// models.ErrNothingInserted.
func (db *PostgresDB) CreateTodo(ctx context.Context, item *todo.Todo) (*todo.Todo, error) {
	row := db.pool.QueryRow(
		ctx,
		`INSERT INTO todos (id, title, description, owner_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
			RETURNING `+todoColumns,
		item.ID,
		item.Title,
		item.Description,
		item.OwnerID,
	)

	result, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNothingInserted
		}
		return nil, err
	}

	return result, nil
}

// UpdateTodo applies a coalesce update to the row matching both the item
// and the owner identifier, refreshing last_update. A missing match
// surfaces as models.ErrTodoNotFound.
func (db *PostgresDB) UpdateTodo(
	ctx context.Context,
	todoID,
	ownerID string,
	info todo.Information,
) (*todo.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, models.ErrTodoNotFound
	}

	row := db.pool.QueryRow(
		ctx,
		`UPDATE todos
			SET title = COALESCE($1, title),
				description = COALESCE($2, description),
				last_update = now()
			WHERE owner_id = $3 AND id = $4
			RETURNING `+todoColumns,
		info.Title,
		info.Description,
		ownerID,
		todoID,
	)

	result, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTodoNotFound
		}
		return nil, err
	}

	return result, nil
}

// GetTodoByID fetches the unique row matching both the item and the owner
// identifier. A malformed identifier cannot match any row, so it short-
// circuits to models.ErrTodoNotFound instead of a driver cast error.
func (db *PostgresDB) GetTodoByID(ctx context.Context, todoID, ownerID string) (*todo.Todo, error) {
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, models.ErrTodoNotFound
	}

	row := db.pool.QueryRow(
		ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND owner_id = $2`,
		todoID,
		ownerID,
	)

	result, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTodoNotFound
		}
		return nil, err
	}

	return result, nil
}

// GetUserTodos fetches up to limit rows owned by the user, in creation
// order. Zero rows is a valid empty result, not an error.
func (db *PostgresDB) GetUserTodos(
	ctx context.Context,
	ownerID string,
	limit,
	offset int,
) ([]todo.Todo, error) {
	rows, err := db.pool.Query(
		ctx,
		`SELECT `+todoColumns+`
			FROM todos
			WHERE owner_id = $1
			ORDER BY created_at, id
			LIMIT $2 OFFSET $3`,
		ownerID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []todo.Todo{}
	for rows.Next() {
		var item todo.Todo
		err = rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.OwnerID,
			&item.CreatedAt,
			&item.LastUpdate,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateUser inserts a new user record and returns the generated ID.
func (db *PostgresDB) CreateUser(ctx context.Context) (string, error) {
	row := db.pool.QueryRow(
		ctx,
		`INSERT INTO users DEFAULT VALUES RETURNING id`,
	)

	var userID string
	if err := row.Scan(&userID); err != nil {
		return "", err
	}

	return userID, nil
}

// GetUserByID fetches a user by UUID. A missing or syntactically invalid
// identifier yields an empty ID without an error.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", nil
	}

	row := db.pool.QueryRow(
		ctx,
		`SELECT id FROM users WHERE id = $1`,
		userID,
	)

	var userIDFromDB string
	if err := row.Scan(&userIDFromDB); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return userIDFromDB, nil
}

// GetNumberOfTodos returns the total number of stored todo items.
func (db *PostgresDB) GetNumberOfTodos(ctx context.Context) (int64, error) {
	var count int64
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetNumberOfUsers returns the total number of registered users.
func (db *PostgresDB) GetNumberOfUsers(ctx context.Context) (int64, error) {
	var count int64
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Ping verifies connectivity with the database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.pool.Ping(ctxWithTimeout)
}

// Close shuts down the connection pool.
func (db *PostgresDB) Close() error {
	db.pool.Close()

	return nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	var item todo.Todo
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.OwnerID,
		&item.CreatedAt,
		&item.LastUpdate,
	)
	if err != nil {
		return nil, err
	}

	return &item, nil
}
