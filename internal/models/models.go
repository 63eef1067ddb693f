package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/patric-chuzhbe/todos/internal/todo"
)

// SuccessResponse is the uniform envelope returned by every successful
// operation.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the uniform envelope returned by every failed operation.
// The error kind is distinguished by the HTTP status, not by a code field.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// TodoData wraps a single item for the envelope's data field.
type TodoData struct {
	Todo todo.Todo `json:"todo"`
}

// TodoListData wraps a listing page. CurrentPage and RowsPerPage are
// echoed back as strings.
type TodoListData struct {
	Todos       []todo.Todo `json:"todos"`
	CurrentPage string      `json:"currentPage"`
	RowsPerPage string      `json:"rowsPerPage"`
}

// Pagination carries the listing query parameters.
type Pagination struct {
	Page        int
	RowsPerPage int
}

// Offset returns the row offset of the requested page.
func (p Pagination) Offset() int {
	return p.Page * p.RowsPerPage
}

// PageAsString returns the current page for echoing in TodoListData.
func (p Pagination) PageAsString() string {
	return strconv.Itoa(p.Page)
}

// RowsPerPageAsString returns the page size for echoing in TodoListData.
func (p Pagination) RowsPerPageAsString() string {
	return strconv.Itoa(p.RowsPerPage)
}

// InternalStatsResponse holds service totals for the internal stats endpoint.
type InternalStatsResponse struct {
	Todos int64 `json:"todos"`
	Users int64 `json:"users"`
}

// ErrTodoNotFound is returned when no row matched the id+owner predicate.
var ErrTodoNotFound = errors.New("todo not found")

// ErrNothingInserted is returned when an insert was silently skipped,
// meaning the generated identifier collided with an existing row.
var ErrNothingInserted = errors.New("nothing was inserted")

// ValidationError carries the per-field presence check failures.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}
