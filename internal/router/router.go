// Package router wires the HTTP surface of the todos service: the CRUD
// handlers, the health check and the subnet-guarded internal stats
// endpoint, together with logging, compression and auth middleware.
package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/todos/internal/auth"
	"github.com/patric-chuzhbe/todos/internal/gzippedhttp"
	"github.com/patric-chuzhbe/todos/internal/ipchecker"
	"github.com/patric-chuzhbe/todos/internal/logger"
	"github.com/patric-chuzhbe/todos/internal/models"
	"github.com/patric-chuzhbe/todos/internal/service"
	"github.com/patric-chuzhbe/todos/internal/todo"
)

type authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
	RegisterNewUser(h http.Handler) http.Handler
}

// Router holds the dependencies of the HTTP handlers.
type Router struct {
	svc       *service.Service
	ipChecker *ipchecker.IPChecker
}

// Client-safe error messages. Underlying error details go to the log only.
const (
	msgServerError  = "internal server error"
	msgTodoNotFound = "todo not found"
	msgUnauthorized = "unauthorized"
	msgBadRequest   = "invalid request body"
	msgBadPaging    = "invalid pagination parameters"
	msgForbidden    = "access denied"
)

// New builds the chi mux with the full middleware chain.
func New(
	svc *service.Service,
	theAuth authenticator,
	ipChecker *ipchecker.IPChecker,
) *chi.Mux {
	theRouter := &Router{
		svc:       svc,
		ipChecker: ipChecker,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
	)

	router.With(
		gzippedhttp.GzipResponse,
		theAuth.AuthenticateUser,
		theAuth.RegisterNewUser,
	).Route(`/api/todos`, func(r chi.Router) {
		r.Post(`/`, theRouter.PostApitodos)
		r.Get(`/`, theRouter.GetApitodos)
		r.Get(`/{todoID}`, theRouter.GetApitodo)
		r.Patch(`/{todoID}`, theRouter.PatchApitodo)
		r.Put(`/{todoID}`, theRouter.PatchApitodo)
	})

	router.Get(`/ping`, theRouter.GetPing)
	router.Get(`/api/internal/stats`, theRouter.GetApiInternalStats)

	return router
}

// PostApitodos creates a new todo item owned by the authenticated user.
func (router *Router) PostApitodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := userIDFromContext(request)
	if !ok {
		writeError(response, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var info todo.Information
	if err := json.NewDecoder(request.Body).Decode(&info); err != nil {
		writeError(response, http.StatusBadRequest, msgBadRequest)
		return
	}

	created, err := router.svc.CreateTodo(request.Context(), userID, info)
	if err != nil {
		router.writeTodoError(response, err)
		return
	}

	writeJSON(
		response,
		http.StatusCreated,
		models.SuccessResponse{
			Success: true,
			Message: "Todo successfully added",
			Data:    models.TodoData{Todo: *created},
		},
	)
}

// PatchApitodo applies a partial update to the item named by the route
// parameter. Absent fields keep their stored values.
func (router *Router) PatchApitodo(response http.ResponseWriter, request *http.Request) {
	userID, ok := userIDFromContext(request)
	if !ok {
		writeError(response, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	todoID := chi.URLParam(request, "todoID")

	var info todo.Information
	if err := json.NewDecoder(request.Body).Decode(&info); err != nil {
		writeError(response, http.StatusBadRequest, msgBadRequest)
		return
	}

	updated, err := router.svc.EditTodo(request.Context(), userID, todoID, info)
	if err != nil {
		router.writeTodoError(response, err)
		return
	}

	writeJSON(
		response,
		http.StatusOK,
		models.SuccessResponse{
			Success: true,
			Message: "Todo successfully updated",
			Data:    models.TodoData{Todo: *updated},
		},
	)
}

// GetApitodo fetches a single item of the authenticated user.
func (router *Router) GetApitodo(response http.ResponseWriter, request *http.Request) {
	userID, ok := userIDFromContext(request)
	if !ok {
		writeError(response, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	todoID := chi.URLParam(request, "todoID")

	fetched, err := router.svc.GetTodo(request.Context(), userID, todoID)
	if err != nil {
		router.writeTodoError(response, err)
		return
	}

	writeJSON(
		response,
		http.StatusOK,
		models.SuccessResponse{
			Success: true,
			Message: "Todo successfully retrieved",
			Data:    models.TodoData{Todo: *fetched},
		},
	)
}

// GetApitodos lists one page of the authenticated user's items.
// An empty page is a valid success, not an error.
func (router *Router) GetApitodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := userIDFromContext(request)
	if !ok {
		writeError(response, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	pagination, err := paginationFromQuery(request)
	if err != nil {
		writeError(response, http.StatusBadRequest, msgBadPaging)
		return
	}

	todos, applied, err := router.svc.ListTodos(request.Context(), userID, pagination)
	if err != nil {
		router.writeTodoError(response, err)
		return
	}

	writeJSON(
		response,
		http.StatusOK,
		models.SuccessResponse{
			Success: true,
			Message: "Todos successfully retrieved",
			Data: models.TodoListData{
				Todos:       todos,
				CurrentPage: applied.PageAsString(),
				RowsPerPage: applied.RowsPerPageAsString(),
			},
		},
	)
}

// GetPing checks the health of the storage layer.
func (router *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := router.svc.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `router.svc.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// GetApiInternalStats returns service totals for requests originating
// from the trusted subnet.
func (router *Router) GetApiInternalStats(response http.ResponseWriter, request *http.Request) {
	if router.ipChecker.IsTrustedSubnetEmpty() {
		writeError(response, http.StatusForbidden, msgForbidden)
		return
	}

	clientIP, err := router.ipChecker.GetClientIP(request)
	if err != nil || !router.ipChecker.Check(clientIP) {
		writeError(response, http.StatusForbidden, msgForbidden)
		return
	}

	stats, err := router.svc.GetInternalStats(request.Context())
	if err != nil {
		router.writeTodoError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, stats)
}

// writeTodoError maps service errors to HTTP statuses with fixed safe
// messages; underlying driver details are logged, never surfaced.
func (router *Router) writeTodoError(response http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(response, http.StatusBadRequest, validationErr.Error())

	case errors.Is(err, models.ErrTodoNotFound):
		writeError(response, http.StatusNotFound, msgTodoNotFound)

	default:
		logger.Log.Debugln("Storage error: ", zap.Error(err))
		writeError(response, http.StatusInternalServerError, msgServerError)
	}
}

func userIDFromContext(request *http.Request) (string, bool) {
	userID, ok := request.Context().Value(auth.UserIDKey).(string)

	return userID, ok && userID != ""
}

func paginationFromQuery(request *http.Request) (models.Pagination, error) {
	pagination := models.Pagination{}

	if page := request.URL.Query().Get("page"); page != "" {
		parsed, err := strconv.Atoi(page)
		if err != nil {
			return pagination, err
		}
		pagination.Page = parsed
	}

	if rowsPerPage := request.URL.Query().Get("rowsPerPage"); rowsPerPage != "" {
		parsed, err := strconv.Atoi(rowsPerPage)
		if err != nil {
			return pagination, err
		}
		pagination.RowsPerPage = parsed
	}

	return pagination, nil
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response: ", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(
		response,
		status,
		models.ErrorResponse{
			Success: false,
			Error:   message,
		},
	)
}
