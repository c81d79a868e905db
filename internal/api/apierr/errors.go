package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/holdem/internal/model"
)

// APIError is the body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidSettings = "INVALID_SETTINGS"
	CodeTableNotFound   = "TABLE_NOT_FOUND"
	CodeTableFull       = "TABLE_FULL"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeGameInProgress  = "GAME_IN_PROGRESS"
	CodeServerClosed    = "SERVER_CLOSED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError is an error that already knows its response
type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

var internalError = &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}

// known maps domain sentinels to responses, checked in order with errors.Is
var known = []struct {
	err  error
	resp *httpError
}{
	{model.ErrTableNotFound, &httpError{http.StatusNotFound, APIError{CodeTableNotFound, "Table not found"}}},
	{model.ErrGameNotFound, &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}},
	{model.ErrTableFull, &httpError{http.StatusConflict, APIError{CodeTableFull, "Table is full"}}},
	{model.ErrGameInProgress, &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}},
	{model.ErrInvalidPassword, &httpError{http.StatusForbidden, APIError{CodeInvalidPassword, "Invalid table password"}}},
	{model.ErrInvalidBlinds, &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Small blind must be positive and at most the big blind"}}},
	{model.ErrInvalidStartingChips, &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Starting chips must cover the big blind"}}},
	{model.ErrInvalidMaxPlayers, &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Max players must be between 2 and 9"}}},
	{model.ErrInvalidTableName, &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Table name must be at most 40 characters"}}},
	{model.ErrServerClosed, &httpError{http.StatusServiceUnavailable, APIError{CodeServerClosed, "Server is shutting down"}}},
}

func resolve(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	for _, k := range known {
		if errors.Is(err, k.err) {
			return k.resp
		}
	}
	return internalError
}

// WriteError writes the error response err maps to
func WriteError(w http.ResponseWriter, err error) {
	he := resolve(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return resolve(err).status
}

// NewInvalidRequestError reports a request the server could not parse
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError reports an unexpected failure without leaking its cause
func NewInternalError() error {
	return internalError
}
