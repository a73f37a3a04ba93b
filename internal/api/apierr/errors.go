package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidBucket        = "INVALID_BUCKET"
	CodeBucketNotFound       = "BUCKET_NOT_FOUND"
	CodeBucketDenied         = "BUCKET_DENIED"
	CodeFileNotFound         = "FILE_NOT_FOUND"
	CodeTokenSpaceExhausted  = "TOKEN_SPACE_EXHAUSTED"
	CodeNoActiveGame         = "NO_ACTIVE_GAME"
	CodeInvalidCell          = "INVALID_CELL"
	CodeCellTaken            = "CELL_TAKEN"
	CodeNotYourTurn          = "NOT_YOUR_TURN"
	CodeNotAPlayer           = "NOT_A_PLAYER"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Users
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}

	// Media and short links
	case errors.Is(err, model.ErrInvalidBucket):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBucket, "Invalid bucket or file name"}}
	case errors.Is(err, model.ErrBucketNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBucketNotFound, "Bucket not found"}}
	case errors.Is(err, model.ErrBucketDenied):
		return &httpError{http.StatusForbidden, APIError{CodeBucketDenied, "Not allowed"}}
	case errors.Is(err, model.ErrFileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFileNotFound, "File not found"}}
	case errors.Is(err, model.ErrTokenSpaceExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeTokenSpaceExhausted, "No short link available, try again later"}}

	// Tic-tac-toe
	case errors.Is(err, model.ErrNoActiveGame):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveGame, "No active game"}}
	case errors.Is(err, model.ErrInvalidCell):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCell, "Invalid cell"}}
	case errors.Is(err, model.ErrCellTaken):
		return &httpError{http.StatusConflict, APIError{CodeCellTaken, "Cell taken"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeNotAPlayer, "Invalid player"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}

	case errors.Is(err, model.ErrNotificationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotificationNotFound, "Notification not found"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
