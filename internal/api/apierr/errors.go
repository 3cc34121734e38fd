package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/auth"
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
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUserExists          = "USER_EXISTS"
	CodeUserBanned          = "USER_BANNED"
	CodeBlocked             = "BLOCKED"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeSlugExists          = "SLUG_EXISTS"
	CodeInvalidGenre        = "INVALID_GENRE"
	CodeInvalidRating       = "INVALID_RATING"
	CodeNotGameOwner        = "NOT_GAME_OWNER"
	CodeAlreadyOwned        = "ALREADY_OWNED"
	CodeNotOwned            = "NOT_OWNED"
	CodePurchaseNotFound    = "PURCHASE_NOT_FOUND"
	CodeReviewNotFound      = "REVIEW_NOT_FOUND"
	CodeReviewExists        = "REVIEW_EXISTS"
	CodeRequestNotFound     = "REQUEST_NOT_FOUND"
	CodeRequestExists       = "REQUEST_EXISTS"
	CodeSelfRequest         = "SELF_REQUEST"
	CodeMessageNotFound     = "MESSAGE_NOT_FOUND"
	CodeSelfMessage         = "SELF_MESSAGE"
	CodeNotificationMissing = "NOTIFICATION_NOT_FOUND"
	CodeAchievementMissing  = "ACHIEVEMENT_NOT_FOUND"
	CodeAlreadyUnlocked     = "ALREADY_UNLOCKED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
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
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrUserExists):
		return &httpError{http.StatusConflict, APIError{CodeUserExists, "Username or email already taken"}}
	case errors.Is(err, model.ErrUserBanned):
		return &httpError{http.StatusForbidden, APIError{CodeUserBanned, "Account is banned"}}
	case errors.Is(err, model.ErrBlocked):
		return &httpError{http.StatusForbidden, APIError{CodeBlocked, "Action blocked by user settings"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameUnlisted):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrSlugExists):
		return &httpError{http.StatusConflict, APIError{CodeSlugExists, "A game with a similar title already exists"}}
	case errors.Is(err, model.ErrInvalidGenre):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGenre, "Unknown genre"}}
	case errors.Is(err, model.ErrInvalidRating):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRating, "Rating must be between 1 and 5"}}
	case errors.Is(err, model.ErrNotGameOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotGameOwner, "You do not manage this game"}}
	case errors.Is(err, model.ErrAlreadyOwned):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyOwned, "Game already owned"}}
	case errors.Is(err, model.ErrNotOwned):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwned, "Game not owned"}}
	case errors.Is(err, model.ErrPurchaseNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePurchaseNotFound, "Purchase not found"}}
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotOwned, "Library entry not found"}}
	case errors.Is(err, model.ErrReviewNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeReviewNotFound, "Review not found"}}
	case errors.Is(err, model.ErrReviewExists):
		return &httpError{http.StatusConflict, APIError{CodeReviewExists, "You have already reviewed this game"}}
	case errors.Is(err, model.ErrRequestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRequestNotFound, "Friend request not found"}}
	case errors.Is(err, model.ErrRequestExists):
		return &httpError{http.StatusConflict, APIError{CodeRequestExists, "Friend request already exists"}}
	case errors.Is(err, model.ErrSelfRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfRequest, "Cannot send a friend request to yourself"}}
	case errors.Is(err, model.ErrMessageNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMessageNotFound, "Message not found"}}
	case errors.Is(err, model.ErrSelfMessage):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfMessage, "Cannot message yourself"}}
	case errors.Is(err, model.ErrNotificationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotificationMissing, "Notification not found"}}
	case errors.Is(err, model.ErrAchievementNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAchievementMissing, "Achievement not found"}}
	case errors.Is(err, model.ErrAlreadyUnlocked):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyUnlocked, "Achievement already unlocked"}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Password is too short"}}
	case errors.Is(err, auth.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Username must be 3-20 letters, digits or underscores"}}
	case errors.Is(err, auth.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Invalid email address"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Invalid verification token"}}

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
