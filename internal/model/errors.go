package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrUserBanned   = errors.New("account is banned")
	ErrBlocked      = errors.New("user is blocked")

	// Catalog errors
	ErrGameNotFound  = errors.New("game not found")
	ErrSlugExists    = errors.New("a game with a similar title already exists")
	ErrGameUnlisted  = errors.New("game is not published")
	ErrInvalidGenre  = errors.New("invalid genre")
	ErrNotGameOwner  = errors.New("game belongs to another developer")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// Commerce errors
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrAlreadyOwned     = errors.New("game already owned")
	ErrNotOwned         = errors.New("game not owned")
	ErrEntryNotFound    = errors.New("library entry not found")

	// Review errors
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("game already reviewed by this user")

	// Social errors
	ErrRequestNotFound = errors.New("friend request not found")
	ErrRequestExists   = errors.New("friend request already exists")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")

	// Chat errors
	ErrMessageNotFound = errors.New("message not found")
	ErrSelfMessage     = errors.New("cannot message yourself")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Achievement errors
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrAlreadyUnlocked     = errors.New("achievement already unlocked")

	// Validation
	ErrValidation = errors.New("validation failed")
)
