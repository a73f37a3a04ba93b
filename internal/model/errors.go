package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Rotation errors
	ErrInvalidBucket       = errors.New("invalid bucket")
	ErrTokenSpaceExhausted = errors.New("rotation token space exhausted")

	// Media errors
	ErrBucketNotFound = errors.New("bucket not found")
	ErrBucketDenied   = errors.New("bucket access denied")
	ErrFileNotFound   = errors.New("file not found")

	// Game errors
	ErrNoActiveGame  = errors.New("no active game")
	ErrInvalidCell   = errors.New("invalid cell")
	ErrCellTaken     = errors.New("cell taken")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrGameNotFound  = errors.New("game not found")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Embed preference errors
	ErrEmbedPrefsNotFound = errors.New("embed preferences not set")
)
