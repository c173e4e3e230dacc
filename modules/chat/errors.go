package chat

import "errors"

// Sentinel errors for directory and coordinator operations. All of them are
// connection-local conditions reported back on the triggering request; none
// terminate the process.
var (
	// ErrMissingField is returned when username or room is empty after trimming.
	ErrMissingField = errors.New("username and room are required")

	// ErrDuplicateUser is returned when the username is already live in that room.
	ErrDuplicateUser = errors.New("username is in use")

	// ErrContentRejected is returned when the moderation predicate rejects a message.
	ErrContentRejected = errors.New("content not allowed")

	// ErrUnknownUser is returned when a connection without a directory entry
	// attempts an operation, e.g. a send racing its own disconnect.
	ErrUnknownUser = errors.New("unknown user")

	// ErrConnectionExists is returned when a connection that already holds a
	// directory entry tries to join again. That can only happen through a
	// transport bug, so callers should drop the connection.
	ErrConnectionExists = errors.New("connection already joined")
)
