package location

import "errors"

var (
	// ErrRoomNotFound is returned when a room name does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomExists is returned when adding a room whose name is taken.
	ErrRoomExists = errors.New("room already exists")

	// ErrInvalidName is returned when a room or home name is empty or too long.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidRoom is returned when room attributes fail validation.
	ErrInvalidRoom = errors.New("invalid room")
)
