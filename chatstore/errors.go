package chatstore

import "fmt"

// MalformedDataError reports a dataset payload whose top-level shape is
// invalid: the `results` field is missing or not a sequence. Elements
// inside a well-shaped sequence are trusted, per the loader contract.
type MalformedDataError struct {
	Reason string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed chat data: %s", e.Reason)
}

// UnknownRoomError reports an append against a room id that is not present
// in the loaded dataset. This is a caller contract violation, handled as a
// recoverable condition rather than a crash.
type UnknownRoomError struct {
	RoomID int
}

func (e *UnknownRoomError) Error() string {
	return fmt.Sprintf("unknown room id %d", e.RoomID)
}
