package model

import "fmt"

// InvalidID is returned by inserts that did not produce a row.
// 有効な ID は常に正の値になるため、-1 は区別可能です。
const InvalidID int64 = -1

// Entity is a catalogue item keyed by a storage-assigned surrogate id.
// Key() == 0 means the entity has not been persisted yet.
type Entity interface {
	Key() int64
	Validate() error
}

// ValidationError reports a required or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
