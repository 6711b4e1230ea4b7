package cnst

import "errors"

var (
	// ErrNotFound is returned when a store key has no persisted blob
	ErrNotFound = errors.New("key not found")
	// ErrCorruptData is returned when a persisted blob cannot be decoded
	ErrCorruptData = errors.New("corrupt persisted data")
	// ErrCloudInactive is returned when a cloud-only operation runs without an active connection
	ErrCloudInactive = errors.New("cloud connection not active")
)
