package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a record ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when creating a record with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidDeviceType is returned when a device type is not recognised.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = errors.New("device: invalid status")

	// ErrInvalidRecord is returned when a record violates the lifecycle
	// invariant (collected_at present iff status is collected, and not
	// earlier than registered_at).
	ErrInvalidRecord = errors.New("device: invalid record")

	// ErrStorage is returned when the durable store cannot be read or
	// written. The in-memory state may still have been updated; callers
	// decide whether to surface or retry.
	ErrStorage = errors.New("device: storage failure")
)
