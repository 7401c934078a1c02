package device

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength = 100
)

// Pre-computed validation sets for O(1) lookups.
var (
	validDeviceTypes map[DeviceType]struct{}
	validStatuses    map[Status]struct{}
)

func init() {
	validDeviceTypes = make(map[DeviceType]struct{}, len(AllDeviceTypes()))
	for _, t := range AllDeviceTypes() {
		validDeviceTypes[t] = struct{}{}
	}

	validStatuses = make(map[Status]struct{}, len(AllStatuses()))
	for _, s := range AllStatuses() {
		validStatuses[s] = struct{}{}
	}
}

// ValidateName checks that a device name is non-empty and within length limits.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateType checks that a device type is one of the known values.
func ValidateType(t DeviceType) error {
	if _, ok := validDeviceTypes[t]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
	}
	return nil
}

// ValidateStatus checks that a status is one of the known values.
func ValidateStatus(s Status) error {
	if _, ok := validStatuses[s]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return nil
}

// ValidateRecord performs full validation of a record, including the
// lifecycle invariant. It is applied both before persisting and when
// loading rows back from storage, so malformed persisted data is
// rejected rather than trusted.
func ValidateRecord(r *Record) error {
	if r == nil {
		return ErrInvalidRecord
	}
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if err := ValidateType(r.Type); err != nil {
		return err
	}
	if err := ValidateStatus(r.Status); err != nil {
		return err
	}
	if r.RegisteredAt.IsZero() {
		return fmt.Errorf("%w: missing registered_at", ErrInvalidRecord)
	}

	// collected_at is present if and only if the record is collected,
	// and never precedes registration.
	switch r.Status {
	case StatusCollected:
		if r.CollectedAt == nil {
			return fmt.Errorf("%w: collected record missing collected_at", ErrInvalidRecord)
		}
		if r.CollectedAt.Before(r.RegisteredAt) {
			return fmt.Errorf("%w: collected_at precedes registered_at", ErrInvalidRecord)
		}
	case StatusRegistered:
		if r.CollectedAt != nil {
			return fmt.Errorf("%w: registered record has collected_at", ErrInvalidRecord)
		}
	}

	return nil
}

// GenerateID creates a new unique record identifier (UUID v4).
func GenerateID() string {
	return uuid.New().String()
}
