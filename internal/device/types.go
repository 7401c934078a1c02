package device

import "time"

// Record represents one electronic item submitted for recycling.
// It carries the full registration/collection lifecycle of the item.
type Record struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Classification
	Type DeviceType `json:"type"`

	// Lifecycle
	Status Status `json:"status"`

	// RegisteredAt is set at creation and never changes.
	RegisteredAt time.Time `json:"registeredAt"`

	// CollectedAt is set exactly once, when the record transitions to
	// StatusCollected. It is nil while the record is still registered.
	CollectedAt *time.Time `json:"collectedAt,omitempty"`
}

// Clone returns an independent copy of the Record.
// The CollectedAt pointer is duplicated so callers cannot mutate
// the store's cached copy through it.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cpy := *r
	if r.CollectedAt != nil {
		t := *r.CollectedAt
		cpy.CollectedAt = &t
	}
	return &cpy
}

// Collected reports whether the record has completed its lifecycle.
func (r *Record) Collected() bool {
	return r.Status == StatusCollected
}

// DeviceType classifies the kind of electronic item being recycled.
type DeviceType string //nolint:revive // device.DeviceType is clearer than device.Type in calling code

// DeviceType constants.
const (
	DeviceTypeSmartphone DeviceType = "smartphone"
	DeviceTypeLaptop     DeviceType = "laptop"
	DeviceTypeTablet     DeviceType = "tablet"
	DeviceTypeTV         DeviceType = "tv"
	DeviceTypePrinter    DeviceType = "printer"
	DeviceTypeOther      DeviceType = "other"
)

// AllDeviceTypes returns all valid device type values.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeSmartphone, DeviceTypeLaptop, DeviceTypeTablet,
		DeviceTypeTV, DeviceTypePrinter, DeviceTypeOther,
	}
}

// Label returns a human-readable label for the device type,
// used when composing notification messages and simulated names.
func (t DeviceType) Label() string {
	switch t {
	case DeviceTypeSmartphone:
		return "Smartphone"
	case DeviceTypeLaptop:
		return "Laptop"
	case DeviceTypeTablet:
		return "Tablet"
	case DeviceTypeTV:
		return "TV"
	case DeviceTypePrinter:
		return "Printer"
	case DeviceTypeOther:
		return "Device"
	default:
		return string(t)
	}
}

// Status represents the lifecycle state of a record.
// A record starts at StatusRegistered and transitions at most once,
// to StatusCollected. StatusCollected is terminal.
type Status string

// Status constants.
const (
	StatusRegistered Status = "registered"
	StatusCollected  Status = "collected"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusRegistered, StatusCollected}
}
