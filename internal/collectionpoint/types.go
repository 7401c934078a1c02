// Package collectionpoint serves the static catalog of physical
// drop-off locations shown on the map page. Points are seeded by
// migration and read-only at runtime.
package collectionpoint

import "errors"

// ErrPointNotFound is returned when a collection point does not exist.
var ErrPointNotFound = errors.New("collectionpoint: point not found")

// ErrStorage indicates a storage-layer failure.
var ErrStorage = errors.New("collectionpoint: storage error")

// Point is one physical drop-off location.
type Point struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// AcceptedTypes lists the device type tags the point takes in.
	AcceptedTypes []string `json:"acceptedTypes"`
	// Hours is a human-readable opening-hours string.
	Hours string `json:"hours"`
}
