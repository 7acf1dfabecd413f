package domain

import "github.com/golang/geo/s2"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return the coordinates as an s2 point on the unit sphere.
func (c Coordinates) LatLng() s2.LatLng { return s2.LatLngFromDegrees(c.Lat, c.Lng) }
