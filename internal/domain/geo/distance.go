// Package geo contains great-circle distance computation between a guess and
// a target point. This is a pure domain layer with zero external dependencies.
package geo

import (
	"math"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || math.IsNaN(p.Lat) {
		return shared.ErrLatitudeOutOfRange
	}
	if p.Lng < -180 || p.Lng > 180 || math.IsNaN(p.Lng) {
		return shared.ErrLongitudeOutOfRange
	}
	return nil
}

// NewPoint creates a validated Point.
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Distance returns the haversine great-circle distance between a and b in
// meters. The computation order is symmetric in a and b, so
// Distance(a, b) == Distance(b, a) bit-for-bit, and Distance(a, a) == 0.
func Distance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return haversine(a, b), nil
}

// haversine assumes both points are already validated.
func haversine(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	// sinLat*sinLat + cos(lat1)*cos(lat2)*sinLng*sinLng is symmetric because
	// sin is odd and squared, and cos(lat1)*cos(lat2) commutes only in value,
	// not in float order - so keep the multiplication order fixed by sorting
	// the operands.
	c1, c2 := math.Cos(lat1), math.Cos(lat2)
	if c2 < c1 {
		c1, c2 = c2, c1
	}

	h := sinLat*sinLat + c1*c2*sinLng*sinLng
	if h > 1 {
		h = 1
	}

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
