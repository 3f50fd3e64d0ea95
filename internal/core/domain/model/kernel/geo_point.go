package kernel

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

var ErrGeoPointIsNotConstructed = errors.New("GeoPoint must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate attached to tracking events.
type GeoPoint struct {
	lat           float64
	lng           float64
	isConstructed bool
}

// NewGeoPoint validates latitude and longitude ranges.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if lat < LatitudeMin || lat > LatitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	if lng < LongitudeMin || lng > LongitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lng, LongitudeMin, LongitudeMax)
	}
	return GeoPoint{lat: lat, lng: lng, isConstructed: true}, nil
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lng == other.lng
}

func (p GeoPoint) Validate() error {
	if !p.isConstructed {
		return ErrGeoPointIsNotConstructed
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.lat, p.lng)
}
