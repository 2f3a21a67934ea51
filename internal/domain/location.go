package domain

import (
	"errors"
	"strings"
)

// ErrMissingArgument reports a location built with neither coordinates
// nor an address.
var ErrMissingArgument = errors.New("location requires coordinates or an address")

// Location is an immutable trip endpoint: geographic coordinates, a
// free-text address, or both.
type Location struct {
	coords  *Coordinates
	address string
}

// NewLocation builds a location from any combination of coordinates and
// address. At least one of the two must be present.
func NewLocation(coords *Coordinates, address string) (Location, error) {
	address = strings.TrimSpace(address)
	if coords == nil && address == "" {
		return Location{}, ErrMissingArgument
	}

	loc := Location{address: address}
	if coords != nil {
		c := *coords
		loc.coords = &c
	}
	return loc, nil
}

// LocationFromCoords builds a location from a coordinate pair.
func LocationFromCoords(lat, lng float64) Location {
	return Location{coords: &Coordinates{Lat: lat, Lng: lng}}
}

// LocationFromAddress builds a location from a free-text address.
func LocationFromAddress(address string) (Location, error) {
	return NewLocation(nil, address)
}

// Coords returns the coordinate pair when present.
func (l Location) Coords() (Coordinates, bool) {
	if l.coords == nil {
		return Coordinates{}, false
	}
	return *l.coords, true
}

// Address returns the free-text address, possibly empty.
func (l Location) Address() string { return l.address }

// Endpoint returns the value submitted to the routing provider:
// "lat,lng" when coordinates are present, the address otherwise.
func (l Location) Endpoint() string {
	if l.coords != nil {
		return l.coords.String()
	}
	return l.address
}

// IsZero reports whether the location carries neither representation.
func (l Location) IsZero() bool { return l.coords == nil && l.address == "" }
