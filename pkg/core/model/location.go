// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// LocationSource specifies which step of the geolocation fallback
// chain produced a user location. Although this enum is numeric, it is
// (de)serialized as a string for readability, see MarshalText.
type LocationSource int

// Valid values for the LocationSource enum, in the order of their
// precedence in the fallback chain.
const (
	LocationSourceInvalid LocationSource = iota // zero value is invalid

	LocationSourceDevice   // reported by the device itself
	LocationSourceIP       // looked up from the client IP address
	LocationSourceFallback // fixed default coordinate
)

// ErrUnknownLocationSource indicates that a given string may not be
// parsed as a known location source.
var ErrUnknownLocationSource = errors.New("unknown location source")

// LocationSourceError indicates an invalid location source value.
type LocationSourceError int

// Error implements the error interface.
func (e LocationSourceError) Error() string {
	return fmt.Sprintf("invalid location source: %d", e)
}

// Validate returns nil if ls value is valid. For invalid values, an
// instance of the LocationSourceError will be returned.
func (ls LocationSource) Validate() error {
	switch ls {
	case LocationSourceDevice, LocationSourceIP, LocationSourceFallback:
		return nil
	default:
		return LocationSourceError(ls)
	}
}

// String converts the LocationSource enum to a string.
// Invalid location source causes a panic.
func (ls LocationSource) String() string {
	switch ls {
	case LocationSourceDevice:
		return "device"
	case LocationSourceIP:
		return "ip"
	case LocationSourceFallback:
		return "fallback"
	default:
		panic(LocationSourceError(ls))
	}
}

// ParseLocationSource parses the given string and returns a
// LocationSource. For invalid strings, LocationSourceInvalid and
// ErrUnknownLocationSource will be returned.
func ParseLocationSource(s string) (LocationSource, error) {
	switch s {
	case "device":
		return LocationSourceDevice, nil
	case "ip":
		return LocationSourceIP, nil
	case "fallback":
		return LocationSourceFallback, nil
	default:
		return LocationSourceInvalid, ErrUnknownLocationSource
	}
}

// MarshalText encodes a valid ls location source as its String.
func (ls LocationSource) MarshalText() ([]byte, error) {
	if err := ls.Validate(); err != nil {
		return nil, err
	}
	return []byte(ls.String()), nil
}

// UnmarshalText decodes a location source which was encoded by the
// MarshalText method.
func (ls *LocationSource) UnmarshalText(data []byte) error {
	parsed, err := ParseLocationSource(string(data))
	if err != nil {
		return err
	}
	*ls = parsed
	return nil
}

// UserLocation is a resolved user coordinate in addition to the
// fallback chain step which has produced it.
type UserLocation struct {
	Coordinate Coordinate
	Source     LocationSource
}
