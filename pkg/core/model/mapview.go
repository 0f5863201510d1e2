// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// MapPhase is the centering state of a map view.
type MapPhase int

// Valid values for the MapPhase enum. There is no terminal phase.
const (
	MapAwaitingLocation MapPhase = iota // no coordinate is known yet
	MapCentered                         // centered on some coordinate
)

// String returns a string representation of the p map phase.
func (p MapPhase) String() string {
	if p == MapCentered {
		return "centered"
	}
	return "awaiting-location"
}

// TileLayer describes a raster tile layer. URL is a template with the
// {z}, {x}, and {y} placeholders (and optionally {s} for subdomains).
type TileLayer struct {
	URL         string
	Attribution string
}

// Marker is a station marker on the map. The Name, Address, and Slots
// fields are shown in the marker callout.
type Marker struct {
	OwnerID    string
	Coordinate Coordinate
	Name       string
	Address    string
	Slots      int
	Focused    bool
}

// MapView is everything which a map widget needs in order to render
// one view update.
// Center is meaningful only in the MapCentered phase and Recenter
// reports that the center has changed since the previous update, so
// the widget should move to Center with the Zoom level.
// UserMarker is non-nil only when no station is focused.
type MapView struct {
	Phase      MapPhase
	Center     Coordinate
	Zoom       int
	Recenter   bool
	Markers    []Marker
	UserMarker *Coordinate
	Tiles      TileLayer

	// ClosePopupOnOutsideClick asks the widget to close any open
	// marker callout when a click lands outside of the map surface.
	ClosePopupOnOutsideClick bool
}
