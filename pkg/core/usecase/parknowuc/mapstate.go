// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import "github.com/parksmart/parknow/pkg/core/model"

// DefaultZoom is the zoom level which is used when a map is centered.
const DefaultZoom = 15

// MapState is the centering state machine of a map view.
// It starts in the model.MapAwaitingLocation phase and moves to the
// model.MapCentered phase as soon as some coordinate is resolved.
// Afterwards, it stays centered forever and Recenter is set whenever
// the resolved center differs from the previous one.
type MapState struct {
	Phase    model.MapPhase
	Center   model.Coordinate
	Zoom     int
	Recenter bool
}

// ResolveCenter chooses the map center. The focused station takes
// precedence if its coordinate can be parsed, then the user location.
// It returns nil when neither of them is available.
func ResolveCenter(
	focused *model.Station, user *model.UserLocation,
) *model.Coordinate {
	if focused != nil {
		if c, ok := focused.Coordinate(); ok {
			return &c
		}
	}
	if user != nil {
		c := user.Coordinate
		return &c
	}
	return nil
}

// Next computes the successor state of m for the given resolved
// center. A nil center keeps the current center (or keeps waiting).
func (m MapState) Next(center *model.Coordinate) MapState {
	next := m
	next.Recenter = false
	if next.Zoom == 0 {
		next.Zoom = DefaultZoom
	}
	if center == nil {
		return next
	}
	if m.Phase == model.MapAwaitingLocation || m.Center != *center {
		next.Phase = model.MapCentered
		next.Center = *center
		next.Recenter = true
	}
	return next
}
