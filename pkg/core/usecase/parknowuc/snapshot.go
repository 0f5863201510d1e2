// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import "github.com/parksmart/parknow/pkg/core/model"

// Result is the single resolution of a one-shot asynchronous call.
// Exactly one of its Value or Err fields is meaningful; a non-nil Err
// means failure.
type Result[T any] struct {
	Value T
	Err   error
}

// Snapshot is an immutable view state. Its input fields (Query,
// Stations, FetchErr, and User) are only changed by the Update method
// which also recomputes the derived fields (Ranked, Focused, and Map)
// in the same step, so no snapshot may carry a stale focus.
// Callers must not modify the slices of a snapshot.
type Snapshot struct {
	Query          string
	Stations       []model.Station
	StationsLoaded bool  // the station fetch has resolved
	FetchErr       error // non-nil if the station fetch has failed
	User           *model.UserLocation

	Ranked  []model.Station
	Focused *model.Station
	Map     MapState

	// focusIdx is the index of Focused in Stations. Owner identifiers
	// are not guaranteed to be unique, so markers are matched by index.
	focusIdx int
}

// Loaded returns true if both the station fetch and the user location
// resolution have completed (successfully or not).
func (s Snapshot) Loaded() bool {
	return s.StationsLoaded && s.User != nil
}

// Event is one input of the view state machine.
type Event interface {
	apply(s *Snapshot)
}

// QueryChanged event is raised whenever the search text changes.
type QueryChanged struct {
	Query string
}

func (e QueryChanged) apply(s *Snapshot) {
	s.Query = e.Query
}

// StationsFetched event carries the result of the station fetch.
// On failure, the stations list is left empty and the error is kept,
// so it can be shown as an inline message.
type StationsFetched struct {
	Result Result[[]model.Station]
}

func (e StationsFetched) apply(s *Snapshot) {
	s.StationsLoaded = true
	if e.Result.Err != nil {
		s.Stations = nil
		s.FetchErr = e.Result.Err
		return
	}
	s.Stations = e.Result.Value
	s.FetchErr = nil
}

// LocationResolved event carries the resolved user location.
type LocationResolved struct {
	Location model.UserLocation
}

func (e LocationResolved) apply(s *Snapshot) {
	loc := e.Location
	s.User = &loc
}

// Update applies the ev event on a copy of s and returns it after
// recomputing the ranked stations, focused station, and map state.
// The s snapshot itself is not modified.
func (s Snapshot) Update(ev Event) Snapshot {
	next := s
	ev.apply(&next)
	next.Ranked, next.focusIdx = next.Stations, -1
	if next.Query != "" {
		order := rankOrder(next.Stations, next.Query)
		next.Ranked = pick(next.Stations, order)
		if len(order) > 0 {
			next.focusIdx = order[0]
		}
	}
	next.Focused = Focus(next.Query, next.Ranked)
	next.Map = s.Map.Next(ResolveCenter(next.Focused, next.User))
	return next
}
