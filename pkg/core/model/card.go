// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// StationCard is the presentation of one station in the cards list.
// DistanceKm is nil when the user location is not known yet or when
// the station coordinate cannot be parsed.
type StationCard struct {
	Station       Station
	DistanceKm    *float64
	AverageRating float64
	Slots         int
	ImageURLs     []string
	Mappable      bool
}

// NewStationCard creates a card for s station. The user location may
// be nil and images are resolved against the imageHost prefix.
func NewStationCard(
	s Station, user *Coordinate, imageHost string,
) StationCard {
	card := StationCard{
		Station:       s,
		AverageRating: s.AverageRating(),
		Slots:         s.SlotsAvailable(),
		ImageURLs:     s.ImageURLs(imageHost),
	}
	c, ok := s.Coordinate()
	card.Mappable = ok
	if ok && user != nil {
		d := user.DistanceTo(c)
		card.DistanceKm = &d
	}
	return card
}
