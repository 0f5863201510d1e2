// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// Models are kept free of serialization tags because the parking API
// wire format belongs to the adapter layer which parses and validates
// the raw records before converting them into these structs.
package model

import (
	"strconv"
	"strings"
)

// Station models a parking station as reported by the parking API.
// Only those fields which are used for searching, mapping, and the
// station cards are kept. Missing name and address are represented as
// empty strings. Latitude and Longitude are kept as their original
// decimal strings because a station with unparseable coordinates is
// still a valid card (it just cannot be placed on a map); see the
// Coordinate method.
type Station struct {
	OwnerID   string // unique within one fetch of the stations list
	Name      string // display name, may be empty
	Address   string // display address, may be empty
	Latitude  string // decimal degrees as a string
	Longitude string // decimal degrees as a string

	Pricing []Pricing // ordered hourly rates per vehicle type
	Reviews []Review  // reviews which are only used for averaging
	Plots   []Plot    // their count is reported as available slots
	Images  []Image   // optional image references
}

// Pricing is the hourly rate of parking one vehicle type.
// At most one entry per vehicle type is expected, but it is not
// enforced.
type Pricing struct {
	VehicleType string
	HourlyRate  float64
}

// Review holds the rating of one station review.
type Review struct {
	Rating float64
}

// Plot is an opaque parking plot of a station. Plots are only counted.
type Plot struct {
	ID string
}

// Image is a station image reference. Path may be relative to the
// images host or may be an absolute URL.
type Image struct {
	Path string
}

// Coordinate parses the Latitude and Longitude strings of s station
// and returns its geo-location. The ok return value is false if either
// of them is not a valid decimal number or if the parsed coordinate is
// out of range. Such stations are excluded from the map markers.
func (s Station) Coordinate() (c Coordinate, ok bool) {
	var err error
	c.Lat, err = strconv.ParseFloat(strings.TrimSpace(s.Latitude), 64)
	if err != nil {
		return Coordinate{}, false
	}
	c.Lon, err = strconv.ParseFloat(strings.TrimSpace(s.Longitude), 64)
	if err != nil {
		return Coordinate{}, false
	}
	if !c.Valid() {
		return Coordinate{}, false
	}
	return c, true
}

// AverageRating returns the arithmetic mean of the reviews ratings,
// or zero if s has no reviews.
func (s Station) AverageRating() float64 {
	if len(s.Reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.Reviews {
		sum += r.Rating
	}
	return sum / float64(len(s.Reviews))
}

// SlotsAvailable returns the number of plots of s station.
// No capacity or occupancy semantics are modeled.
func (s Station) SlotsAvailable() int {
	return len(s.Plots)
}

// ImageURLs resolves the s station images against the host prefix.
// Absolute http(s) references are returned as is and empty references
// are skipped. Exactly one slash is kept between prefix and the path.
func (s Station) ImageURLs(prefix string) []string {
	urls := make([]string, 0, len(s.Images))
	for _, img := range s.Images {
		p := strings.TrimSpace(img.Path)
		switch {
		case p == "":
			continue
		case strings.HasPrefix(p, "http://"),
			strings.HasPrefix(p, "https://"):
			urls = append(urls, p)
		default:
			urls = append(urls, strings.TrimRight(prefix, "/")+
				"/"+strings.TrimLeft(p, "/"))
		}
	}
	return urls
}
