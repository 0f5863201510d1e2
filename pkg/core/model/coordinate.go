// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"log/slog"
	"math"
)

// EarthRadiusKm is the mean Earth radius which is used by the
// haversine great-circle distance computations.
const EarthRadiusKm = 6371.0

// Coordinate represents a geographical location with a latitude and
// longitude, both in decimal degrees. It is produced either by the
// geolocation resolver (the user location) or by parsing the textual
// latitude and longitude of a Station.
type Coordinate struct {
	Lat, Lon float64 // latitude and longitude of the geo-location
}

// Valid returns true if c is a finite coordinate with its latitude
// in [-90, 90] and its longitude in [-180, 180] degrees.
func (c Coordinate) Valid() bool {
	switch {
	case math.IsNaN(c.Lat) || math.IsNaN(c.Lon):
		return false
	case math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0):
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceTo returns the haversine distance between c and other
// coordinates in kilometers.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return Distance(c.Lat, c.Lon, other.Lat, other.Lon)
}

// LogValue implements slog.LogValuer, so a coordinate can be logged as
// a group of lat and lon attributes.
func (c Coordinate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("lat", c.Lat),
		slog.Float64("lon", c.Lon),
	)
}

// Distance computes the great-circle distance between the (lat1, lon1)
// and (lat2, lon2) points in kilometers using the haversine formula
// over a sphere with EarthRadiusKm radius. Arguments are in degrees.
// The result is symmetric and is zero for coincident points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)
	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
