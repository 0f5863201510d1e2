// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import (
	"strings"

	"github.com/parksmart/parknow/pkg/core/model"
)

// Rank filters and orders stations for the query free-text search.
//
// An empty query returns stations itself, keeping their original order.
// Otherwise, only stations whose name or address contains the lower
// cased query (case-insensitively) are kept and those whose name or
// address starts with the query are moved before the rest. Relative
// order of stations with the same starts-with status is preserved.
//
// Rank never modifies the stations slice, so it can be called on every
// keystroke and returns equal results for equal inputs.
func Rank(stations []model.Station, query string) []model.Station {
	if query == "" {
		return stations
	}
	return pick(stations, rankOrder(stations, query))
}

// rankOrder returns the indices of stations which match the non-empty
// query, in their ranked order.
func rankOrder(stations []model.Station, query string) []int {
	q := strings.ToLower(query)
	prefixed := make([]int, 0, len(stations))
	var others []int
	for i, s := range stations {
		name := strings.ToLower(s.Name)
		addr := strings.ToLower(s.Address)
		switch {
		case strings.HasPrefix(name, q), strings.HasPrefix(addr, q):
			prefixed = append(prefixed, i)
		case strings.Contains(name, q), strings.Contains(addr, q):
			others = append(others, i)
		}
	}
	return append(prefixed, others...)
}

func pick(stations []model.Station, order []int) []model.Station {
	picked := make([]model.Station, 0, len(order))
	for _, i := range order {
		picked = append(picked, stations[i])
	}
	return picked
}

// Focus returns the station which a map should focus on, that is,
// the first ranked station. If the query is empty or nothing was
// ranked, no station is focused and nil is returned.
// The returned pointer refers to a copy, not an element of ranked.
func Focus(query string, ranked []model.Station) *model.Station {
	if query == "" || len(ranked) == 0 {
		return nil
	}
	s := ranked[0]
	return &s
}
