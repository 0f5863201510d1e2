// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the expected interfaces from the repository
// layer. These interfaces are implemented by the adapter layer, so the
// use cases layer may remain unaware of the parking API and geolocation
// services wire formats and transports.
package repo

import (
	"context"

	"github.com/parksmart/parknow/pkg/core/model"
)

// Stations represents the parking stations source.
// Fetch performs one read of the whole stations collection. It does
// not paginate, cache, or retry. Returned stations are already parsed
// and validated; records which lacked required fields are dropped.
// Failures should wrap a cerr.NetworkFailure error.
type Stations interface {
	Fetch(ctx context.Context) ([]model.Station, error)
}

// Locator resolves an approximate user coordinate from the client IP
// address. An empty clientIP or a non-public address asks the locator
// to resolve the coordinate of the caller itself.
type Locator interface {
	Locate(ctx context.Context, clientIP string) (model.Coordinate, error)
}
