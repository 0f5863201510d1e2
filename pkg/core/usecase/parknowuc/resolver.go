// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import (
	"context"
	"log/slog"
	"time"

	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/repo"
)

// DefaultFallback is the fixed coordinate which is used when neither
// the device nor the IP geolocation could resolve the user location.
var DefaultFallback = model.Coordinate{Lat: 9.9312, Lon: 76.2673}

// Resolver realizes the geolocation fallback chain. The device
// coordinate (if reported by the client) takes precedence. Otherwise,
// the IP locator is asked (if configured) within a bounded wait and
// at last, the fixed fallback coordinate is used. Resolve never fails.
type Resolver struct {
	locator  repo.Locator
	fallback model.Coordinate
	timeout  time.Duration
}

// Resolve runs the fallback chain once and returns the resolved user
// location. The device argument may be nil when the client had no
// geolocation capability or its request was denied.
func (r *Resolver) Resolve(
	ctx context.Context, device *model.Coordinate, clientIP string,
) model.UserLocation {
	if device != nil {
		if device.Valid() {
			return model.UserLocation{
				Coordinate: *device,
				Source:     model.LocationSourceDevice,
			}
		}
		log.Debug(ctx, "ignoring invalid device coordinate",
			log.Valuer("device", *device),
		)
	}
	if r.locator != nil {
		if c, ok := r.locate(ctx, clientIP); ok {
			return model.UserLocation{
				Coordinate: c,
				Source:     model.LocationSourceIP,
			}
		}
	}
	return model.UserLocation{
		Coordinate: r.fallback,
		Source:     model.LocationSourceFallback,
	}
}

func (r *Resolver) locate(
	ctx context.Context, clientIP string,
) (model.Coordinate, bool) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	c, err := r.locator.Locate(ctx, clientIP)
	switch {
	case err != nil:
		log.Debug(ctx, "IP geolocation failed, using fallback",
			slog.String("client_ip", clientIP), log.Err("err", err),
		)
		return model.Coordinate{}, false
	case !c.Valid():
		log.Debug(ctx, "IP geolocation returned invalid coordinate",
			slog.String("client_ip", clientIP), log.Valuer("coord", c),
		)
		return model.Coordinate{}, false
	}
	return c, true
}
