// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/parksmart/parknow/pkg/core/model"
)

// Option is a functional option for the Park Now use case.
type Option func(uc *UseCase) error

// WithFallback option configures the fixed coordinate which is used
// as the last step of the geolocation fallback chain.
func WithFallback(c model.Coordinate) Option {
	return func(uc *UseCase) error {
		if !c.Valid() {
			return fmt.Errorf("fallback coordinate (%v) is invalid", c)
		}
		if uc.fallback != nil {
			return errors.New("fallback is already configured")
		}
		uc.fallback = &c
		return nil
	}
}

// WithLocateTimeout option bounds the wait for the IP geolocation.
func WithLocateTimeout(timeout time.Duration) Option {
	return func(uc *UseCase) error {
		if d := int64(timeout); d <= 0 {
			return fmt.Errorf("timeout (%d) is not positive", d)
		}
		if uc.resolver.timeout != 0 {
			return errors.New("locate timeout is already configured")
		}
		uc.resolver.timeout = timeout
		return nil
	}
}

// WithImageHost option configures the prefix which relative station
// image references are resolved against.
func WithImageHost(host string) Option {
	return func(uc *UseCase) error {
		if host == "" {
			return errors.New("image host is empty")
		}
		if uc.imageHost != "" {
			return errors.New("image host is already configured")
		}
		uc.imageHost = host
		return nil
	}
}

// WithTileLayer option configures the map raster tile layer.
// Both of the URL template and attribution text are required.
func WithTileLayer(tiles model.TileLayer) Option {
	return func(uc *UseCase) error {
		if tiles.URL == "" || tiles.Attribution == "" {
			return errors.New("tile layer URL and attribution are required")
		}
		if uc.tiles != (model.TileLayer{}) {
			return errors.New("tile layer is already configured")
		}
		uc.tiles = tiles
		return nil
	}
}

// WithZoom option configures the zoom level of a centered map.
func WithZoom(zoom int) Option {
	return func(uc *UseCase) error {
		if zoom < 1 || zoom > 19 {
			return fmt.Errorf("zoom (%d) is not in [1, 19]", zoom)
		}
		if uc.zoom != 0 {
			return errors.New("zoom is already configured")
		}
		uc.zoom = zoom
		return nil
	}
}
