// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc_test

import (
	"context"
	"sync/atomic"

	"github.com/parksmart/parknow/pkg/core/model"
)

// fakeStations returns its stations (or err) after its gate is closed.
// A nil gate returns immediately.
type fakeStations struct {
	stations []model.Station
	err      error
	gate     chan struct{}
	calls    atomic.Int32
}

func (fs *fakeStations) Fetch(ctx context.Context) ([]model.Station, error) {
	fs.calls.Add(1)
	if fs.gate != nil {
		select {
		case <-fs.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fs.err != nil {
		return nil, fs.err
	}
	return fs.stations, nil
}

// fakeLocator behaves like fakeStations for the IP geolocation.
// A block locator waits for its ctx to be done.
type fakeLocator struct {
	coord model.Coordinate
	err   error
	gate  chan struct{}
	block bool
	calls atomic.Int32
	ip    atomic.Value
}

func (fl *fakeLocator) Locate(
	ctx context.Context, clientIP string,
) (model.Coordinate, error) {
	fl.calls.Add(1)
	fl.ip.Store(clientIP)
	if fl.block {
		<-ctx.Done()
		return model.Coordinate{}, ctx.Err()
	}
	if fl.gate != nil {
		select {
		case <-fl.gate:
		case <-ctx.Done():
			return model.Coordinate{}, ctx.Err()
		}
	}
	if fl.err != nil {
		return model.Coordinate{}, fl.err
	}
	return fl.coord, nil
}
