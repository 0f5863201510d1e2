// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package parknowuc contains the Park Now UseCase which supports
// finding a parking station near the user:
//  1. Listing the parking stations as cards,
//  2. Searching stations by their name or address, ranking prefix
//     matches first and focusing the map on the best match,
//  3. Resolving the user location with a fallback chain and
//     describing the map view (center, zoom, and markers).
//
// A view is modeled as an immutable Snapshot which is updated by
// a single Update function per event (see the Session type).
package parknowuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/repo"
)

// UseCase represents the Park Now use case. It holds the stations
// repository, the geolocation resolver, and the map presentation
// settings.
type UseCase struct {
	stations repo.Stations
	resolver *Resolver

	fallback  *model.Coordinate
	imageHost string
	tiles     model.TileLayer
	zoom      int
}

// New instantiates a Park Now use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
// The l locator may be nil in order to disable the IP geolocation.
func New(s repo.Stations, l repo.Locator, opts ...Option) (
	*UseCase, error,
) {
	if s == nil {
		return nil, errors.New("stations repository is nil")
	}
	uc := &UseCase{
		stations: s,
		resolver: &Resolver{locator: l},
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	uc.resolver.fallback = DefaultFallback
	if uc.fallback != nil {
		uc.resolver.fallback = *uc.fallback
	}
	if uc.zoom == 0 {
		uc.zoom = DefaultZoom
	}
	if uc.tiles == (model.TileLayer{}) {
		uc.tiles = DefaultTileLayer
	}
	return uc, nil
}

// DefaultTileLayer is the OpenStreetMap standard raster tile layer.
var DefaultTileLayer = model.TileLayer{
	URL: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">` +
		`OpenStreetMap</a>`,
}

// Stations use case fetches all stations once, so they can be listed
// as cards. Stations with unparseable coordinates are kept.
func (uc *UseCase) Stations(ctx context.Context) ([]model.Station, error) {
	stations, err := uc.stations.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}
	return stations, nil
}

// NewSession creates a view session. The device coordinate may be nil
// if the client could not report its own location and clientIP is used
// for the IP geolocation fallback. The session must be started by its
// Start method and should be closed when the view is torn down.
func (uc *UseCase) NewSession(
	device *model.Coordinate, clientIP string,
) *Session {
	return &Session{
		id:       uuid.New(),
		uc:       uc,
		device:   device,
		clientIP: clientIP,
		snap:     Snapshot{Map: MapState{Zoom: uc.zoom}},
		changed:  make(chan struct{}),
	}
}

// Locate resolves the user location using the fallback chain.
func (uc *UseCase) Locate(
	ctx context.Context, device *model.Coordinate, clientIP string,
) model.UserLocation {
	return uc.resolver.Resolve(ctx, device, clientIP)
}

// View presents the snap snapshot as the ranked station cards and the
// map view. Cards carry their distance from the user location when it
// is known.
func (uc *UseCase) View(snap Snapshot) View {
	var user *model.Coordinate
	if snap.User != nil {
		c := snap.User.Coordinate
		user = &c
	}
	v := View{
		Query:    snap.Query,
		Cards:    uc.Cards(snap.Ranked, user),
		User:     snap.User,
		FetchErr: snap.FetchErr,
	}
	if snap.Focused != nil {
		card := model.NewStationCard(*snap.Focused, user, uc.imageHost)
		v.Focused = &card
	}
	v.Map = uc.mapView(snap)
	return v
}

// Cards presents stations as cards in their given order. The user
// location may be nil and then no distance is computed.
func (uc *UseCase) Cards(
	stations []model.Station, user *model.Coordinate,
) []model.StationCard {
	cards := make([]model.StationCard, 0, len(stations))
	for _, s := range stations {
		cards = append(cards, model.NewStationCard(s, user, uc.imageHost))
	}
	return cards
}

func (uc *UseCase) mapView(snap Snapshot) model.MapView {
	mv := model.MapView{
		Phase:                    snap.Map.Phase,
		Center:                   snap.Map.Center,
		Zoom:                     snap.Map.Zoom,
		Recenter:                 snap.Map.Recenter,
		Markers:                  make([]model.Marker, 0, len(snap.Stations)),
		Tiles:                    uc.tiles,
		ClosePopupOnOutsideClick: true,
	}
	for i, s := range snap.Stations {
		c, ok := s.Coordinate()
		if !ok {
			continue
		}
		mv.Markers = append(mv.Markers, model.Marker{
			OwnerID:    s.OwnerID,
			Coordinate: c,
			Name:       s.Name,
			Address:    s.Address,
			Slots:      s.SlotsAvailable(),
			Focused:    snap.Focused != nil && snap.focusIdx == i,
		})
	}
	if snap.Focused == nil && snap.User != nil {
		c := snap.User.Coordinate
		mv.UserMarker = &c
	}
	return mv
}

// View is the presentation of one snapshot.
// FetchErr is non-nil if stations could not be fetched; the cards list
// is empty then and an inline message should be shown.
type View struct {
	Query    string
	Cards    []model.StationCard
	Focused  *model.StationCard
	User     *model.UserLocation
	Map      model.MapView
	FetchErr error
}
