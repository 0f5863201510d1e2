// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package parknowrs realizes the Park Now resource, allowing the
// station search REST APIs to be accepted and delegated to the
// Park Now use cases respectively.
package parknowrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/serdser"
	"github.com/parksmart/parknow/pkg/core/cerr"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/usecase/parknowuc"
)

type resource struct {
	parknow *parknowuc.UseCase
}

// Register instantiates a resource adapting the Park Now use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/parknow/v1/stations
//     in order to list all stations as cards,
//  2. GET request to /api/parknow/v1/view?q=...&lat=...&lng=...
//     in order to search stations and describe the map view,
//  3. GET request to /api/parknow/v1/location?lat=...&lng=...
//     in order to resolve the user location with fallbacks,
//  4. GET request to /api/parknow/v1/distance?lat1=...&lon1=...
//     &lat2=...&lon2=... in order to compute a haversine distance.
func Register(r *gin.RouterGroup, parknow *parknowuc.UseCase) {
	rs := &resource{parknow: parknow}
	r.GET("stations", rs.ListStations)
	r.GET("view", rs.View)
	r.GET("location", rs.Locate)
	r.GET("distance", rs.Distance)
}

func (rs *resource) ListStations(c *gin.Context) {
	stations, err := rs.parknow.Stations(c.Request.Context())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	cards := rs.parknow.Cards(stations, nil)
	c.JSON(http.StatusOK, gin.H{"data": SerCards(cards)})
}

// View runs one view session for the requested query. The station
// fetch and the user location resolution run concurrently and the
// response is written once both are applied. A failed fetch is not an
// HTTP error: the page still renders with an inline error message.
func (rs *resource) View(c *gin.Context) {
	req := rs.DserViewReq(c)
	if req == nil {
		return
	}
	ctx := c.Request.Context()
	s := rs.parknow.NewSession(req.Device, c.ClientIP())
	defer s.Close()
	s.Start(ctx)
	s.SetQuery(req.Query)
	snap, err := s.Wait(ctx)
	if err != nil {
		serdser.SerErr(c, cerr.Timeout(err))
		return
	}
	c.JSON(http.StatusOK, SerView(s.ID().String(), rs.parknow.View(snap)))
}

func (rs *resource) Locate(c *gin.Context) {
	req := rs.DserLocateReq(c)
	if req == nil {
		return
	}
	loc := rs.parknow.Locate(c.Request.Context(), req.Device, c.ClientIP())
	c.JSON(http.StatusOK, SerUserLocation(&loc))
}

func (rs *resource) Distance(c *gin.Context) {
	req := rs.DserDistanceReq(c)
	if req == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distance_km": model.Distance(
			req.From.Lat, req.From.Lon, req.To.Lat, req.To.Lon,
		),
	})
}
