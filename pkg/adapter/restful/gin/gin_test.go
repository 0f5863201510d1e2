// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/parksmart/parknow/pkg/adapter/config"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/parknowrs"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/routes"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

const stationsBody = `{"data": [
  {
    "ownerID": "o1",
    "owner_name": "Main Street Parking",
    "owner_address": "123 Main St",
    "latitude": "10.0",
    "longitude": "76.3",
    "pricing": [{"vehicle_type": "car", "hourly_rate": 40}],
    "reviews": [{"rating": 4}, {"rating": 5}],
    "plots": [{"id": 1}, {"id": 2}],
    "images": ["/media/main.jpg"]
  },
  {
    "ownerID": "o2",
    "owner_name": "City Lot",
    "owner_address": "456 Center Ave",
    "latitude": "9.95",
    "longitude": "76.25"
  },
  {
    "ownerID": "o3",
    "owner_name": "Fountain Plaza",
    "owner_address": "Ainsley Road",
    "latitude": "not-a-number",
    "longitude": "76.2"
  }
]}`

type IntegrationGinTestSuite struct {
	suite.Suite

	Upstream *httptest.Server
	Failing  atomic.Bool
	Gin      *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	suite.Run(t, &IntegrationGinTestSuite{})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	igts.Upstream = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if igts.Failing.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(stationsBody))
		},
	))
	c, err := config.Parse([]byte(fmt.Sprintf(`
upstream:
  base-url: %s
  image-host: https://img.example.com
geolocation:
  ip-lookup-url: ""
`, igts.Upstream.URL)))
	igts.Require().NoError(err, "failed to parse configs")

	igts.Gin = gin.New(gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Gin, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func (igts *IntegrationGinTestSuite) TearDownSuite() {
	igts.Upstream.Close()
}

func (igts *IntegrationGinTestSuite) SetupTest() {
	igts.Failing.Store(false)
}

func (igts *IntegrationGinTestSuite) get(path string, res any) int {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	igts.Require().NoError(err, "cannot create GET request")
	igts.Gin.ServeHTTP(w, req)
	igts.NoError(json.Unmarshal(w.Body.Bytes(), res), "body is not json")
	return w.Code
}

func (igts *IntegrationGinTestSuite) TestHealthz() {
	res := map[string]string{}
	igts.Equal(200, igts.get("/healthz", &res))
	igts.Equal("ok", res["status"])
}

func (igts *IntegrationGinTestSuite) TestViewWithQuery() {
	res := &parknowrs.View{}
	code := igts.get(routes.Prefix+"/view?q=main&lat=10.01&lng=76.31", res)

	igts.Equal(200, code)
	_, err := uuid.Parse(res.Session)
	igts.NoError(err, "session must be a uuid")
	igts.Equal("main", res.Query)
	igts.Empty(res.Error)
	igts.Require().Len(res.Cards, 1)
	card := res.Cards[0]
	igts.Equal("o1", card.OwnerID)
	igts.Equal(4.5, card.AverageRating)
	igts.Equal(2, card.SlotsAvailable)
	igts.Equal([]string{"https://img.example.com/media/main.jpg"},
		card.ImageURLs,
	)
	igts.Require().NotNil(card.DistanceKm)
	igts.InDelta(1.56, *card.DistanceKm, 0.02)

	igts.Require().NotNil(res.Focused)
	igts.Equal("o1", res.Focused.OwnerID)
	igts.Require().NotNil(res.UserLocation)
	igts.Equal(model.LocationSourceDevice, res.UserLocation.Source)

	igts.Equal("centered", res.Map.Phase)
	igts.Require().NotNil(res.Map.Center)
	igts.Equal(parknowrs.Coordinate{Lat: 10, Lng: 76.3}, *res.Map.Center)
	igts.Equal(15, res.Map.Zoom)
	igts.True(res.Map.Recenter, "first view reports the centering")
	igts.Nil(res.Map.UserMarker, "a focused map has no user marker")
	igts.Require().Len(res.Map.Markers, 2, "unparseable station has no marker")
	igts.True(res.Map.Markers[0].Focused)
	igts.False(res.Map.Markers[1].Focused)
	igts.True(res.Map.ClosePopupOnOutsideClick)
}

func (igts *IntegrationGinTestSuite) TestViewWithoutQuery() {
	res := &parknowrs.View{}
	code := igts.get(routes.Prefix+"/view", res)

	igts.Equal(200, code)
	igts.Len(res.Cards, 3, "every station keeps its card")
	igts.Nil(res.Focused)
	igts.Require().NotNil(res.UserLocation)
	igts.Equal(model.LocationSourceFallback, res.UserLocation.Source)
	igts.Equal(9.9312, res.UserLocation.Lat)
	igts.Equal(76.2673, res.UserLocation.Lng)
	igts.Require().NotNil(res.Map.UserMarker)
	igts.Equal(res.UserLocation.Coordinate, *res.Map.UserMarker)
	igts.Require().NotNil(res.Map.Center)
	igts.Equal(res.UserLocation.Coordinate, *res.Map.Center)
	igts.False(res.Cards[2].Mappable)
	igts.Nil(res.Cards[2].DistanceKm)
}

func (igts *IntegrationGinTestSuite) TestViewUpstreamFailure() {
	igts.Failing.Store(true)
	res := &parknowrs.View{}
	code := igts.get(routes.Prefix+"/view?q=main", res)

	igts.Equal(200, code, "the page renders with an inline error")
	igts.NotEmpty(res.Error)
	igts.Empty(res.Cards)
	igts.Nil(res.Focused)
	igts.Empty(res.Map.Markers)
	igts.Equal("centered", res.Map.Phase, "map still centers on the user")
}

func (igts *IntegrationGinTestSuite) TestListStations() {
	res := &struct {
		Data []parknowrs.Card
	}{}
	igts.Equal(200, igts.get(routes.Prefix+"/stations", res))
	igts.Require().Len(res.Data, 3)
	igts.Equal("o3", res.Data[2].OwnerID)
	igts.Nil(res.Data[0].DistanceKm)

	igts.Failing.Store(true)
	detail := &struct {
		Detail string
	}{}
	igts.Equal(502, igts.get(routes.Prefix+"/stations", detail))
	igts.Contains(detail.Detail, "503")
}

func (igts *IntegrationGinTestSuite) TestLocation() {
	res := &parknowrs.UserLocation{}
	igts.Equal(200, igts.get(routes.Prefix+"/location?lat=1.5&lng=2.5", res))
	igts.Equal(model.LocationSourceDevice, res.Source)
	igts.Equal(parknowrs.Coordinate{Lat: 1.5, Lng: 2.5}, res.Coordinate)

	res = &parknowrs.UserLocation{}
	igts.Equal(200, igts.get(routes.Prefix+"/location", res))
	igts.Equal(model.LocationSourceFallback, res.Source)
}

func (igts *IntegrationGinTestSuite) TestDistance() {
	res := &struct {
		DistanceKm float64 `json:"distance_km"`
	}{}
	code := igts.get(
		routes.Prefix+"/distance?lat1=0&lon1=0&lat2=0&lon2=1", res,
	)
	igts.Equal(200, code)
	igts.InDelta(111.195, res.DistanceKm, 0.001)
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name string
		path string
		key  string
	}{
		{"lat without lng", "/view?lat=10", "lat/lng"},
		{"lng without lat", "/location?lng=10", "lat/lng"},
		{"latitude out of range", "/view?lat=95&lng=10", "Lat"},
		{"longitude not a number", "/location?lat=1&lng=east", "Lng"},
		{"distance missing points", "/distance?lat1=0&lon1=0", "Lat2"},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			code := igts.get(routes.Prefix+tc.path, &res)
			igts.Equal(400, code)
			igts.Contains(res, tc.key)
		})
	}
}
