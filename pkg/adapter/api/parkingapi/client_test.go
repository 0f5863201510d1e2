// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parkingapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parksmart/parknow/pkg/adapter/api/parkingapi"
	"github.com/parksmart/parknow/pkg/core/cerr"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *parkingapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, parkingapi.StationsPath, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		},
	))
	t.Cleanup(srv.Close)
	c, err := parkingapi.New(srv.URL+"/", parkingapi.WithTimeout(5*time.Second))
	require.NoError(t, err, "cannot create client")
	return c
}

const stationsBody = `{
  "data": [
    {
      "ownerID": "o1",
      "owner_name": "Main Street Parking",
      "owner_address": "123 Main St",
      "latitude": "10.0",
      "longitude": 76.3,
      "pricing": [
        {"vehicle_type": "car", "hourly_rate": 40},
        {"vehicle_type": "bike", "hourly_rate": "15.5"}
      ],
      "reviews": [{"rating": 5}, {"rating": "3"}],
      "plots": [{"id": 1}, {"id": "p2"}, 7],
      "images": ["/media/a.jpg", {"image": "https://cdn.example.com/b.jpg"}]
    },
    {
      "ownerID": 42,
      "owner_name": null,
      "latitude": "not-a-number",
      "longitude": "76.2"
    }
  ]
}`

func TestFetch(t *testing.T) {
	c := serve(t, http.StatusOK, stationsBody)
	stations, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, model.Station{
		OwnerID:   "o1",
		Name:      "Main Street Parking",
		Address:   "123 Main St",
		Latitude:  "10.0",
		Longitude: "76.3",
		Pricing: []model.Pricing{
			{VehicleType: "car", HourlyRate: 40},
			{VehicleType: "bike", HourlyRate: 15.5},
		},
		Reviews: []model.Review{{Rating: 5}, {Rating: 3}},
		Plots:   []model.Plot{{ID: "1"}, {ID: "p2"}, {ID: "7"}},
		Images: []model.Image{
			{Path: "/media/a.jpg"},
			{Path: "https://cdn.example.com/b.jpg"},
		},
	}, stations[0])

	s := stations[1]
	assert.Equal(t, "42", s.OwnerID)
	assert.Empty(t, s.Name, "null name is empty")
	assert.Empty(t, s.Address, "missing address is empty")
	_, ok := s.Coordinate()
	assert.False(t, ok, "unparseable station is still returned")
}

func TestFetchQuarantinesInvalidRecords(t *testing.T) {
	c := serve(t, http.StatusOK, `{"data": [
		{"owner_name": "no owner id"},
		{"ownerID": "", "owner_name": "empty owner id"},
		{"ownerID": true, "owner_name": "bool owner id"},
		"not an object",
		{"ownerID": "o5", "owner_name": "Kept"}
	]}`)
	stations, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "o5", stations[0].OwnerID)
	assert.Equal(t, "Kept", stations[0].Name)
}

func TestFetchKeepsStationsWithBadFields(t *testing.T) {
	c := serve(t, http.StatusOK, `{"data": [
		{"ownerID": "o1", "owner_name": "Bool", "latitude": true,
		 "longitude": {"deg": 76}},
		{"ownerID": "o2", "owner_name": "Rated",
		 "reviews": [{"rating": 6}, {"rating": 4}, {"rating": "bad"}]},
		{"ownerID": "o3", "owner_name": "Priced",
		 "pricing": [{"hourly_rate": 10},
		             {"vehicle_type": "car", "hourly_rate": -1},
		             {"vehicle_type": "bike", "hourly_rate": 5}]},
		{"ownerID": "o4", "owner_name": "Odd lists",
		 "pricing": "free", "plots": [true, {"id": 2}], "images": [7, false]},
		{"ownerID": "o5", "owner_name": "Fine"}
	]}`)
	stations, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 5, "every station keeps its card")

	s := stations[0]
	assert.Equal(t, "true", s.Latitude)
	_, ok := s.Coordinate()
	assert.False(t, ok, "listed but never mapped")

	assert.Equal(t, []model.Review{{Rating: 4}}, stations[1].Reviews)
	assert.Equal(t, 4.0, stations[1].AverageRating())

	assert.Equal(t, []model.Pricing{
		{VehicleType: "bike", HourlyRate: 5},
	}, stations[2].Pricing)

	s = stations[3]
	assert.Empty(t, s.Pricing)
	assert.Equal(t, 2, s.SlotsAvailable())
	assert.Equal(t, []model.Image{{Path: "7"}}, s.Images)

	assert.Equal(t, "Fine", stations[4].Name)
}

func TestFetchEmpty(t *testing.T) {
	c := serve(t, http.StatusOK, `{"data": []}`)
	stations, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestFetchFailures(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"server error", http.StatusInternalServerError, `{"data": []}`,
			parkingapi.StatusError(http.StatusInternalServerError)},
		{"not found", http.StatusNotFound, ``,
			parkingapi.StatusError(http.StatusNotFound)},
		{"malformed", http.StatusOK, `{"data": [`, nil},
		{"not json", http.StatusOK, `<html></html>`, nil},
		{"missing data", http.StatusOK, `{"items": []}`,
			parkingapi.ErrMissingData},
		{"null data", http.StatusOK, `{"data": null}`,
			parkingapi.ErrMissingData},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := serve(t, tc.status, tc.body)
			stations, err := c.Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, stations)
			var ce *cerr.Error
			require.True(t, errors.As(err, &ce), "must be a cerr.Error")
			assert.Equal(t, http.StatusBadGateway, ce.HTTPStatusCode)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	c, err := parkingapi.New(u)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background())
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadGateway, ce.HTTPStatusCode)
}

func TestNewValidation(t *testing.T) {
	_, err := parkingapi.New("")
	assert.Error(t, err)
	_, err = parkingapi.New("https://backend.example.com",
		parkingapi.WithTimeout(0),
	)
	assert.Error(t, err)
	_, err = parkingapi.New("https://backend.example.com",
		parkingapi.WithHTTPClient(nil),
	)
	assert.Error(t, err)
}
