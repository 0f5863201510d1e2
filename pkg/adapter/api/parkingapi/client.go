// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package parkingapi is the stations repository which reads the
// parking stations from the remote parking API. Each Fetch issues
// exactly one GET request; there is no pagination, caching, or retry.
// Records are validated at this boundary, so the core layer receives
// only stations which have their required fields.
package parkingapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/parksmart/parknow/pkg/core/cerr"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/repo"
)

// StationsPath is the path of the stations list endpoint.
const StationsPath = "/user/parking/stations/"

// DefaultTimeout bounds each stations request unless configured.
const DefaultTimeout = 30 * time.Second

// ErrMissingData indicates that the response envelope had no data
// field (or it was null).
var ErrMissingData = errors.New("response envelope has no data field")

// StatusError indicates a non-2xx HTTP response status code.
type StatusError int

// Error implements the error interface.
func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", int(e))
}

// Client fetches the parking stations from the parking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

var _ repo.Stations = (*Client)(nil)

// Option is a functional option for the parking API Client.
type Option func(c *Client) error

// WithHTTPClient option replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithTimeout option configures the timeout of the default HTTP
// client. It must be passed before WithHTTPClient (if any).
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout (%v) is not positive", timeout)
		}
		c.httpClient = &http.Client{Timeout: timeout}
		return nil
	}
}

// New creates a parking API client for the baseURL host, such as
// https://backend.example.com (without the StationsPath).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("base URL is empty")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return c, nil
}

// Fetch reads the whole stations collection. Transport errors,
// non-2xx responses, and malformed envelopes are returned as a
// cerr.NetworkFailure error. Individual records which cannot be
// decoded or miss their required fields are quarantined: they are
// logged and dropped while the rest of the stations are returned.
// Bad pricing, review, or image entries only drop themselves and a
// coordinate of an unexpected JSON type is kept as an unparseable
// string, so such stations are still listed.
func (c *Client) Fetch(ctx context.Context) ([]model.Station, error) {
	u := c.baseURL + StationsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext(%q): %w", u, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, cerr.NetworkFailure(fmt.Errorf("GET %s: %w", u, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, cerr.NetworkFailure(
			fmt.Errorf("GET %s: %w", u, StatusError(resp.StatusCode)),
		)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.NetworkFailure(
			fmt.Errorf("reading response body: %w", err),
		)
	}
	stations, err := c.parse(ctx, body)
	if err != nil {
		return nil, cerr.NetworkFailure(err)
	}
	log.Debug(ctx, "fetched parking stations",
		slog.Int("count", len(stations)),
	)
	return stations, nil
}

func (c *Client) parse(ctx context.Context, body []byte) (
	[]model.Station, error,
) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding stations envelope: %w", err)
	}
	if env.Data == nil {
		return nil, ErrMissingData
	}
	stations := make([]model.Station, 0, len(*env.Data))
	for i, raw := range *env.Data {
		rs := &rawStation{}
		if err := json.Unmarshal(raw, rs); err != nil {
			log.Warn(ctx, "quarantined undecodable station record",
				slog.Int("index", i), log.Err("err", err),
			)
			continue
		}
		if err := c.validate.Struct(rs); err != nil {
			log.Warn(ctx, "quarantined invalid station record",
				slog.Int("index", i), log.Err("err", err),
			)
			continue
		}
		stations = append(stations, rs.toModel(ctx, c.validate))
	}
	return stations, nil
}
