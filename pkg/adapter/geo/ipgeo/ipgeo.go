// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ipgeo is the IP geolocation locator which resolves an
// approximate coordinate of a client IP address using a public JSON
// endpoint (such as ipapi.co) which reports latitude and longitude
// fields. Successful lookups are kept in an LRU cache for a while.
package ipgeo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/goccy/go-json"
	"github.com/parksmart/parknow/pkg/core/cerr"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/repo"
)

// IPPlaceholder is replaced by the client IP address in the lookup URL
// template. For a missing or non-public client address, the "/{ip}"
// path segment is removed, so the endpoint reports the caller itself.
const IPPlaceholder = "{ip}"

// DefaultURL is the ipapi.co lookup URL template.
const DefaultURL = "https://ipapi.co/{ip}/json/"

// Defaults of the lookup results cache.
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = time.Hour
)

const selfKey = "self"

// ErrLookupFailed indicates that the endpoint has reported an error
// (e.g., a reserved address or an exceeded rate limit).
var ErrLookupFailed = errors.New("ip geolocation lookup failed")

// Locator implements repo.Locator with an IP geolocation endpoint.
type Locator struct {
	urlTemplate string
	httpClient  *http.Client
	cache       gcache.Cache
}

var _ repo.Locator = (*Locator)(nil)

type response struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Option is a functional option for the Locator.
type Option func(l *Locator) error

// WithHTTPClient option replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Locator) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		l.httpClient = hc
		return nil
	}
}

// WithCache option configures the size and expiration of the lookup
// results cache. A zero size disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(l *Locator) error {
		switch {
		case size < 0:
			return fmt.Errorf("cache size (%d) is negative", size)
		case size == 0:
			l.cache = nil
			return nil
		case ttl <= 0:
			return fmt.Errorf("cache ttl (%v) is not positive", ttl)
		}
		l.cache = gcache.New(size).LRU().Expiration(ttl).Build()
		return nil
	}
}

// New creates a Locator for the urlTemplate lookup endpoint which must
// contain the IPPlaceholder.
func New(urlTemplate string, opts ...Option) (*Locator, error) {
	if !strings.Contains(urlTemplate, IPPlaceholder) {
		return nil, fmt.Errorf(
			"url template %q has no %s placeholder",
			urlTemplate, IPPlaceholder,
		)
	}
	l := &Locator{
		urlTemplate: urlTemplate,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		cache: gcache.New(DefaultCacheSize).
			LRU().
			Expiration(DefaultCacheTTL).
			Build(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return l, nil
}

// Locate resolves the clientIP coordinate. Cached results are returned
// without asking the endpoint. Failures are never cached.
func (l *Locator) Locate(
	ctx context.Context, clientIP string,
) (model.Coordinate, error) {
	key := selfKey
	if isPublic(clientIP) {
		key = clientIP
	}
	if l.cache != nil {
		if v, err := l.cache.Get(key); err == nil {
			return v.(model.Coordinate), nil
		}
	}
	c, err := l.lookup(ctx, key)
	if err != nil {
		return model.Coordinate{}, err
	}
	if l.cache != nil {
		if err := l.cache.Set(key, c); err != nil {
			log.Debug(ctx, "caching ip geolocation failed",
				log.Err("err", err),
			)
		}
	}
	return c, nil
}

func (l *Locator) lookupURL(key string) string {
	if key == selfKey {
		return strings.Replace(l.urlTemplate, "/"+IPPlaceholder, "", 1)
	}
	return strings.Replace(l.urlTemplate, IPPlaceholder, key, 1)
}

func (l *Locator) lookup(
	ctx context.Context, key string,
) (model.Coordinate, error) {
	u := l.lookupURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf(
			"http.NewRequestWithContext(%q): %w", u, err,
		)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return model.Coordinate{}, cerr.NetworkFailure(
			fmt.Errorf("GET %s: %w", u, err),
		)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Coordinate{}, cerr.NetworkFailure(
			fmt.Errorf("reading response body: %w", err),
		)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Coordinate{}, cerr.NetworkFailure(fmt.Errorf(
			"GET %s: unexpected status code: %d", u, resp.StatusCode,
		))
	}
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return model.Coordinate{}, cerr.NetworkFailure(
			fmt.Errorf("decoding ip geolocation: %w", err),
		)
	}
	switch {
	case r.Error:
		return model.Coordinate{}, fmt.Errorf("%w: %s", ErrLookupFailed, r.Reason)
	case r.Latitude == nil || r.Longitude == nil:
		return model.Coordinate{}, fmt.Errorf(
			"%w: missing latitude or longitude", ErrLookupFailed,
		)
	}
	c := model.Coordinate{Lat: *r.Latitude, Lon: *r.Longitude}
	log.Debug(ctx, "resolved ip geolocation",
		slog.String("key", key), log.Valuer("coord", c),
	)
	return c, nil
}

// isPublic returns true if ip is a parsable global unicast address
// which is not private, loopback, or link-local.
func isPublic(ip string) bool {
	addr := net.ParseIP(ip)
	if addr == nil {
		return false
	}
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}
