// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the pnweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory
// items) and a series of functional options (for the optional items),
// so they are validated again by the relevant end-component such as a
// UseCase instance.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/parksmart/parknow/pkg/adapter/api/parkingapi"
	"github.com/parksmart/parknow/pkg/adapter/config/settings"
	"github.com/parksmart/parknow/pkg/adapter/geo/ipgeo"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/usecase/parknowuc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Gin         Gin         // Gin-Gonic instantiation settings
	Log         Log         // structured logging settings
	Upstream    Upstream    // parking API settings
	Geolocation Geolocation // user location fallback chain settings
	Map         Map         // map view presentation settings
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them with their defaults by the
// ValidateAndNormalize method.
type Gin struct {
	Logger   *bool   // Whether to register the gin.SlogLogger() middleware
	Recovery *bool   // Whether to register the gin.Recovery() middleware
	Address  *string // listening address, like :8080
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.SlogLogger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Log contains the structured logging settings.
type Log struct {
	Level *string // one of debug, info, warn, or error
	JSON  *bool   // whether to emit JSON records instead of text
}

// Setup installs the default slog logger which writes to stderr.
func (l Log) Setup() error {
	level, err := log.ParseLevel(*l.Level)
	if err != nil {
		return err
	}
	log.Setup(os.Stderr, level, *l.JSON)
	return nil
}

// Upstream contains the parking API settings.
type Upstream struct {
	BaseURL   string             `yaml:"base-url"`
	ImageHost *string            `yaml:"image-host"` // defaults to BaseURL
	Timeout   *settings.Duration `yaml:"timeout"`
}

// Geolocation contains the IP geolocation lookup and fixed fallback
// coordinate settings. An empty IPLookupURL disables the IP lookup
// step of the fallback chain.
type Geolocation struct {
	IPLookupURL *string            `yaml:"ip-lookup-url"`
	Timeout     *settings.Duration `yaml:"timeout"`
	CacheSize   *int               `yaml:"cache-size"`
	CacheTTL    *settings.Duration `yaml:"cache-ttl"`
	Fallback    *Coordinate        `yaml:"fallback"`
}

// Coordinate is a latitude and longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Map contains the map view presentation settings.
type Map struct {
	TileURL     *string `yaml:"tile-url"`
	Attribution *string `yaml:"attribution"`
	Zoom        *int    `yaml:"zoom"`
}

// Default values which are used by ValidateAndNormalize.
var (
	defaultAddress     = ":8080"
	defaultLevel       = "info"
	defaultTimeout     = settings.Duration(parkingapi.DefaultTimeout)
	defaultIPLookupURL = ipgeo.DefaultURL
	defaultGeoTimeout  = settings.Duration(5 * time.Second)
	defaultCacheSize   = ipgeo.DefaultCacheSize
	defaultCacheTTL    = settings.Duration(ipgeo.DefaultCacheTTL)
	defaultZoom        = parknowuc.DefaultZoom

	minTimeout   = settings.Duration(100 * time.Millisecond)
	maxTimeout   = settings.Duration(2 * time.Minute)
	minCacheSize = 0
	maxCacheSize = 1 << 20
	minZoom      = 1
	maxZoom      = 19
)

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance.
// Extra items in the data will be ignored and missing items will take
// their default values. Thereafter, loaded Config will be validated and
// normalized in order to ensure that provided settings are acceptable.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace nil values with
// their expected default values.
func (c *Config) ValidateAndNormalize() error {
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	settings.OverwriteNil(&c.Gin.Address, &defaultAddress)
	settings.OverwriteNil(&c.Log.Level, &defaultLevel)
	settings.Nil2Zero(&c.Log.JSON)
	if _, err := log.ParseLevel(*c.Log.Level); err != nil {
		return fmt.Errorf("validating log settings: %w", err)
	}
	if err := c.Upstream.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating upstream settings: %w", err)
	}
	if err := c.Geolocation.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating geolocation settings: %w", err)
	}
	if err := c.Map.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating map settings: %w", err)
	}
	return nil
}

func (u *Upstream) validateAndNormalize() error {
	if u.BaseURL == "" {
		return errors.New("base-url is required")
	}
	settings.OverwriteNil(&u.ImageHost, &u.BaseURL)
	settings.OverwriteNil(&u.Timeout, &defaultTimeout)
	if err := settings.VerifyRange(
		&u.Timeout, &minTimeout, &maxTimeout,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(timeout, minb=%v, maxb=%v): %w",
			time.Duration(minTimeout), time.Duration(maxTimeout), err,
		)
	}
	return nil
}

func (g *Geolocation) validateAndNormalize() error {
	settings.OverwriteNil(&g.IPLookupURL, &defaultIPLookupURL)
	settings.OverwriteNil(&g.Timeout, &defaultGeoTimeout)
	settings.OverwriteNil(&g.CacheSize, &defaultCacheSize)
	settings.OverwriteNil(&g.CacheTTL, &defaultCacheTTL)
	if err := settings.VerifyRange(
		&g.Timeout, &minTimeout, &maxTimeout,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(timeout, minb=%v, maxb=%v): %w",
			time.Duration(minTimeout), time.Duration(maxTimeout), err,
		)
	}
	if err := settings.VerifyRange(
		&g.CacheSize, &minCacheSize, &maxCacheSize,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(cache-size=%d, minb=%d, maxb=%d): %w",
			*err.Value, minCacheSize, maxCacheSize, err,
		)
	}
	if *g.CacheTTL <= 0 {
		return fmt.Errorf(
			"cache-ttl (%v) is not positive", time.Duration(*g.CacheTTL),
		)
	}
	if g.Fallback == nil {
		fb := parknowuc.DefaultFallback
		g.Fallback = &Coordinate{Lat: fb.Lat, Lon: fb.Lon}
	}
	if !g.Fallback.toModel().Valid() {
		return fmt.Errorf("fallback (%+v) is not a valid coordinate",
			*g.Fallback)
	}
	return nil
}

func (m *Map) validateAndNormalize() error {
	settings.OverwriteNil(&m.TileURL, &parknowuc.DefaultTileLayer.URL)
	settings.OverwriteNil(
		&m.Attribution, &parknowuc.DefaultTileLayer.Attribution,
	)
	settings.OverwriteNil(&m.Zoom, &defaultZoom)
	if err := settings.VerifyRange(&m.Zoom, &minZoom, &maxZoom); err != nil {
		return fmt.Errorf(
			"VerifyRange(zoom=%d, minb=%d, maxb=%d): %w",
			*err.Value, minZoom, maxZoom, err,
		)
	}
	return nil
}

func (c Coordinate) toModel() model.Coordinate {
	return model.Coordinate{Lat: c.Lat, Lon: c.Lon}
}

// NewStationsRepo instantiates the parking API stations repository.
func (c *Config) NewStationsRepo() (*parkingapi.Client, error) {
	return parkingapi.New(
		c.Upstream.BaseURL,
		parkingapi.WithTimeout(time.Duration(*c.Upstream.Timeout)),
	)
}

// NewLocator instantiates the IP geolocation locator. It returns
// nil (and no error) if the IP lookup step is disabled.
func (c *Config) NewLocator() (*ipgeo.Locator, error) {
	if *c.Geolocation.IPLookupURL == "" {
		return nil, nil
	}
	return ipgeo.New(
		*c.Geolocation.IPLookupURL,
		ipgeo.WithCache(
			*c.Geolocation.CacheSize,
			time.Duration(*c.Geolocation.CacheTTL),
		),
	)
}

// NewParkNowUseCase instantiates the Park Now use case and its
// repositories based on the settings in the c struct.
func (c *Config) NewParkNowUseCase() (*parknowuc.UseCase, error) {
	stations, err := c.NewStationsRepo()
	if err != nil {
		return nil, fmt.Errorf("creating stations repo: %w", err)
	}
	locator, err := c.NewLocator()
	if err != nil {
		return nil, fmt.Errorf("creating ip locator: %w", err)
	}
	opts := []parknowuc.Option{
		parknowuc.WithFallback(c.Geolocation.Fallback.toModel()),
		parknowuc.WithLocateTimeout(time.Duration(*c.Geolocation.Timeout)),
		parknowuc.WithImageHost(*c.Upstream.ImageHost),
		parknowuc.WithTileLayer(model.TileLayer{
			URL:         *c.Map.TileURL,
			Attribution: *c.Map.Attribution,
		}),
		parknowuc.WithZoom(*c.Map.Zoom),
	}
	if locator == nil {
		return parknowuc.New(stations, nil, opts...)
	}
	return parknowuc.New(stations, locator, opts...)
}

// LogValue implements slog.LogValuer, so the effective settings can be
// logged when the web server starts.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("address", *c.Gin.Address),
		slog.String("upstream", c.Upstream.BaseURL),
		slog.String("image_host", *c.Upstream.ImageHost),
		log.Valuer("upstream_timeout", c.Upstream.Timeout),
		slog.String("ip_lookup_url", *c.Geolocation.IPLookupURL),
		log.Valuer("fallback", c.Geolocation.Fallback.toModel()),
		slog.Int("zoom", *c.Map.Zoom),
	)
}
