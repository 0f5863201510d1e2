// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/parknowrs"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/usecase/parknowuc"
	"github.com/spf13/cobra"
)

var (
	searchLat, searchLng string
	searchTimeout        time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search parking stations and print the resulting views",
	Long: `Search parking stations once and print the resulting views
as JSON lines. Stations are fetched and the user location is resolved
concurrently; then each query argument is applied in order, like the
keystrokes of a search box, and the view is printed after each one.
Without query arguments, only the initial (empty query) view is printed.
The --lat and --lng flags play the role of the device location.`,
	RunE: search,
}

func search(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	device, err := parseDevice(searchLat, searchLng)
	if err != nil {
		return err
	}
	uc, err := c.NewParkNowUseCase()
	if err != nil {
		return fmt.Errorf("creating park-now use case: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()
	s := uc.NewSession(device, "")
	defer s.Close()
	s.Start(ctx)
	snap, err := s.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for stations and location: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return printView(out, s.ID().String(), uc.View(snap))
	}
	for _, q := range args {
		snap = s.SetQuery(q)
		if err = printView(out, s.ID().String(), uc.View(snap)); err != nil {
			return err
		}
	}
	return nil
}

// printView writes v as one JSON line using the same format as the
// view REST API.
func printView(w io.Writer, session string, v parknowuc.View) error {
	b, err := json.Marshal(parknowrs.SerView(session, v))
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func parseDevice(lat, lng string) (*model.Coordinate, error) {
	if lat == "" && lng == "" {
		return nil, nil
	}
	if lat == "" || lng == "" {
		return nil, errors.New("--lat and --lng must be given together")
	}
	var c model.Coordinate
	var err error
	if c.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return nil, fmt.Errorf("parsing --lat=%q: %w", lat, err)
	}
	if c.Lon, err = strconv.ParseFloat(lng, 64); err != nil {
		return nil, fmt.Errorf("parsing --lng=%q: %w", lng, err)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("invalid device coordinate: %+v", c)
	}
	return &c, nil
}

func init() {
	searchCmd.Flags().StringVar(&searchLat, "lat", "", "device latitude")
	searchCmd.Flags().StringVar(&searchLng, "lng", "", "device longitude")
	searchCmd.Flags().DurationVar(
		&searchTimeout, "timeout", 30*time.Second,
		"maximum wait for stations and location",
	)
	rootCmd.AddCommand(searchCmd)
}
