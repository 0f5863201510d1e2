// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"strconv"

	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/spf13/cobra"
)

var distanceCmd = &cobra.Command{
	Use:   "distance lat1 lon1 lat2 lon2",
	Short: "Print the haversine distance of two points in kilometers",
	RunE:  distance,
	Args:  cobra.ExactArgs(4),
}

func distance(cmd *cobra.Command, args []string) error {
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("parsing argument #%d (%q): %w", i+1, a, err)
		}
		v[i] = f
	}
	from := model.Coordinate{Lat: v[0], Lon: v[1]}
	to := model.Coordinate{Lat: v[2], Lon: v[3]}
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("invalid coordinates: %+v, %+v", from, to)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%.3f\n", from.DistanceTo(to))
	return err
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}
