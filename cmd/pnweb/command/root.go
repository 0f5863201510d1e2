// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the Park Now
// web project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "search"
// and "distance" sub-commands run the station search and the distance
// calculator once, printing their results as JSON.
//
//	./pnweb [-c /path/of/main/config.yaml]           # start web server
//	./pnweb search [-c config.yaml] [--lat L --lng L] [query...]
//	./pnweb distance lat1 lon1 lat2 lon2
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/parksmart/parknow/pkg/adapter/config"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/routes"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pnweb",
	Short: "Park Now station finder web service",
	Long: `Park Now station finder web service which fetches the parking
stations from the parking API, resolves the user location (reported
by the device, looked up by the client IP address, or a fixed fallback
coordinate), ranks stations for a free-text query (prefix matches of
the name or address first), and describes the map view which should
be focused on the best matching station.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info(ctx, "starting web server", log.Valuer("configs", c))
	e := c.Gin.NewEngine()
	if err = routes.Register(e, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(*c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// loadConfig loads the cfgPath configuration file and installs the
// default logger according to its settings.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = c.Log.Setup(); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	return c, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
