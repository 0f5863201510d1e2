// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parksmart/parknow/pkg/adapter/config"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/parknowrs"
	"github.com/parksmart/parknow/pkg/core/usecase/parknowuc"
)

// Prefix is the path prefix of all REST APIs.
const Prefix = "/api/parknow/v1"

// Register instantiates the Park Now use case (and its repositories)
// based on the c configuration settings and registers its resource
// using the e gin-gonic engine instance.
func Register(e *gin.Engine, c *config.Config) error {
	uc, err := c.NewParkNowUseCase()
	if err != nil {
		return fmt.Errorf("creating park-now use case: %w", err)
	}
	RegisterUseCases(e, uc)
	return nil
}

// RegisterUseCases registers the resources of the given use cases.
// A /healthz endpoint is registered too, so liveness checks need not
// touch the parking API.
func RegisterUseCases(e *gin.Engine, parknow *parknowuc.UseCase) {
	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r := e.Group(Prefix)
	parknowrs.Register(r, parknow)
}
