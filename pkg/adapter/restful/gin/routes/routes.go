// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehweb/pkg/adapter/config"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/vehweb/pkg/adapter/hash/scram"
	"github.com/momeni/vehweb/pkg/adapter/metrics"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/vehiclesrs"
	"github.com/momeni/vehweb/pkg/core/repo"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
)

// Register instantiates the vehicles repository and the vehicles and
// token use cases based on the c configuration settings. The p
// connections pool is passed to the vehicles use case, so it may
// acquire/release connections and transactions on demand; these
// connections/transactions will be passed to the repository later in
// order to run relevant queries on them. Each use case package is
// named like vehicleuc and each repository package is named like
// vehiclesrp. Register then instantiates a series of "resource"
// structs, from packages which are named like vehiclesrs, in order to
// adapt the use cases interfaces with the REST APIs. These resources
// are registered as request handlers using the e gin-gonic engine
// instance: the token endpoint is guarded by basic-auth credential
// verification, while the vehicles endpoints require a valid bearer
// token which the token endpoint has issued.
func Register(
	_ context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	tokens, err := c.Auth.NewTokenUseCase()
	if err != nil {
		return fmt.Errorf("creating token use case: %w", err)
	}
	vehicles := vehicleuc.New(p, vehiclesrp.New())

	e.Use(metrics.Measure())
	r := e.Group("/")
	metrics.Register(r)
	authrs.Register(r, tokens, c.Auth, scram.Multi{})

	guarded := e.Group("/", middleware.RequireToken(tokens))
	vehiclesrs.Register(guarded, vehicles)
	return nil
}
