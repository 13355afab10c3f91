// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehiclesrs realizes the vehicles resource, allowing the
// vehicles manipulation REST APIs to be accepted and delegated to the
// vehicles use case respectively.
package vehiclesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
)

type resource struct {
	vehicles *vehicleuc.UseCase
}

// Register instantiates a resource adapting the vehicles use case
// instance with the relevant REST APIs including:
//  1. GET request to /vehicles listing all vehicles,
//  2. GET request to /vehicles/:id reading one vehicle,
//  3. POST request to /vehicles creating a vehicle,
//  4. PUT request to /vehicles/:id replacing one vehicle in place,
//  5. DELETE request to /vehicles/:id deleting one vehicle.
//
// Single-identity operations respond with an empty-bodied 404 status
// when the id is not found.
func Register(r *gin.RouterGroup, vehicles *vehicleuc.UseCase) {
	rs := &resource{vehicles: vehicles}
	r.GET("vehicles", rs.ListVehicles)
	r.GET("vehicles/:id", rs.ReadVehicle)
	r.POST("vehicles", rs.CreateVehicle)
	r.PUT("vehicles/:id", rs.UpdateVehicle)
	r.DELETE("vehicles/:id", rs.DeleteVehicle)
}

func (rs *resource) ListVehicles(c *gin.Context) {
	resps, err := rs.vehicles.Read(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resps)
}

func (rs *resource) ReadVehicle(c *gin.Context) {
	vid, ok := rs.DserVehicleID(c)
	if !ok {
		return
	}
	resp, err := rs.vehicles.ReadByID(c, vid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) CreateVehicle(c *gin.Context) {
	req := rs.DserVehicleReq(c)
	if req == nil {
		return
	}
	resp, err := rs.vehicles.Create(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (rs *resource) UpdateVehicle(c *gin.Context) {
	vid, ok := rs.DserVehicleID(c)
	if !ok {
		return
	}
	req := rs.DserVehicleReq(c)
	if req == nil {
		return
	}
	resp, err := rs.vehicles.UpdateByID(c, vid, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) DeleteVehicle(c *gin.Context) {
	vid, ok := rs.DserVehicleID(c)
	if !ok {
		return
	}
	resp, err := rs.vehicles.DeleteByID(c, vid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
