// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehicleuc contains the vehicles UseCase which supports the
// vehicle registry use cases: creating a vehicle together with its
// owned battery, listing all vehicles, and reading, replacing, or
// deleting one vehicle by its identity.
// It also owns the textual conversion rules of the payloads, namely
// the ISO-8601 date-and-time encoding (UTC normalized on both input
// and output) and the exact decimal price encoding.
package vehicleuc

import (
	"context"

	"github.com/momeni/vehweb/pkg/core/model"
	"github.com/momeni/vehweb/pkg/core/repo"
)

// UseCase represents the vehicles use case. It holds a database
// connection pool and the vehicles repository instance (to be guided
// with the acquired connections and transactions).
type UseCase struct {
	pool       repo.Pool
	vehiclesrp repo.Vehicles
}

// New instantiates a vehicles use case. Both parameters are mandatory
// and passed individually, so callers have to provision them and
// whenever they change, callers will notice due to a compilation
// error.
func New(p repo.Pool, v repo.Vehicles) *UseCase {
	return &UseCase{pool: p, vehiclesrp: v}
}

// Create parses the req payload, constructs a new battery and a new
// vehicle owning it, and persists both as a single atomic unit. The
// response is returned with the store assigned identities populated.
// Malformed date or price text fails the whole operation with a
// parsing error before any store interaction takes place.
func (uc *UseCase) Create(ctx context.Context, req *VehicleRequest) (resp *VehicleResponse, err error) {
	v, err := req.toModel()
	if err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.vehiclesrp.Tx(tx)
			v, err = q.Insert(ctx, v)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return toResponse(v), nil
}

// Read returns every persisted vehicle in its response shape. The
// listing order is store-defined and not guaranteed to be stable
// across backends.
func (uc *UseCase) Read(ctx context.Context) (resps []*VehicleResponse, err error) {
	var vs []model.Vehicle
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.vehiclesrp.Conn(c)
		vs, err = q.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	resps = make([]*VehicleResponse, 0, len(vs))
	for i := range vs {
		resps = append(resps, toResponse(&vs[i]))
	}
	return resps, nil
}

// ReadByID looks a vehicle up by its identity and returns its
// response shape. A cerr.NotFound error is returned for an absent
// identity.
func (uc *UseCase) ReadByID(ctx context.Context, vid int64) (resp *VehicleResponse, err error) {
	var v *model.Vehicle
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.vehiclesrp.Conn(c)
		v, err = q.FindByID(ctx, vid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toResponse(v), nil
}

// UpdateByID overwrites every field of the vid vehicle and its owned
// battery in place from the req payload, preserving both identities,
// and persists the result. This is a full replace, not a partial
// patch. A cerr.NotFound error is returned for an absent identity,
// leaving the store unchanged.
func (uc *UseCase) UpdateByID(ctx context.Context, vid int64, req *VehicleRequest) (resp *VehicleResponse, err error) {
	v, err := req.toModel()
	if err != nil {
		return nil, err
	}
	v.ID = vid
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.vehiclesrp.Tx(tx)
			v, err = q.Update(ctx, v)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return toResponse(v), nil
}

// DeleteByID removes the vid vehicle and its owned battery from the
// store and returns the response shape of the removed records.
// A cerr.NotFound error is returned for an absent identity, leaving
// the store unchanged.
func (uc *UseCase) DeleteByID(ctx context.Context, vid int64) (resp *VehicleResponse, err error) {
	var v *model.Vehicle
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.vehiclesrp.Tx(tx)
			v, err = q.DeleteByID(ctx, vid)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return toResponse(v), nil
}
