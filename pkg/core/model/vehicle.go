// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle models a registered vehicle which may be persisted in a
// database. Each vehicle owns exactly one Battery for its entire
// lifetime. The owned battery is created, updated, and deleted
// together with its vehicle and is never shared between vehicles.
//
// The ID field is assigned once by the store at creation time and
// is never reassigned thereafter. A zero ID indicates a not yet
// persisted vehicle.
//
// Price is an exact decimal value. It must never pass through a
// binary floating point type since monetary values may not tolerate
// rounding drift.
type Vehicle struct {
	ID              int64
	Brand           string
	Model           string
	Manufacturer    string
	ManufactureDate time.Time // normalized to UTC
	MaxSpeed        float64
	Price           decimal.Decimal
	IsABS           bool
	Battery         Battery // owned, cascades with this vehicle
}

// Battery models the manufactured battery part which is owned by
// exactly one Vehicle. It holds no reference back to its owner; the
// owning side of the relation is the Vehicle alone and any back-lookup
// is a store-level concern.
type Battery struct {
	ID              int64
	Model           string
	Manufacturer    string
	Type            string
	Capacity        int
	ManufactureDate time.Time // normalized to UTC
	ChargeTime      float64   // hours
	IsFastCharge    bool
}

// Equivalent reports the coarse domain equivalence of two vehicles,
// which holds iff their model and manufacture date match. It ignores
// the ID fields and the owned batteries entirely, hence, it may not
// be used as an identity comparison. No use case currently depends on
// this relation; it is retained as a documented helper only.
func (v Vehicle) Equivalent(o Vehicle) bool {
	return v.Model == o.Model && v.ManufactureDate.Equal(o.ManufactureDate)
}

// Equivalent reports the coarse domain equivalence of two batteries,
// which holds iff their model and capacity match. Like the vehicles
// equivalence, it ignores the ID fields and may not be used as an
// identity comparison.
func (b Battery) Equivalent(o Battery) bool {
	return b.Model == o.Model && b.Capacity == o.Capacity
}
