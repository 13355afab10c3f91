// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehicleuc

import (
	"fmt"
	"time"

	"github.com/momeni/vehweb/pkg/core/model"
	"github.com/shopspring/decimal"
)

// VehicleRequest is the payload for the create and update operations.
// Date fields are ISO-8601 combined date-and-time strings, interpreted
// in UTC, and the price is the canonical string of an exact decimal
// value. The nested battery payload is mandatory since every vehicle
// owns exactly one battery.
type VehicleRequest struct {
	Brand           string         `json:"brand" binding:"required"`
	Model           string         `json:"model" binding:"required"`
	Manufacturer    string         `json:"manufacturer" binding:"required"`
	ManufactureDate string         `json:"manufactureDate" binding:"required"`
	MaxSpeed        float64        `json:"maxSpeed"`
	Price           string         `json:"price" binding:"required"`
	IsABS           bool           `json:"isABS"`
	Battery         BatteryRequest `json:"battery" binding:"required"`
}

// BatteryRequest carries the owned battery fields of a VehicleRequest.
type BatteryRequest struct {
	Model           string  `json:"model" binding:"required"`
	Manufacturer    string  `json:"manufacturer" binding:"required"`
	Type            string  `json:"type" binding:"required"`
	Capacity        int     `json:"capacity"`
	ManufactureDate string  `json:"manufactureDate" binding:"required"`
	ChargeTime      float64 `json:"chargeTime"`
	IsFastCharge    bool    `json:"isFastCharge"`
}

// VehicleResponse is the response shape of a vehicle, using the same
// textual date and price encodings as the VehicleRequest, with the
// store assigned identities of the vehicle and its battery populated.
type VehicleResponse struct {
	ID              int64           `json:"id"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Manufacturer    string          `json:"manufacturer"`
	ManufactureDate string          `json:"manufactureDate"`
	MaxSpeed        float64         `json:"maxSpeed"`
	Price           string          `json:"price"`
	IsABS           bool            `json:"isABS"`
	Battery         BatteryResponse `json:"battery"`
}

// BatteryResponse carries the owned battery fields of a
// VehicleResponse.
type BatteryResponse struct {
	ID              int64   `json:"id"`
	Model           string  `json:"model"`
	Manufacturer    string  `json:"manufacturer"`
	Type            string  `json:"type"`
	Capacity        int     `json:"capacity"`
	ManufactureDate string  `json:"manufactureDate"`
	ChargeTime      float64 `json:"chargeTime"`
	IsFastCharge    bool    `json:"isFastCharge"`
}

// dateLayout is the ISO-8601 combined date-and-time layout without a
// zone designator. All date strings are interpreted and rendered in
// UTC, so an instant round-trips through its textual form exactly.
// The fracLayout variant accepts and renders fractional seconds.
const (
	dateLayout    = "2006-01-02T15:04:05"
	fracLayout    = "2006-01-02T15:04:05.999999999"
	minutesLayout = "2006-01-02T15:04"
)

// ParseDate parses an ISO-8601 combined date-and-time string,
// interpreting it as a UTC instant. Seconds and fractional seconds
// are optional on input.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{fracLayout, minutesLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"parsing %q as ISO-8601 date-time: unsupported format", s,
	)
}

// FormatDate renders a timestamp in the ISO-8601 combined
// date-and-time form, in UTC. Fractional seconds are included only
// when the instant carries them, hence, re-parsing the result yields
// the identical instant.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() != 0 {
		return t.Format(fracLayout)
	}
	return t.Format(dateLayout)
}

// ParsePrice parses the canonical decimal string of an exact monetary
// value. No binary floating point conversion takes place, so values
// such as "0.1" or "19999.99" are represented exactly.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf(
			"parsing %q as decimal price: %w", s, err,
		)
	}
	return d, nil
}

// FormatPrice renders an exact decimal price, keeping the scale of
// the parsed text. The String method trims the trailing fractional
// zeros, hence, it would turn "39999.00" into "39999" and break the
// textual round-trip.
func FormatPrice(d decimal.Decimal) string {
	places := -d.Exponent()
	if places < 0 {
		places = 0
	}
	return d.StringFixed(places)
}

// toModel converts a request payload into the domain model, parsing
// the textual date and price fields. The identity fields are left
// zeroed; they are either assigned by the store (create) or preserved
// from the existing records (update).
func (req *VehicleRequest) toModel() (*model.Vehicle, error) {
	vdate, err := ParseDate(req.ManufactureDate)
	if err != nil {
		return nil, fmt.Errorf("vehicle manufacture date: %w", err)
	}
	bdate, err := ParseDate(req.Battery.ManufactureDate)
	if err != nil {
		return nil, fmt.Errorf("battery manufacture date: %w", err)
	}
	price, err := ParsePrice(req.Price)
	if err != nil {
		return nil, fmt.Errorf("vehicle price: %w", err)
	}
	return &model.Vehicle{
		Brand:           req.Brand,
		Model:           req.Model,
		Manufacturer:    req.Manufacturer,
		ManufactureDate: vdate,
		MaxSpeed:        req.MaxSpeed,
		Price:           price,
		IsABS:           req.IsABS,
		Battery: model.Battery{
			Model:           req.Battery.Model,
			Manufacturer:    req.Battery.Manufacturer,
			Type:            req.Battery.Type,
			Capacity:        req.Battery.Capacity,
			ManufactureDate: bdate,
			ChargeTime:      req.Battery.ChargeTime,
			IsFastCharge:    req.Battery.IsFastCharge,
		},
	}, nil
}

// toResponse converts a domain model into its response shape,
// rendering the date and price fields textually.
func toResponse(v *model.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:              v.ID,
		Brand:           v.Brand,
		Model:           v.Model,
		Manufacturer:    v.Manufacturer,
		ManufactureDate: FormatDate(v.ManufactureDate),
		MaxSpeed:        v.MaxSpeed,
		Price:           FormatPrice(v.Price),
		IsABS:           v.IsABS,
		Battery: BatteryResponse{
			ID:              v.Battery.ID,
			Model:           v.Battery.Model,
			Manufacturer:    v.Battery.Manufacturer,
			Type:            v.Battery.Type,
			Capacity:        v.Battery.Capacity,
			ManufactureDate: FormatDate(v.Battery.ManufactureDate),
			ChargeTime:      v.Battery.ChargeTime,
			IsFastCharge:    v.Battery.IsFastCharge,
		},
	}
}
