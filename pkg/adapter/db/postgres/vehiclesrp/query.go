// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehiclesrp

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/vehweb/pkg/adapter/db/postgres"
	"github.com/momeni/vehweb/pkg/core/cerr"
	"github.com/momeni/vehweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// price adapts decimal.Decimal for the numeric price column.
// The embedded Value() renders via String(), which drops trailing
// fractional zeros, so a 39999.00 price would reach the DBMS as 39999
// and lose its scale. This Value() keeps every fractional digit.
type price struct {
	decimal.Decimal
}

func (p price) Value() (driver.Value, error) {
	places := -p.Exponent()
	if places < 0 {
		places = 0
	}
	return p.StringFixed(places), nil
}

// gBattery fixes the table name and identity column for the battery
// records. It holds no back-reference column; the owning side of the
// one-to-one relation is the vehicles table alone.
type gBattery struct {
	ID              int64 `gorm:"primaryKey"`
	Model           string
	Manufacturer    string
	Type            string
	Capacity        int
	ManufactureDate time.Time
	ChargeTime      float64
	IsFastCharge    bool
}

func (gb *gBattery) TableName() string {
	return "batteries"
}

// gVehicle persists one vehicle row, owning exactly one battery row
// through the battery_id foreign key (deleting a battery cascades to
// its owning vehicle at the DBMS level, while the repository removes
// the pair together explicitly).
type gVehicle struct {
	ID              int64 `gorm:"primaryKey"`
	Brand           string
	Model           string
	Manufacturer    string
	ManufactureDate time.Time
	MaxSpeed        float64
	Price           price `gorm:"type:numeric"`
	IsABS           bool  `gorm:"column:is_abs"`
	BatteryID       int64
	Battery         gBattery `gorm:"foreignKey:BatteryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (gv *gVehicle) TableName() string {
	return "vehicles"
}

func (gv *gVehicle) toModel() *model.Vehicle {
	return &model.Vehicle{
		ID:              gv.ID,
		Brand:           gv.Brand,
		Model:           gv.Model,
		Manufacturer:    gv.Manufacturer,
		ManufactureDate: gv.ManufactureDate.UTC(),
		MaxSpeed:        gv.MaxSpeed,
		Price:           gv.Price.Decimal,
		IsABS:           gv.IsABS,
		Battery:         *gv.Battery.toModel(),
	}
}

func (gb *gBattery) toModel() *model.Battery {
	return &model.Battery{
		ID:              gb.ID,
		Model:           gb.Model,
		Manufacturer:    gb.Manufacturer,
		Type:            gb.Type,
		Capacity:        gb.Capacity,
		ManufactureDate: gb.ManufactureDate.UTC(),
		ChargeTime:      gb.ChargeTime,
		IsFastCharge:    gb.IsFastCharge,
	}
}

func record(v *model.Vehicle) *gVehicle {
	return &gVehicle{
		ID:              v.ID,
		Brand:           v.Brand,
		Model:           v.Model,
		Manufacturer:    v.Manufacturer,
		ManufactureDate: v.ManufactureDate.UTC(),
		MaxSpeed:        v.MaxSpeed,
		Price:           price{v.Price},
		IsABS:           v.IsABS,
		BatteryID:       v.Battery.ID,
		Battery: gBattery{
			ID:              v.Battery.ID,
			Model:           v.Battery.Model,
			Manufacturer:    v.Battery.Manufacturer,
			Type:            v.Battery.Type,
			Capacity:        v.Battery.Capacity,
			ManufactureDate: v.Battery.ManufactureDate.UTC(),
			ChargeTime:      v.Battery.ChargeTime,
			IsFastCharge:    v.Battery.IsFastCharge,
		},
	}
}

// vehicleCols and batteryCols list the non-identity columns which are
// overwritten by the full-replace Update operation.
var (
	vehicleCols = []string{
		"brand", "model", "manufacturer", "manufacture_date",
		"max_speed", "price", "is_abs",
	}
	batteryCols = []string{
		"model", "manufacturer", "type", "capacity",
		"manufacture_date", "charge_time", "is_fast_charge",
	}
)

// Insert persists the v vehicle and its owned battery together,
// letting the store sequences assign both identities. The persisted
// model, with identities populated, is returned.
func Insert[Q postgres.Queryer](ctx context.Context, q Q, v *model.Vehicle) (*model.Vehicle, error) {
	gdb := q.GORM(ctx)
	gv := record(v)
	if err := gdb.Create(gv).Error; err != nil {
		return nil, fmt.Errorf("inserting vehicle: %w", err)
	}
	return gv.toModel(), nil
}

// FindAll returns all vehicles with their owned batteries, ordered by
// the vehicles identity column.
func FindAll[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Vehicle, error) {
	gdb := q.GORM(ctx)
	var gvs []gVehicle
	err := gdb.Preload("Battery").Order("id").Find(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	vs := make([]model.Vehicle, 0, len(gvs))
	for i := range gvs {
		vs = append(vs, *gvs[i].toModel())
	}
	return vs, nil
}

// FindByID returns the vid vehicle with its owned battery, or a
// cerr.NotFound error if no such row exists.
func FindByID[Q postgres.Queryer](ctx context.Context, q Q, vid int64) (*model.Vehicle, error) {
	gdb := q.GORM(ctx)
	var gv gVehicle
	err := gdb.Preload("Battery").First(&gv, "vehicles.id=?", vid).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no vehicle with id=%d", vid),
		)
	case err != nil:
		return nil, fmt.Errorf("finding vehicle: %w", err)
	}
	return gv.toModel(), nil
}

// Update overwrites every non-identity column of the v.ID vehicle row
// and its owned battery row from v, preserving both identities, and
// returns the updated model. A cerr.NotFound error is returned, with
// no mutation, if the vehicle identity does not exist.
func Update[Q postgres.Queryer](ctx context.Context, q Q, v *model.Vehicle) (*model.Vehicle, error) {
	gdb := q.GORM(ctx)
	var old gVehicle
	err := gdb.Select("id", "battery_id").First(&old, "id=?", v.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no vehicle with id=%d", v.ID),
		)
	case err != nil:
		return nil, fmt.Errorf("finding vehicle: %w", err)
	}
	v.Battery.ID = old.BatteryID
	gv := record(v)

	// the battery association is detached here; its row is updated
	// separately below
	bare := *gv
	bare.Battery = gBattery{}
	var gvs []gVehicle
	res := gdb.Model(&gvs).Clauses(clause.Returning{}).Select(
		vehicleCols,
	).Where(
		"id=?", gv.ID,
	).Updates(bare)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("updating vehicle row: %w", err)
	}
	if n := len(gvs); n != 1 {
		return nil, fmt.Errorf("expected one vehicle row, but got %d", n)
	}

	var gbs []gBattery
	res = gdb.Model(&gbs).Clauses(clause.Returning{}).Select(
		batteryCols,
	).Where(
		"id=?", gv.BatteryID,
	).Updates(gv.Battery)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("updating battery row: %w", err)
	}
	if n := len(gbs); n != 1 {
		return nil, fmt.Errorf("expected one battery row, but got %d", n)
	}

	updated := gvs[0]
	updated.Battery = gbs[0]
	return updated.toModel(), nil
}

// DeleteByID removes the vid vehicle row and its owned battery row and
// returns the model of the removed pair. A cerr.NotFound error is
// returned, with no mutation, if the vehicle identity does not exist.
func DeleteByID[Q postgres.Queryer](ctx context.Context, q Q, vid int64) (*model.Vehicle, error) {
	v, err := FindByID(ctx, q, vid)
	if err != nil {
		return nil, err
	}
	gdb := q.GORM(ctx)
	if err := gdb.Delete(&gVehicle{}, v.ID).Error; err != nil {
		return nil, fmt.Errorf("deleting vehicle row: %w", err)
	}
	if err := gdb.Delete(&gBattery{}, v.Battery.ID).Error; err != nil {
		return nil, fmt.Errorf("deleting battery row: %w", err)
	}
	return v, nil
}

// InitSchema creates or updates the vehicles and batteries tables.
// It backs the "db init" command and the integration test suites;
// there is no versioned migration scheme in this project.
func InitSchema(ctx context.Context, c *postgres.Conn) error {
	gdb := c.GORM(ctx)
	if err := gdb.AutoMigrate(&gBattery{}, &gVehicle{}); err != nil {
		return fmt.Errorf("migrating tables: %w", err)
	}
	// the constraint is dropped and re-added, so a schema update may
	// change its definition
	_, err := c.Exec(
		ctx,
		`ALTER TABLE vehicles
    DROP CONSTRAINT IF EXISTS vehicles_price_check`,
	)
	if err != nil {
		return fmt.Errorf("dropping price check constraint: %w", err)
	}
	_, err = c.Exec(
		ctx,
		`ALTER TABLE vehicles
    ADD CONSTRAINT vehicles_price_check CHECK (price >= 0)`,
	)
	if err != nil {
		return fmt.Errorf("adding price check constraint: %w", err)
	}
	return nil
}

// CheckSchema verifies that the batteries and vehicles tables exist
// in the current schema, without mutating anything, so a deployment
// may assert that "db init" has been run against its DBMS.
func CheckSchema[Q postgres.Queryer](ctx context.Context, q Q) error {
	rows, err := q.Query(
		ctx,
		`SELECT tablename::text FROM pg_tables
    WHERE schemaname = current_schema()
    AND tablename IN ('batteries', 'vehicles')`,
	)
	if err != nil {
		return fmt.Errorf("querying pg_tables: %w", err)
	}
	defer rows.Close()
	seen := make(map[string]bool, 2)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return fmt.Errorf("reading pg_tables row: %w", err)
		}
		switch name := vals[0].(type) {
		case string:
			seen[name] = true
		case []byte:
			seen[string(name)] = true
		default:
			return fmt.Errorf("unexpected tablename type: %T", vals[0])
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating pg_tables rows: %w", err)
	}
	for _, table := range []string{"batteries", "vehicles"} {
		if !seen[table] {
			return fmt.Errorf("missing the %s table", table)
		}
	}
	return nil
}
