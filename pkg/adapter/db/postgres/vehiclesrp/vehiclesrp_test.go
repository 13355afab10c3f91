// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehiclesrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/momeni/vehweb/internal/test/dbcontainer"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/vehweb/pkg/core/model"
	"github.com/momeni/vehweb/pkg/core/repo"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IntegrationVehiclesRPTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pool *postgres.Pool
}

func TestIntegrationVehiclesRPTestSuite(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationVehiclesRPTestSuite{
		Ctx:  ctx,
		Pool: pool,
	})
}

func (ivts *IntegrationVehiclesRPTestSuite) SetupSuite() {
	err := ivts.Pool.Conn(
		ivts.Ctx, func(ctx context.Context, c repo.Conn) error {
			cc := c.(*postgres.Conn)
			ivts.Error(
				vehiclesrp.CheckSchema(ctx, cc),
				"check must fail before the tables are created",
			)
			if err := vehiclesrp.InitSchema(ctx, cc); err != nil {
				return err
			}
			return vehiclesrp.CheckSchema(ctx, cc)
		},
	)
	ivts.Require().NoError(err, "failed to create schema tables")
}

// withConn runs f with an acquired connection and requires that it
// reports no error.
func (ivts *IntegrationVehiclesRPTestSuite) withConn(
	f func(ctx context.Context, cc *postgres.Conn) error,
) {
	err := ivts.Pool.Conn(
		ivts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return f(ctx, c.(*postgres.Conn))
		},
	)
	ivts.Require().NoError(err)
}

func sampleVehicle(p decimal.Decimal) *model.Vehicle {
	return &model.Vehicle{
		Brand:           "Tesla",
		Model:           "Model 3",
		Manufacturer:    "Tesla, Inc.",
		ManufactureDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		MaxSpeed:        261,
		Price:           p,
		IsABS:           true,
		Battery: model.Battery{
			Model:           "2170L",
			Manufacturer:    "Panasonic",
			Type:            "Lithium-Ion",
			Capacity:        82,
			ManufactureDate: time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
			ChargeTime:      8.5,
			IsFastCharge:    true,
		},
	}
}

func (ivts *IntegrationVehiclesRPTestSuite) TestCheckSchemaInTx() {
	err := ivts.Pool.Conn(
		ivts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				return vehiclesrp.CheckSchema(ctx, tx.(*postgres.Tx))
			})
		},
	)
	ivts.NoError(err)
}

func (ivts *IntegrationVehiclesRPTestSuite) TestPriceScaleOverStore() {
	ivts.withConn(func(ctx context.Context, cc *postgres.Conn) error {
		d, err := decimal.NewFromString("39999.00")
		if err != nil {
			return err
		}
		created, err := vehiclesrp.Insert(ctx, cc, sampleVehicle(d))
		if err != nil {
			return err
		}
		ivts.NotZero(created.ID)
		ivts.NotZero(created.Battery.ID)

		found, err := vehiclesrp.FindByID(ctx, cc, created.ID)
		if err != nil {
			return err
		}
		ivts.Equal("39999.00", vehicleuc.FormatPrice(found.Price))

		found.Price, err = decimal.NewFromString("79999.00")
		if err != nil {
			return err
		}
		updated, err := vehiclesrp.Update(ctx, cc, found)
		if err != nil {
			return err
		}
		ivts.Equal("79999.00", vehicleuc.FormatPrice(updated.Price))

		found, err = vehiclesrp.FindByID(ctx, cc, created.ID)
		if err != nil {
			return err
		}
		ivts.Equal("79999.00", vehicleuc.FormatPrice(found.Price))
		return nil
	})
}

func (ivts *IntegrationVehiclesRPTestSuite) TestNegativePriceRejected() {
	ivts.withConn(func(ctx context.Context, cc *postgres.Conn) error {
		d, err := decimal.NewFromString("-1.00")
		if err != nil {
			return err
		}
		_, err = vehiclesrp.Insert(ctx, cc, sampleVehicle(d))
		ivts.ErrorContains(err, "vehicles_price_check")
		return nil
	})
}
