// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehicleuc_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/momeni/vehweb/pkg/core/cerr"
	"github.com/momeni/vehweb/pkg/core/model"
	"github.com/momeni/vehweb/pkg/core/repo"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps vehicles in an identity-keyed map, replicating the
// repository contract: identities are assigned on insertion, both
// identities are preserved on update, and single-identity operations
// return a cerr.NotFound error without mutating the map when the id
// is absent.
type fakeStore struct {
	nextVID  int64
	nextBID  int64
	vehicles map[int64]model.Vehicle
}

func newFakeStore() *fakeStore {
	return &fakeStore{vehicles: make(map[int64]model.Vehicle)}
}

func (s *fakeStore) Insert(
	_ context.Context, v *model.Vehicle,
) (*model.Vehicle, error) {
	s.nextVID++
	s.nextBID++
	saved := *v
	saved.ID = s.nextVID
	saved.Battery.ID = s.nextBID
	s.vehicles[saved.ID] = saved
	return &saved, nil
}

func (s *fakeStore) FindAll(_ context.Context) ([]model.Vehicle, error) {
	vs := make([]model.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].ID < vs[j].ID
	})
	return vs, nil
}

func (s *fakeStore) FindByID(
	_ context.Context, vid int64,
) (*model.Vehicle, error) {
	v, ok := s.vehicles[vid]
	if !ok {
		return nil, cerr.NotFound(errors.New("no such vehicle"))
	}
	return &v, nil
}

func (s *fakeStore) Update(
	ctx context.Context, v *model.Vehicle,
) (*model.Vehicle, error) {
	old, err := s.FindByID(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	saved := *v
	saved.Battery.ID = old.Battery.ID
	s.vehicles[saved.ID] = saved
	return &saved, nil
}

func (s *fakeStore) DeleteByID(
	ctx context.Context, vid int64,
) (*model.Vehicle, error) {
	v, err := s.FindByID(ctx, vid)
	if err != nil {
		return nil, err
	}
	delete(s.vehicles, vid)
	return v, nil
}

type fakePool struct {
	store *fakeStore
}

func (p *fakePool) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &fakeConn{store: p.store})
}

type fakeConn struct {
	store *fakeStore
}

func (c *fakeConn) Exec(
	context.Context, string, ...any,
) (int64, error) {
	return 0, nil
}

func (c *fakeConn) Query(
	context.Context, string, ...any,
) (repo.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) Tx(ctx context.Context, f repo.TxHandler) error {
	return f(ctx, &fakeTx{fakeConn{store: c.store}})
}

func (c *fakeConn) IsConn() {}

type fakeTx struct {
	fakeConn
}

func (tx *fakeTx) IsTx() {}

type fakeVehicles struct{}

func (fakeVehicles) Conn(c repo.Conn) repo.VehiclesConnQueryer {
	return c.(*fakeConn).store
}

func (fakeVehicles) Tx(tx repo.Tx) repo.VehiclesTxQueryer {
	return tx.(*fakeTx).store
}

func newUseCase() (*vehicleuc.UseCase, *fakeStore) {
	s := newFakeStore()
	return vehicleuc.New(&fakePool{store: s}, fakeVehicles{}), s
}

func sampleReq() *vehicleuc.VehicleRequest {
	return &vehicleuc.VehicleRequest{
		Brand:           "Tesla",
		Model:           "Model 3",
		Manufacturer:    "Tesla Inc.",
		ManufactureDate: "2022-03-01T00:00:00",
		MaxSpeed:        261,
		Price:           "39999.99",
		IsABS:           true,
		Battery: vehicleuc.BatteryRequest{
			Model:           "2170L",
			Manufacturer:    "Panasonic",
			Type:            "Li-ion",
			Capacity:        82000,
			ManufactureDate: "2022-01-15T08:30:00",
			ChargeTime:      8.5,
			IsFastCharge:    true,
		},
	}
}

func TestCreateAndReadByID(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()
	req := sampleReq()

	created, err := uc.Create(ctx, req)
	require.NoError(t, err, "creation must succeed")
	require.NotZero(t, created.ID, "vehicle id must be assigned")
	require.NotZero(t, created.Battery.ID, "battery id must be assigned")

	read, err := uc.ReadByID(ctx, created.ID)
	require.NoError(t, err, "reading back must succeed")
	require.Equal(t, created, read, "read back a different vehicle")
	require.Equal(t, "Tesla", read.Brand)
	require.Equal(t, "Model 3", read.Model)
	require.Equal(t, "2022-03-01T00:00:00", read.ManufactureDate)
	require.Equal(t, "39999.99", read.Price, "price must be exact")
	require.Equal(t, 82000, read.Battery.Capacity)
	require.True(t, read.Battery.IsFastCharge)
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	resps, err := uc.Read(ctx)
	require.NoError(t, err)
	require.Empty(t, resps, "store starts out empty")

	v1, err := uc.Create(ctx, sampleReq())
	require.NoError(t, err)
	req2 := sampleReq()
	req2.Model = "Model Y"
	v2, err := uc.Create(ctx, req2)
	require.NoError(t, err)

	resps, err = uc.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []*vehicleuc.VehicleResponse{v1, v2}, resps)
}

func TestUpdateByID(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	created, err := uc.Create(ctx, sampleReq())
	require.NoError(t, err)

	req := sampleReq()
	req.Model = "Model S"
	req.Price = "79999.00"
	req.Battery.Capacity = 100000
	updated, err := uc.UpdateByID(ctx, created.ID, req)
	require.NoError(t, err, "update must succeed")
	require.Equal(t, created.ID, updated.ID, "vehicle id is preserved")
	require.Equal(
		t, created.Battery.ID, updated.Battery.ID,
		"battery id is preserved",
	)
	require.Equal(t, "Model S", updated.Model)
	require.Equal(t, "79999.00", updated.Price)
	require.Equal(t, 100000, updated.Battery.Capacity)

	read, err := uc.ReadByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, read, "update must be persisted")
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase()

	created, err := uc.Create(ctx, sampleReq())
	require.NoError(t, err)

	deleted, err := uc.DeleteByID(ctx, created.ID)
	require.NoError(t, err, "deletion must succeed")
	require.Equal(
		t, created, deleted, "deletion reports the removed records",
	)
	require.Empty(t, store.vehicles, "store must be empty again")

	_, err = uc.ReadByID(ctx, created.ID)
	require.True(t, cerr.IsNotFound(err), "read after delete: %v", err)
}

func TestAbsentIdentity(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase()

	created, err := uc.Create(ctx, sampleReq())
	require.NoError(t, err)
	missing := created.ID + 1000

	_, err = uc.ReadByID(ctx, missing)
	require.True(t, cerr.IsNotFound(err), "expected not-found: %v", err)

	_, err = uc.UpdateByID(ctx, missing, sampleReq())
	require.True(t, cerr.IsNotFound(err), "expected not-found: %v", err)

	_, err = uc.DeleteByID(ctx, missing)
	require.True(t, cerr.IsNotFound(err), "expected not-found: %v", err)

	require.Equal(
		t, 1, len(store.vehicles),
		"absent-identity operations must not mutate the store",
	)
}

func TestMalformedPayload(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase()

	for _, tc := range []struct {
		name   string
		mutate func(req *vehicleuc.VehicleRequest)
	}{
		{
			name: "bad vehicle date",
			mutate: func(req *vehicleuc.VehicleRequest) {
				req.ManufactureDate = "01/03/2022"
			},
		},
		{
			name: "bad battery date",
			mutate: func(req *vehicleuc.VehicleRequest) {
				req.Battery.ManufactureDate = "yesterday"
			},
		},
		{
			name: "bad price",
			mutate: func(req *vehicleuc.VehicleRequest) {
				req.Price = "about forty grand"
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleReq()
			tc.mutate(req)
			_, err := uc.Create(ctx, req)
			require.Error(t, err, "malformed payload must be rejected")
			require.Empty(
				t, store.vehicles,
				"parsing failures precede store interactions",
			)
		})
	}
}
