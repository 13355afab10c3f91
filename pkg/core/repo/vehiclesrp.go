package repo

import (
	"context"

	"github.com/momeni/vehweb/pkg/core/model"
)

type VehiclesConnQueryer interface {
	VehiclesQueryer
}

type VehiclesTxQueryer interface {
	VehiclesQueryer
}

// VehiclesQueryer lists the vehicles repository operations. The store
// is treated as an opaque identity-keyed mapping; no ordering behavior
// beyond the identity-keyed lookup may be assumed by callers.
//
// A vehicle and its owned battery form a single atomic unit: Insert
// persists both together (assigning both identities), Update replaces
// the fields of both in place (preserving both identities), and
// DeleteByID removes both. Single-identity operations return a
// cerr.NotFound error when the id does not exist and leave the store
// unchanged in that case.
type VehiclesQueryer interface {
	Insert(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error)
	FindAll(ctx context.Context) ([]model.Vehicle, error)
	FindByID(ctx context.Context, vid int64) (*model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error)
	DeleteByID(ctx context.Context, vid int64) (*model.Vehicle, error)
}

type Vehicles interface {
	Conn(Conn) VehiclesConnQueryer
	Tx(Tx) VehiclesTxQueryer
}
