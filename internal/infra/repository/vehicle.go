package repository

import (
	"context"

	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(db db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `
		INSERT INTO vehicles (id, name, brand, model, license_plate, daily_rate, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		v.ID(), v.Name(), v.Brand(), v.Model(), v.LicensePlate(),
		v.DailyRate(), v.Location(), v.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create vehicle", err)
	}
	return nil
}

// FindByIDForUpdate locks the vehicle row. Concurrent reservation creations
// for the same vehicle queue behind this lock, which makes the subsequent
// conflict check race-free.
func (r *VehicleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	const query = `
		SELECT id, name, brand, model, license_plate, daily_rate, location, status, created_at, updated_at
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`

	var (
		vid                  uuid.UUID
		name, brand, model   string
		licensePlate         string
		dailyRate            decimal.Decimal
		location, status     string
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vid, &name, &brand, &model, &licensePlate,
		&dailyRate, &location, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle for update", err)
	}

	return vehicle.ReconstructVehicle(
		vid, name, brand, model, licensePlate, dailyRate, location,
		vehicle.Status(status),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *VehicleRepository) UpdateStatus(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, v.ID(), v.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to update vehicle status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}
