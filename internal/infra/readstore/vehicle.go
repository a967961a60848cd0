package readstore

import (
	"context"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(db db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: db}
}

const vehicleViewColumns = `id, name, brand, model, license_plate, daily_rate, location, status, created_at`

func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	query := `SELECT ` + vehicleViewColumns + ` FROM vehicles WHERE id = $1`

	v := &queries.VehicleView{}
	var createdAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Brand, &v.Model, &v.LicensePlate,
		&v.DailyRate, &v.Location, &v.Status, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return v, nil
}

func (r *VehicleReadStore) List(ctx context.Context, limit int32) ([]*queries.VehicleView, error) {
	query := `SELECT ` + vehicleViewColumns + `
		FROM vehicles
		WHERE status <> 'retired'
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vehicles", err)
	}
	defer rows.Close()

	var result []*queries.VehicleView
	for rows.Next() {
		v := &queries.VehicleView{}
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Brand, &v.Model, &v.LicensePlate,
			&v.DailyRate, &v.Location, &v.Status, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan vehicle", err)
		}
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate vehicles", err)
	}
	return result, nil
}
