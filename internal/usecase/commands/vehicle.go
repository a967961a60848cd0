package commands

import (
	"context"

	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrDuplicateLicensePlate = errs.New("license plate already registered")

type CreateVehicleInput struct {
	Name         string
	Brand        string
	Model        string
	LicensePlate string
	DailyRate    decimal.Decimal
	Location     string
}

type VehicleCommands interface {
	Create(ctx context.Context, input CreateVehicleInput) (uuid.UUID, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type vehicleCommands struct {
	uow shared.UnitOfWork
}

func NewVehicleCommands(uow shared.UnitOfWork) VehicleCommands {
	return &vehicleCommands{uow: uow}
}

func (c *vehicleCommands) Create(ctx context.Context, input CreateVehicleInput) (uuid.UUID, error) {
	entity, err := vehicle.NewVehicle(
		input.Name, input.Brand, input.Model, input.LicensePlate,
		input.DailyRate, input.Location,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Vehicles().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateLicensePlate
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return entity.ID(), nil
}

func (c *vehicleCommands) Deactivate(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Vehicles().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVehicleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := entity.Deactivate(); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tx.Vehicles().UpdateStatus(ctx, entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
