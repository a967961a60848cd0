//go:build unit || e2e

package builder

import (
	"time"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VehicleBuilder struct {
	ID           uuid.UUID
	Name         string
	Brand        string
	Model        string
	LicensePlate string
	DailyRate    decimal.Decimal
	Location     string
	Status       string
	CreatedAt    time.Time
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		ID:           uuid.New(),
		Name:         "Toyota Vios",
		Brand:        "Toyota",
		Model:        "Vios 1.5G",
		LicensePlate: "51K-123.45",
		DailyRate:    decimal.NewFromInt(900000),
		Location:     "District 1, Ho Chi Minh City",
		Status:       "available",
		CreatedAt:    time.Now().UTC(),
	}
}

func (b *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(b)
	return b
}

func (b *VehicleBuilder) BuildCreateRequestDTO() request.CreateVehicle {
	return request.CreateVehicle{
		Name:         b.Name,
		Brand:        b.Brand,
		Model:        b.Model,
		LicensePlate: b.LicensePlate,
		DailyRate:    b.DailyRate,
		Location:     b.Location,
	}
}

func (b *VehicleBuilder) BuildView() *queries.VehicleView {
	return &queries.VehicleView{
		ID:           b.ID,
		Name:         b.Name,
		Brand:        b.Brand,
		Model:        b.Model,
		LicensePlate: b.LicensePlate,
		DailyRate:    b.DailyRate,
		Location:     b.Location,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
}
