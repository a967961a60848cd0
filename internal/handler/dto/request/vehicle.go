package request

import (
	"fleetbook/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type CreateVehicle struct {
	Name         string          `json:"name" binding:"required"`
	Brand        string          `json:"brand,omitempty"`
	Model        string          `json:"model,omitempty"`
	LicensePlate string          `json:"license_plate" binding:"required"`
	DailyRate    decimal.Decimal `json:"daily_rate" binding:"required"`
	Location     string          `json:"location,omitempty"`
}

func (r CreateVehicle) ToInput() commands.CreateVehicleInput {
	return commands.CreateVehicleInput{
		Name:         r.Name,
		Brand:        r.Brand,
		Model:        r.Model,
		LicensePlate: r.LicensePlate,
		DailyRate:    r.DailyRate,
		Location:     r.Location,
	}
}
