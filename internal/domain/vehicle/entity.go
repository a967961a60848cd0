package vehicle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName          = errors.New("vehicle name cannot be empty")
	ErrEmptyLicensePlate  = errors.New("license plate cannot be empty")
	ErrNonPositiveRate    = errors.New("daily rate must be positive")
	ErrInvalidStatus      = errors.New("invalid vehicle status")
	ErrVehicleNotBookable = errors.New("vehicle is not available for booking")
	ErrAlreadyDeactivated = errors.New("vehicle is already deactivated")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusRetired:
		return true
	default:
		return false
	}
}

// hoursPerRateUnit sets the hourly rate at one third of the daily rate.
var hoursPerRateUnit = decimal.NewFromInt(3)

type Vehicle struct {
	id           uuid.UUID
	name         string
	brand        string
	model        string
	licensePlate string
	dailyRate    decimal.Decimal
	location     string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func NewVehicle(
	name, brand, model, licensePlate string,
	dailyRate decimal.Decimal,
	location string,
) (*Vehicle, error) {
	name = strings.TrimSpace(name)
	licensePlate = strings.TrimSpace(licensePlate)
	if name == "" {
		return nil, ErrEmptyName
	}
	if licensePlate == "" {
		return nil, ErrEmptyLicensePlate
	}
	if !dailyRate.IsPositive() {
		return nil, ErrNonPositiveRate
	}

	return &Vehicle{
		id:           uuid.New(),
		name:         name,
		brand:        strings.TrimSpace(brand),
		model:        strings.TrimSpace(model),
		licensePlate: licensePlate,
		dailyRate:    dailyRate,
		location:     strings.TrimSpace(location),
		status:       StatusAvailable,
	}, nil
}

func ReconstructVehicle(
	id uuid.UUID,
	name, brand, model, licensePlate string,
	dailyRate decimal.Decimal,
	location string,
	status Status,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:           id,
		name:         name,
		brand:        brand,
		model:        model,
		licensePlate: licensePlate,
		dailyRate:    dailyRate,
		location:     location,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (v *Vehicle) IsBookable() bool {
	return v.status == StatusAvailable
}

// HourlyRate derives the per-hour rate from the daily rate.
func (v *Vehicle) HourlyRate() decimal.Decimal {
	return v.dailyRate.Div(hoursPerRateUnit)
}

func (v *Vehicle) Deactivate() error {
	if v.status == StatusRetired {
		return ErrAlreadyDeactivated
	}
	v.status = StatusRetired
	return nil
}

func (v *Vehicle) SetMaintenance() {
	if v.status == StatusAvailable {
		v.status = StatusMaintenance
	}
}

func (v *Vehicle) Reactivate() {
	if v.status == StatusMaintenance {
		v.status = StatusAvailable
	}
}

func (v *Vehicle) ID() uuid.UUID              { return v.id }
func (v *Vehicle) Name() string               { return v.name }
func (v *Vehicle) Brand() string              { return v.brand }
func (v *Vehicle) Model() string              { return v.model }
func (v *Vehicle) LicensePlate() string       { return v.licensePlate }
func (v *Vehicle) DailyRate() decimal.Decimal { return v.dailyRate }
func (v *Vehicle) Location() string           { return v.location }
func (v *Vehicle) Status() Status             { return v.status }
func (v *Vehicle) CreatedAt() time.Time       { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time       { return v.updatedAt }
