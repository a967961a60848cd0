//go:build unit || e2e

package builder

import (
	"time"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationBuilder struct {
	ID             uuid.UUID
	VehicleID      uuid.UUID
	VehicleName    string
	UserID         uuid.UUID
	Status         string
	StartDate      time.Time
	EndDate        time.Time
	StartTime      *string
	EndTime        *string
	PickupLocation string
	ReturnLocation string
	CouponCode     *string
	DailyRate      decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return &ReservationBuilder{
		ID:             uuid.New(),
		VehicleID:      uuid.New(),
		VehicleName:    "Toyota Vios",
		UserID:         uuid.New(),
		Status:         "pending",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 2),
		PickupLocation: "District 1, Ho Chi Minh City",
		ReturnLocation: "District 1, Ho Chi Minh City",
		DailyRate:      decimal.NewFromInt(900000),
		Total:          decimal.NewFromInt(2700000),
		CreatedAt:      now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildCreateRequestDTO() request.CreateReservation {
	return request.CreateReservation{
		VehicleID:      b.VehicleID,
		StartDate:      b.StartDate.Format("2006-01-02"),
		EndDate:        b.EndDate.Format("2006-01-02"),
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		PickupLocation: b.PickupLocation,
		ReturnLocation: b.ReturnLocation,
		CouponCode:     b.CouponCode,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:              b.ID,
		VehicleID:       b.VehicleID,
		VehicleName:     b.VehicleName,
		UserID:          b.UserID,
		Status:          b.Status,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		StartsAt:        b.StartDate,
		EndsAt:          b.EndDate.AddDate(0, 0, 1).Add(-time.Second),
		RentalDays:      3,
		RentalHours:     0,
		BasePrice:       b.Total,
		DeliveryFee:     decimal.Zero,
		PickupReturnFee: decimal.Zero,
		AdditionalFee:   decimal.Zero,
		Discount:        decimal.Zero,
		LateFee:         decimal.Zero,
		Total:           b.Total,
		CouponCode:      b.CouponCode,
		PickupLocation:  b.PickupLocation,
		ReturnLocation:  b.ReturnLocation,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.CreatedAt,
	}
}

func (b *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:          b.ID,
		VehicleID:   b.VehicleID,
		VehicleName: b.VehicleName,
		Status:      b.Status,
		StartsAt:    b.StartDate,
		EndsAt:      b.EndDate.AddDate(0, 0, 1).Add(-time.Second),
		Total:       b.Total,
		CreatedAt:   b.CreatedAt,
	}
}
