package request

import (
	"time"

	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/commands"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errs.New("invalid date, expected YYYY-MM-DD")

type CreateReservation struct {
	VehicleID        uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate        string    `json:"start_date" binding:"required"`
	EndDate          string    `json:"end_date" binding:"required"`
	StartTime        *string   `json:"start_time,omitempty"`
	EndTime          *string   `json:"end_time,omitempty"`
	PickupLocation   string    `json:"pickup_location" binding:"required"`
	ReturnLocation   string    `json:"return_location,omitempty"`
	DeliveryLocation *string   `json:"delivery_location,omitempty"`
	CouponCode       *string   `json:"coupon_code,omitempty"`
}

func (r CreateReservation) ToInput() (commands.CreateReservationInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		VehicleID:        r.VehicleID,
		StartDate:        start,
		EndDate:          end,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		PickupLocation:   r.PickupLocation,
		ReturnLocation:   r.ReturnLocation,
		DeliveryLocation: r.DeliveryLocation,
		CouponCode:       r.CouponCode,
	}, nil
}

type MarkReturned struct {
	ActualReturn time.Time `json:"actual_return" binding:"required"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errs.Mark(err, ErrInvalidDate)
	}
	return t, nil
}
