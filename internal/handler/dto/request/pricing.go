package request

import (
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Quote struct {
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

func (r Quote) ToQuery() (queries.QuoteRequest, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return queries.QuoteRequest{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return queries.QuoteRequest{}, err
	}
	return queries.QuoteRequest{
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

type ValidateCoupon struct {
	Code     string           `json:"code" binding:"required"`
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
}
