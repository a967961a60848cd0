package queries

import (
	"context"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponNotFound = errs.New("coupon not found")
	ErrInvalidPeriod  = errs.New("invalid rental period")
)

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponView, error)
}

type QuoteRequest struct {
	VehicleID        uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	StartTime        *string
	EndTime          *string
	PickupLocation   string
	ReturnLocation   string
	DeliveryLocation *string
	CouponCode       *string
}

// QuoteView is a non-binding price preview. The binding price is computed
// again when the reservation is created.
type QuoteView struct {
	VehicleID       uuid.UUID       `json:"vehicle_id"`
	RentalDays      int32           `json:"rental_days"`
	RentalHours     int32           `json:"rental_hours"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	PickupReturnFee decimal.Decimal `json:"pickup_return_fee"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CouponCode      *string         `json:"coupon_code,omitempty"`
	CouponRejection *string         `json:"coupon_rejection,omitempty"`
}

type CouponValidation struct {
	Code              string           `json:"code"`
	Valid             bool             `json:"valid"`
	Reason            *string          `json:"reason,omitempty"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinOrderValue     decimal.Decimal  `json:"min_order_value"`
	MaxDiscount       *decimal.Decimal `json:"max_discount,omitempty"`
	EstimatedDiscount *decimal.Decimal `json:"estimated_discount,omitempty"`
}

type PricingQueries interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteView, error)
	// ValidateCoupon previews whether a coupon applies; with a subtotal it
	// also estimates the discount.
	ValidateCoupon(ctx context.Context, code string, subtotal *decimal.Decimal) (*CouponValidation, error)
}

type pricingQueries struct {
	vehicles VehicleReadStore
	coupons  CouponReadStore
	pricer   *reservation.Pricer
	clock    clock.Clock
}

func NewPricingQueries(vehicles VehicleReadStore, coupons CouponReadStore, pricer *reservation.Pricer, clk clock.Clock) PricingQueries {
	return &pricingQueries{
		vehicles: vehicles,
		coupons:  coupons,
		pricer:   pricer,
		clock:    clk,
	}
}

func (q *pricingQueries) Quote(ctx context.Context, req QuoteRequest) (*QuoteView, error) {
	period, err := periodFromRequest(req)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPeriod)
	}

	vehicleView, err := q.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	breakdown := q.pricer.Quote(ctx, reservation.QuoteInput{
		DailyRate:        vehicleView.DailyRate,
		Period:           period,
		PickupLocation:   req.PickupLocation,
		ReturnLocation:   req.ReturnLocation,
		DeliveryLocation: req.DeliveryLocation,
	})

	view := &QuoteView{
		VehicleID:       req.VehicleID,
		RentalDays:      int32(breakdown.RentalDays),
		RentalHours:     int32(breakdown.RentalHours),
		BasePrice:       breakdown.Base,
		DeliveryFee:     breakdown.DeliveryFee,
		PickupReturnFee: breakdown.PickupReturnFee,
		Discount:        decimal.Zero,
		Total:           breakdown.Total,
	}

	if req.CouponCode != nil && *req.CouponCode != "" {
		view.CouponCode = req.CouponCode
		entity, err := q.loadCoupon(ctx, *req.CouponCode)
		if err != nil {
			return nil, err
		}

		validationErr := entity.ValidateAt(q.clock.Now())
		switch {
		case validationErr != nil:
			reason := validationErr.Error()
			view.CouponRejection = &reason
		case !entity.MeetsMinOrder(breakdown.Subtotal()):
			reason := coupon.ErrBelowMinOrder.Error()
			view.CouponRejection = &reason
		default:
			discounted := breakdown.ApplyDiscount(entity.CalculateDiscount(breakdown.Subtotal()))
			view.Discount = discounted.Discount
			view.Total = discounted.Total
		}
	}

	return view, nil
}

func (q *pricingQueries) ValidateCoupon(ctx context.Context, code string, subtotal *decimal.Decimal) (*CouponValidation, error) {
	entity, err := q.loadCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &CouponValidation{
		Code:          entity.Code(),
		Valid:         true,
		DiscountType:  string(entity.DiscountType()),
		DiscountValue: entity.DiscountValue(),
		MinOrderValue: entity.MinOrderValue(),
		MaxDiscount:   entity.MaxDiscount(),
	}

	if err := entity.ValidateAt(q.clock.Now()); err != nil {
		reason := err.Error()
		result.Valid = false
		result.Reason = &reason
		return result, nil
	}

	if subtotal != nil {
		if !entity.MeetsMinOrder(*subtotal) {
			reason := coupon.ErrBelowMinOrder.Error()
			result.Valid = false
			result.Reason = &reason
			return result, nil
		}
		estimated := entity.CalculateDiscount(*subtotal)
		result.EstimatedDiscount = &estimated
	}

	return result, nil
}

func (q *pricingQueries) loadCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	view, err := q.coupons.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return coupon.ReconstructCoupon(
		view.ID, view.Code, view.Description,
		coupon.DiscountType(view.DiscountType),
		view.DiscountValue, view.MinOrderValue, view.MaxDiscount,
		view.ValidFrom, view.ValidTo,
		view.UsageLimit, view.UsedCount, view.IsActive,
		time.Time{}, time.Time{},
	), nil
}

func periodFromRequest(req QuoteRequest) (reservation.Period, error) {
	var st, et *reservation.TimeOfDay
	if req.StartTime != nil && *req.StartTime != "" {
		v, err := reservation.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return reservation.Period{}, err
		}
		st = &v
	}
	if req.EndTime != nil && *req.EndTime != "" {
		v, err := reservation.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return reservation.Period{}, err
		}
		et = &v
	}
	return reservation.NewPeriod(req.StartDate, req.EndDate, st, et)
}
