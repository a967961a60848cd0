package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrHoldExpired       = errors.New("reservation hold has expired")
	ErrHoldNotExpired    = errors.New("reservation hold has not expired yet")
	ErrMissingLocation   = errors.New("pickup location is required")
	ErrReturnBeforeStart = errors.New("actual return precedes rental start")
)

// Reservation is the aggregate root for a vehicle booking. The daily rate is
// snapshotted at creation so later rate changes never alter what was quoted.
type Reservation struct {
	id               uuid.UUID
	vehicleID        uuid.UUID
	userID           uuid.UUID
	period           Period
	status           Status
	holdDeadline     *time.Time
	dailyRate        decimal.Decimal
	breakdown        PriceBreakdown
	couponID         *uuid.UUID
	couponCode       *string
	pickupLocation   string
	returnLocation   string
	deliveryLocation *string
	actualReturn     *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

type NewReservationParams struct {
	VehicleID        uuid.UUID
	UserID           uuid.UUID
	Period           Period
	DailyRate        decimal.Decimal
	Breakdown        PriceBreakdown
	CouponID         *uuid.UUID
	CouponCode       *string
	PickupLocation   string
	ReturnLocation   string
	DeliveryLocation *string
}

func NewReservation(p NewReservationParams) (*Reservation, error) {
	if p.PickupLocation == "" {
		return nil, ErrMissingLocation
	}
	returnLocation := p.ReturnLocation
	if returnLocation == "" {
		returnLocation = p.PickupLocation
	}

	return &Reservation{
		id:               uuid.New(),
		vehicleID:        p.VehicleID,
		userID:           p.UserID,
		period:           p.Period,
		status:           StatusPending,
		dailyRate:        p.DailyRate,
		breakdown:        p.Breakdown,
		couponID:         p.CouponID,
		couponCode:       p.CouponCode,
		pickupLocation:   p.PickupLocation,
		returnLocation:   returnLocation,
		deliveryLocation: p.DeliveryLocation,
	}, nil
}

type ReconstructParams struct {
	ID               uuid.UUID
	VehicleID        uuid.UUID
	UserID           uuid.UUID
	Period           Period
	Status           Status
	HoldDeadline     *time.Time
	DailyRate        decimal.Decimal
	Breakdown        PriceBreakdown
	CouponID         *uuid.UUID
	CouponCode       *string
	PickupLocation   string
	ReturnLocation   string
	DeliveryLocation *string
	ActualReturn     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructReservation(p ReconstructParams) *Reservation {
	return &Reservation{
		id:               p.ID,
		vehicleID:        p.VehicleID,
		userID:           p.UserID,
		period:           p.Period,
		status:           p.Status,
		holdDeadline:     p.HoldDeadline,
		dailyRate:        p.DailyRate,
		breakdown:        p.Breakdown,
		couponID:         p.CouponID,
		couponCode:       p.CouponCode,
		pickupLocation:   p.PickupLocation,
		returnLocation:   p.ReturnLocation,
		deliveryLocation: p.DeliveryLocation,
		actualReturn:     p.ActualReturn,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}

// Reserve places a timed hold on the vehicle. Calling it again while the
// hold is still active is a no-op so clients can safely retry.
func (r *Reservation) Reserve(now time.Time, holdMinutes int) error {
	if r.status == StatusReserved {
		return nil
	}
	if !r.status.CanTransitionTo(StatusReserved) {
		return ErrInvalidTransition
	}
	deadline := now.Add(time.Duration(holdMinutes) * time.Minute)
	r.status = StatusReserved
	r.holdDeadline = &deadline
	return nil
}

// Confirm settles the reservation after payment. A hold whose deadline has
// passed cannot be confirmed even if the sweeper has not reached it yet.
func (r *Reservation) Confirm(now time.Time) error {
	if !r.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	if r.holdDeadline != nil && now.After(*r.holdDeadline) {
		return ErrHoldExpired
	}
	r.status = StatusConfirmed
	r.holdDeadline = nil
	return nil
}

func (r *Reservation) Cancel() error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	r.status = StatusCancelled
	r.holdDeadline = nil
	return nil
}

// Expire reclaims a stale hold. Only the sweeper calls this.
func (r *Reservation) Expire(now time.Time) error {
	if !r.status.CanTransitionTo(StatusExpired) {
		return ErrInvalidTransition
	}
	if r.holdDeadline == nil || !now.After(*r.holdDeadline) {
		return ErrHoldNotExpired
	}
	r.status = StatusExpired
	r.holdDeadline = nil
	return nil
}

// MarkReturned completes the rental and charges a late fee when the vehicle
// comes back after the scheduled return.
func (r *Reservation) MarkReturned(actualReturn time.Time) error {
	if !r.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	if actualReturn.Before(r.period.StartsAt()) {
		return ErrReturnBeforeStart
	}

	fee := LateFee(r.dailyRate, r.period.EndsAt(), actualReturn)
	r.breakdown.LateFee = fee
	r.breakdown.Total = r.breakdown.Total.Add(fee)
	r.actualReturn = &actualReturn
	r.status = StatusCompleted
	return nil
}

// IsHoldExpired reports whether a reserved hold is past its deadline.
func (r *Reservation) IsHoldExpired(now time.Time) bool {
	return r.status == StatusReserved && r.holdDeadline != nil && now.After(*r.holdDeadline)
}

func (r *Reservation) Blocks() bool {
	return r.status.Blocks()
}

func (r *Reservation) ID() uuid.UUID              { return r.id }
func (r *Reservation) VehicleID() uuid.UUID       { return r.vehicleID }
func (r *Reservation) UserID() uuid.UUID          { return r.userID }
func (r *Reservation) Period() Period             { return r.period }
func (r *Reservation) Status() Status             { return r.status }
func (r *Reservation) HoldDeadline() *time.Time   { return r.holdDeadline }
func (r *Reservation) DailyRate() decimal.Decimal { return r.dailyRate }
func (r *Reservation) Breakdown() PriceBreakdown  { return r.breakdown }
func (r *Reservation) CouponID() *uuid.UUID       { return r.couponID }
func (r *Reservation) CouponCode() *string        { return r.couponCode }
func (r *Reservation) PickupLocation() string     { return r.pickupLocation }
func (r *Reservation) ReturnLocation() string     { return r.returnLocation }
func (r *Reservation) DeliveryLocation() *string  { return r.deliveryLocation }
func (r *Reservation) ActualReturn() *time.Time   { return r.actualReturn }
func (r *Reservation) CreatedAt() time.Time       { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time       { return r.updatedAt }
