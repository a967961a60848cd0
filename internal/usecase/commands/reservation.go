package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVehicleNotFound         = errs.New("vehicle not found")
	ErrVehicleNotBookable      = errs.New("vehicle is not available for booking")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrCouponInvalid           = errs.New("coupon cannot be applied")
	ErrInvalidPeriod           = errs.New("invalid rental period")
	ErrScheduleConflict        = errs.New("schedule conflict")
	ErrInvalidTransition       = errs.New("invalid reservation status transition")
	ErrHoldExpired             = errs.New("reservation hold has expired")
	ErrNotReservationOwner     = errs.New("reservation belongs to another user")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ScheduleConflictError carries the reservations that block the requested
// interval so the caller can explain which bookings are in the way.
type ScheduleConflictError struct {
	VehicleID      uuid.UUID
	ConflictingIDs []uuid.UUID
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("vehicle %s has %d conflicting reservations", e.VehicleID, len(e.ConflictingIDs))
}

type CreateReservationInput struct {
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

type ReservationCommands interface {
	Create(ctx context.Context, input CreateReservationInput, userID uuid.UUID) (*queries.ReservationView, error)
	Reserve(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*queries.ReservationView, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error
	MarkReturned(ctx context.Context, id uuid.UUID, actualReturn time.Time) (*queries.ReservationView, error)
	HandlePaymentResult(ctx context.Context, id uuid.UUID, success bool) error
}

type reservationCommands struct {
	uow                shared.UnitOfWork
	pricer             *reservation.Pricer
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	cfg                config.ReservationConfig
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	pricer *reservation.Pricer,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
	cfg config.ReservationConfig,
) ReservationCommands {
	return &reservationCommands{
		uow:                uow,
		pricer:             pricer,
		reservationQueries: reservationQueries,
		clock:              clk,
		cfg:                cfg,
	}
}

func (c *reservationCommands) Create(ctx context.Context, input CreateReservationInput, userID uuid.UUID) (*queries.ReservationView, error) {
	period, err := buildPeriod(input.StartDate, input.EndDate, input.StartTime, input.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPeriod)
	}

	reads := c.uow.CommandReads()

	vehicleSnap, err := reads.VehicleByID(ctx, input.VehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if vehicle.Status(vehicleSnap.Status) != vehicle.StatusAvailable {
		return nil, ErrVehicleNotBookable
	}

	couponEntity, err := c.loadCoupon(ctx, reads, input.CouponCode)
	if err != nil {
		return nil, err
	}

	// Distance lookups go to an external provider, so the quote is computed
	// before the transaction opens. The rate was snapshotted above; a
	// concurrent rate change does not affect this reservation.
	breakdown := c.pricer.Quote(ctx, reservation.QuoteInput{
		DailyRate:        vehicleSnap.DailyRate,
		Period:           period,
		PickupLocation:   input.PickupLocation,
		ReturnLocation:   input.ReturnLocation,
		DeliveryLocation: input.DeliveryLocation,
	})

	var couponID *uuid.UUID
	var couponCode *string
	if couponEntity != nil {
		if !couponEntity.MeetsMinOrder(breakdown.Subtotal()) {
			return nil, errs.Mark(coupon.ErrBelowMinOrder, ErrCouponInvalid)
		}
		breakdown = breakdown.ApplyDiscount(couponEntity.CalculateDiscount(breakdown.Subtotal()))
		id := couponEntity.ID()
		code := couponEntity.Code()
		couponID, couponCode = &id, &code
	}

	entity, err := reservation.NewReservation(reservation.NewReservationParams{
		VehicleID:        input.VehicleID,
		UserID:           userID,
		Period:           period,
		DailyRate:        vehicleSnap.DailyRate,
		Breakdown:        breakdown,
		CouponID:         couponID,
		CouponCode:       couponCode,
		PickupLocation:   input.PickupLocation,
		ReturnLocation:   input.ReturnLocation,
		DeliveryLocation: input.DeliveryLocation,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The vehicle row lock serializes concurrent creations for the same
		// vehicle, making check-then-insert race-free. The exclusion
		// constraint on reservations is the backstop.
		lockedVehicle, err := tx.Vehicles().FindByIDForUpdate(ctx, input.VehicleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVehicleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !lockedVehicle.IsBookable() {
			return ErrVehicleNotBookable
		}

		if err := c.ensureNoConflicts(ctx, tx, input.VehicleID, period, nil); err != nil {
			return err
		}

		if couponID != nil {
			if err := tx.Coupons().ConsumeUsage(ctx, *couponID, c.clock.Now()); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return ErrCouponInvalid
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Reservations().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(&ScheduleConflictError{VehicleID: input.VehicleID}, ErrScheduleConflict)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return c.enqueueNotification(ctx, tx, entity.ID(), "reservation_created")
	})
	if err != nil {
		return nil, err
	}

	view, err := c.reservationQueries.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *reservationCommands) Reserve(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkOwnership(entity, actorID, isAdmin); err != nil {
			return err
		}

		if err := entity.Reserve(c.clock.Now(), c.cfg.HoldMinutes); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return c.updateReservation(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	view, err := c.reservationQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *reservationCommands) Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkOwnership(entity, actorID, isAdmin); err != nil {
			return err
		}

		if err := entity.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := c.updateReservation(ctx, tx, entity); err != nil {
			return err
		}
		return c.enqueueNotification(ctx, tx, entity.ID(), "reservation_cancelled")
	})
}

func (c *reservationCommands) MarkReturned(ctx context.Context, id uuid.UUID, actualReturn time.Time) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := entity.MarkReturned(actualReturn); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := c.updateReservation(ctx, tx, entity); err != nil {
			return err
		}
		return c.enqueueNotification(ctx, tx, entity.ID(), "reservation_completed")
	})
	if err != nil {
		return nil, err
	}

	view, err := c.reservationQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// HandlePaymentResult consumes the payment collaborator's callback. Success
// confirms the reservation; failure releases the hold by cancelling. Payment
// providers redeliver callbacks, so a repeat of an already-applied outcome is
// a no-op rather than a transition error.
func (c *reservationCommands) HandlePaymentResult(ctx context.Context, id uuid.UUID, success bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if success {
			if entity.Status() == reservation.StatusConfirmed {
				return nil
			}
			if err := entity.Confirm(c.clock.Now()); err != nil {
				switch {
				case errors.Is(err, reservation.ErrHoldExpired):
					return errs.Mark(err, ErrHoldExpired)
				default:
					return errs.Mark(err, ErrInvalidTransition)
				}
			}
			if err := c.updateReservation(ctx, tx, entity); err != nil {
				return err
			}
			return c.enqueueNotification(ctx, tx, entity.ID(), "reservation_confirmed")
		}

		if entity.Status() == reservation.StatusCancelled {
			return nil
		}
		if err := entity.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := c.updateReservation(ctx, tx, entity); err != nil {
			return err
		}
		return c.enqueueNotification(ctx, tx, entity.ID(), "reservation_cancelled")
	})
}

func (c *reservationCommands) loadCoupon(ctx context.Context, reads shared.CommandReads, code *string) (*coupon.Coupon, error) {
	if code == nil || *code == "" {
		return nil, nil
	}

	snap, err := reads.CouponByCode(ctx, *code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity := coupon.ReconstructCoupon(
		snap.ID, snap.Code, snap.Description,
		coupon.DiscountType(snap.DiscountType),
		snap.DiscountValue, snap.MinOrderValue, snap.MaxDiscount,
		snap.ValidFrom, snap.ValidTo,
		snap.UsageLimit, snap.UsedCount, snap.IsActive,
		time.Time{}, time.Time{},
	)
	if err := entity.ValidateAt(c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrCouponInvalid)
	}
	return entity, nil
}

// ensureNoConflicts runs the precise overlap test over the coarse date-range
// candidates. Must be called with the vehicle row locked.
func (c *reservationCommands) ensureNoConflicts(ctx context.Context, tx shared.Tx, vehicleID uuid.UUID, period reservation.Period, excludeID *uuid.UUID) error {
	blocking, err := tx.Reservations().FindBlocking(ctx, vehicleID, period, excludeID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var conflicting []uuid.UUID
	for _, b := range blocking {
		if b.Period().Overlaps(period) {
			conflicting = append(conflicting, b.ID())
		}
	}
	if len(conflicting) > 0 {
		return errs.Mark(&ScheduleConflictError{
			VehicleID:      vehicleID,
			ConflictingIDs: conflicting,
		}, ErrScheduleConflict)
	}
	return nil
}

func (c *reservationCommands) findForUpdate(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	entity, err := tx.Reservations().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func (c *reservationCommands) updateReservation(ctx context.Context, tx shared.Tx, entity *reservation.Reservation) error {
	if err := tx.Reservations().Update(ctx, entity); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *reservationCommands) enqueueNotification(ctx context.Context, tx shared.Tx, reservationID uuid.UUID, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"type":           topic,
	})
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Notifications().CreateJob(ctx, "email", topic, payload, c.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func checkOwnership(entity *reservation.Reservation, actorID uuid.UUID, isAdmin bool) error {
	if isAdmin || entity.UserID() == actorID {
		return nil
	}
	return ErrNotReservationOwner
}

func buildPeriod(startDate, endDate time.Time, startTime, endTime *string) (reservation.Period, error) {
	var st, et *reservation.TimeOfDay
	if startTime != nil && *startTime != "" {
		v, err := reservation.ParseTimeOfDay(*startTime)
		if err != nil {
			return reservation.Period{}, err
		}
		st = &v
	}
	if endTime != nil && *endTime != "" {
		v, err := reservation.ParseTimeOfDay(*endTime)
		if err != nil {
			return reservation.Period{}, err
		}
		et = &v
	}
	return reservation.NewPeriod(startDate, endDate, st, et)
}
