//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/usecase/commands"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

type commandsEnv struct {
	uow   *fakeUoW
	clock *clock.MockClock
	cmds  commands.ReservationCommands
}

func newCommandsEnv(t *testing.T) *commandsEnv {
	t.Helper()

	uow := newFakeUoW()
	clk := clock.NewMockClock(testNow)
	cmds := commands.NewReservationCommands(
		uow,
		testPricer(10),
		fakeReservationQueries{},
		clk,
		config.ReservationConfig{HoldMinutes: 15},
	)
	return &commandsEnv{uow: uow, clock: clk, cmds: cmds}
}

// seedVehicle registers the same vehicle in the snapshot reads and the
// write-side repository, the way one row serves both in production.
func (e *commandsEnv) seedVehicle(t *testing.T, rate int64) uuid.UUID {
	t.Helper()

	v := seedVehicleEntity(t)
	e.uow.tx.vehicles.byID[v.ID()] = v
	e.uow.tx.reads.vehicles[v.ID()] = &shared.VehicleSnapshot{
		ID:        v.ID(),
		Name:      v.Name(),
		DailyRate: decimal.NewFromInt(rate),
		Location:  v.Location(),
		Status:    string(v.Status()),
	}
	return v.ID()
}

func (e *commandsEnv) seedCoupon(id uuid.UUID, code string, minOrder int64) {
	maxDiscount := decimal.NewFromInt(500000)
	e.uow.tx.reads.coupons[code] = &shared.CouponSnapshot{
		ID:            id,
		Code:          code,
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(minOrder),
		MaxDiscount:   &maxDiscount,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidTo:       testNow.AddDate(0, 1, 0),
		IsActive:      true,
	}
}

func (e *commandsEnv) seedPending(t *testing.T, vehicleID, userID uuid.UUID) *reservation.Reservation {
	t.Helper()

	period, err := reservation.NewPeriod(date(2026, 9, 10), date(2026, 9, 12), nil, nil)
	require.NoError(t, err)

	res, err := reservation.NewReservation(reservation.NewReservationParams{
		VehicleID: vehicleID,
		UserID:    userID,
		Period:    period,
		DailyRate: decimal.NewFromInt(900000),
		Breakdown: reservation.PriceBreakdown{
			RentalDays: 3,
			Base:       decimal.NewFromInt(2700000),
			Total:      decimal.NewFromInt(2700000),
		},
		PickupLocation: "District 1",
	})
	require.NoError(t, err)

	e.uow.tx.reservations.byID[res.ID()] = res
	return res
}

func baseInput(vehicleID uuid.UUID) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		VehicleID:      vehicleID,
		StartDate:      date(2026, 9, 10),
		EndDate:        date(2026, 9, 12),
		PickupLocation: "District 1",
		ReturnLocation: "District 1",
	}
}

func TestReservationCommands_Create(t *testing.T) {
	t.Run("creates pending reservation and enqueues notification", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)
		userID := uuid.New()

		view, err := env.cmds.Create(context.Background(), baseInput(vehicleID), userID)
		require.NoError(t, err)
		require.NotNil(t, view)

		require.Len(t, env.uow.tx.reservations.created, 1)
		created := env.uow.tx.reservations.created[0]
		assert.Equal(t, view.ID, created.ID())
		assert.Equal(t, reservation.StatusPending, created.Status())
		assert.Equal(t, userID, created.UserID())

		// 3 rental days at 900,000, same pickup and return, no delivery
		b := created.Breakdown()
		assert.Equal(t, 3, b.RentalDays)
		assert.True(t, decimal.NewFromInt(2700000).Equal(b.Total), "total = %s", b.Total)
		assert.True(t, b.DeliveryFee.IsZero())
		assert.True(t, b.PickupReturnFee.IsZero())

		require.Len(t, env.uow.tx.notifications.jobs, 1)
		assert.Equal(t, "reservation_created", env.uow.tx.notifications.jobs[0].topic)
	})

	t.Run("rejects overlapping reservation with conflicting ids", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)
		existing := env.seedPending(t, vehicleID, uuid.New())
		env.uow.tx.reservations.blocking = []*reservation.Reservation{existing}

		_, err := env.cmds.Create(context.Background(), baseInput(vehicleID), uuid.New())
		require.ErrorIs(t, err, commands.ErrScheduleConflict)

		var conflict *commands.ScheduleConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []uuid.UUID{existing.ID()}, conflict.ConflictingIDs)
		assert.Empty(t, env.uow.tx.reservations.created)
	})

	t.Run("allows back-to-back timed bookings on the same day", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)

		morning, err := reservation.NewPeriod(date(2026, 9, 10), date(2026, 9, 10),
			ptr(mustTimeOfDay(t, "09:00")), ptr(mustTimeOfDay(t, "12:00")))
		require.NoError(t, err)
		existing, err := reservation.NewReservation(reservation.NewReservationParams{
			VehicleID:      vehicleID,
			UserID:         uuid.New(),
			Period:         morning,
			DailyRate:      decimal.NewFromInt(900000),
			PickupLocation: "District 1",
		})
		require.NoError(t, err)
		env.uow.tx.reservations.blocking = []*reservation.Reservation{existing}

		input := baseInput(vehicleID)
		input.StartDate = date(2026, 9, 10)
		input.EndDate = date(2026, 9, 10)
		input.StartTime = ptr("12:00")
		input.EndTime = ptr("15:00")

		_, err = env.cmds.Create(context.Background(), input, uuid.New())
		require.NoError(t, err)
		require.Len(t, env.uow.tx.reservations.created, 1)
	})

	t.Run("applies coupon discount and consumes usage", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)
		couponID := uuid.New()
		env.seedCoupon(couponID, "DISCOUNT10", 1000000)

		input := baseInput(vehicleID)
		input.CouponCode = ptr("DISCOUNT10")

		_, err := env.cmds.Create(context.Background(), input, uuid.New())
		require.NoError(t, err)

		require.Len(t, env.uow.tx.reservations.created, 1)
		b := env.uow.tx.reservations.created[0].Breakdown()
		assert.True(t, decimal.NewFromInt(270000).Equal(b.Discount), "discount = %s", b.Discount)
		assert.True(t, decimal.NewFromInt(2430000).Equal(b.Total), "total = %s", b.Total)
		assert.Equal(t, []uuid.UUID{couponID}, env.uow.tx.coupons.consumed)
	})

	t.Run("rejects coupon below minimum order value", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)
		env.seedCoupon(uuid.New(), "BIGSPEND", 10000000)

		input := baseInput(vehicleID)
		input.CouponCode = ptr("BIGSPEND")

		_, err := env.cmds.Create(context.Background(), input, uuid.New())
		require.ErrorIs(t, err, commands.ErrCouponInvalid)
		assert.Empty(t, env.uow.tx.reservations.created)
		assert.Empty(t, env.uow.tx.coupons.consumed)
	})

	t.Run("rejects unknown coupon code", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)

		input := baseInput(vehicleID)
		input.CouponCode = ptr("NOPE")

		_, err := env.cmds.Create(context.Background(), input, uuid.New())
		require.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("rejects vehicle that is not bookable", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)
		env.uow.tx.reads.vehicles[vehicleID].Status = "maintenance"

		_, err := env.cmds.Create(context.Background(), baseInput(vehicleID), uuid.New())
		require.ErrorIs(t, err, commands.ErrVehicleNotBookable)
	})

	t.Run("rejects unknown vehicle", func(t *testing.T) {
		env := newCommandsEnv(t)

		_, err := env.cmds.Create(context.Background(), baseInput(uuid.New()), uuid.New())
		require.ErrorIs(t, err, commands.ErrVehicleNotFound)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		env := newCommandsEnv(t)
		vehicleID := env.seedVehicle(t, 900000)

		input := baseInput(vehicleID)
		input.StartDate = date(2026, 9, 12)
		input.EndDate = date(2026, 9, 10)

		_, err := env.cmds.Create(context.Background(), input, uuid.New())
		require.ErrorIs(t, err, commands.ErrInvalidPeriod)
	})
}

func TestReservationCommands_Reserve(t *testing.T) {
	t.Run("places hold with deadline", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)

		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusReserved, res.Status())
		require.NotNil(t, res.HoldDeadline())
		assert.Equal(t, testNow.Add(15*time.Minute), *res.HoldDeadline())
	})

	t.Run("is idempotent for an already reserved hold", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)

		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)
		firstDeadline := *res.HoldDeadline()

		env.clock.Add(5 * time.Minute)
		_, err = env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)
		assert.Equal(t, firstDeadline, *res.HoldDeadline())
	})

	t.Run("rejects another user's reservation", func(t *testing.T) {
		env := newCommandsEnv(t)
		res := env.seedPending(t, uuid.New(), uuid.New())

		_, err := env.cmds.Reserve(context.Background(), res.ID(), uuid.New(), false)
		require.ErrorIs(t, err, commands.ErrNotReservationOwner)
	})

	t.Run("admin may act on any reservation", func(t *testing.T) {
		env := newCommandsEnv(t)
		res := env.seedPending(t, uuid.New(), uuid.New())

		_, err := env.cmds.Reserve(context.Background(), res.ID(), uuid.New(), true)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusReserved, res.Status())
	})
}

func TestReservationCommands_HandlePaymentResult(t *testing.T) {
	t.Run("success confirms a live hold", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		err = env.cmds.HandlePaymentResult(context.Background(), res.ID(), true)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Nil(t, res.HoldDeadline())

		topics := make([]string, 0, len(env.uow.tx.notifications.jobs))
		for _, j := range env.uow.tx.notifications.jobs {
			topics = append(topics, j.topic)
		}
		assert.Contains(t, topics, "reservation_confirmed")
	})

	t.Run("success on expired hold fails", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		env.clock.Add(20 * time.Minute)

		err = env.cmds.HandlePaymentResult(context.Background(), res.ID(), true)
		require.ErrorIs(t, err, commands.ErrHoldExpired)
		assert.Equal(t, reservation.StatusReserved, res.Status())
	})

	t.Run("failure cancels the hold", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		err = env.cmds.HandlePaymentResult(context.Background(), res.ID(), false)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("redelivered success callback is a no-op", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), true))
		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), true))

		assert.Equal(t, reservation.StatusConfirmed, res.Status())

		confirmations := 0
		for _, j := range env.uow.tx.notifications.jobs {
			if j.topic == "reservation_confirmed" {
				confirmations++
			}
		}
		assert.Equal(t, 1, confirmations)
	})

	t.Run("redelivered failure callback is a no-op", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), false))
		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), false))

		assert.Equal(t, reservation.StatusCancelled, res.Status())

		cancellations := 0
		for _, j := range env.uow.tx.notifications.jobs {
			if j.topic == "reservation_cancelled" {
				cancellations++
			}
		}
		assert.Equal(t, 1, cancellations)
	})

	t.Run("success after failure still fails on transition", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)

		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), false))
		err = env.cmds.HandlePaymentResult(context.Background(), res.ID(), true)
		require.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})
}

func TestReservationCommands_Cancel(t *testing.T) {
	t.Run("owner cancels a pending reservation", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)

		err := env.cmds.Cancel(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, res.Status())

		require.Len(t, env.uow.tx.notifications.jobs, 1)
		assert.Equal(t, "reservation_cancelled", env.uow.tx.notifications.jobs[0].topic)
	})

	t.Run("cancelling twice fails on transition", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)

		require.NoError(t, env.cmds.Cancel(context.Background(), res.ID(), userID, false))
		err := env.cmds.Cancel(context.Background(), res.ID(), userID, false)
		require.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		env := newCommandsEnv(t)
		err := env.cmds.Cancel(context.Background(), uuid.New(), uuid.New(), false)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestReservationCommands_MarkReturned(t *testing.T) {
	confirm := func(t *testing.T, env *commandsEnv, res *reservation.Reservation, userID uuid.UUID) {
		t.Helper()
		_, err := env.cmds.Reserve(context.Background(), res.ID(), userID, false)
		require.NoError(t, err)
		require.NoError(t, env.cmds.HandlePaymentResult(context.Background(), res.ID(), true))
	}

	t.Run("on-time return completes without late fee", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		confirm(t, env, res, userID)

		// Before the scheduled end of 2026-09-12 23:59:59
		_, err := env.cmds.MarkReturned(context.Background(), res.ID(), date(2026, 9, 12).Add(18*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusCompleted, res.Status())
		assert.True(t, res.Breakdown().LateFee.IsZero())
	})

	t.Run("late return adds hourly late fee", func(t *testing.T) {
		env := newCommandsEnv(t)
		userID := uuid.New()
		res := env.seedPending(t, uuid.New(), userID)
		confirm(t, env, res, userID)

		// Three hours past the scheduled end: 3 * 900,000 * 10%
		actualReturn := date(2026, 9, 12).Add(24*time.Hour - time.Second).Add(3 * time.Hour)
		_, err := env.cmds.MarkReturned(context.Background(), res.ID(), actualReturn)
		require.NoError(t, err)

		b := res.Breakdown()
		assert.True(t, decimal.NewFromInt(270000).Equal(b.LateFee), "late fee = %s", b.LateFee)
		assert.True(t, decimal.NewFromInt(2970000).Equal(b.Total), "total = %s", b.Total)
	})

	t.Run("return before confirmation fails", func(t *testing.T) {
		env := newCommandsEnv(t)
		res := env.seedPending(t, uuid.New(), uuid.New())

		_, err := env.cmds.MarkReturned(context.Background(), res.ID(), date(2026, 9, 12))
		require.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}

func seedVehicleEntity(t *testing.T) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle("Toyota Vios", "Toyota", "Vios", "51K-123.45",
		decimal.NewFromInt(900000), "District 1, Ho Chi Minh City")
	require.NoError(t, err)
	return v
}

func mustTimeOfDay(t *testing.T, s string) reservation.TimeOfDay {
	t.Helper()
	v, err := reservation.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}
