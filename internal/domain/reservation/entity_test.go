//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"fleetbook/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingReservation(t *testing.T) *reservation.Reservation {
	t.Helper()
	period := mustPeriod(t, date(2026, 9, 10), date(2026, 9, 12), nil, nil)
	rate := decimal.NewFromInt(900000)
	breakdown := reservation.PriceBreakdown{
		RentalDays: 3,
		Base:       decimal.NewFromInt(2700000),
		Total:      decimal.NewFromInt(2700000),
	}
	r, err := reservation.NewReservation(reservation.NewReservationParams{
		VehicleID:      uuid.New(),
		UserID:         uuid.New(),
		Period:         period,
		DailyRate:      rate,
		Breakdown:      breakdown,
		PickupLocation: "Hanoi Office",
	})
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	t.Run("starts pending with no hold deadline", func(t *testing.T) {
		r := newPendingReservation(t)
		assert.Equal(t, reservation.StatusPending, r.Status())
		assert.Nil(t, r.HoldDeadline())
		assert.NotEqual(t, uuid.Nil, r.ID())
	})

	t.Run("return location defaults to pickup", func(t *testing.T) {
		r := newPendingReservation(t)
		assert.Equal(t, "Hanoi Office", r.ReturnLocation())
	})

	t.Run("pickup location is required", func(t *testing.T) {
		_, err := reservation.NewReservation(reservation.NewReservationParams{
			VehicleID: uuid.New(),
			UserID:    uuid.New(),
		})
		assert.ErrorIs(t, err, reservation.ErrMissingLocation)
	})
}

func TestReservationReserve(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("sets hold deadline", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		assert.Equal(t, reservation.StatusReserved, r.Status())
		require.NotNil(t, r.HoldDeadline())
		assert.Equal(t, now.Add(15*time.Minute), *r.HoldDeadline())
	})

	t.Run("idempotent while already reserved", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		deadline := *r.HoldDeadline()

		require.NoError(t, r.Reserve(now.Add(5*time.Minute), 15))
		assert.Equal(t, deadline, *r.HoldDeadline())
	})

	t.Run("rejected after cancellation", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Cancel())
		assert.ErrorIs(t, r.Reserve(now, 15), reservation.ErrInvalidTransition)
	})
}

func TestReservationConfirm(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("from reserved within hold window", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		require.NoError(t, r.Confirm(now.Add(10*time.Minute)))
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
		assert.Nil(t, r.HoldDeadline())
	})

	t.Run("directly from pending", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Confirm(now))
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
	})

	t.Run("fails on stale hold", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		err := r.Confirm(now.Add(16 * time.Minute))
		assert.ErrorIs(t, err, reservation.ErrHoldExpired)
		assert.Equal(t, reservation.StatusReserved, r.Status())
	})

	t.Run("fails from terminal state", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Cancel())
		assert.ErrorIs(t, r.Confirm(now), reservation.ErrInvalidTransition)
	})
}

func TestReservationExpire(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("expires stale hold", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		require.True(t, r.IsHoldExpired(now.Add(16*time.Minute)))
		require.NoError(t, r.Expire(now.Add(16*time.Minute)))
		assert.Equal(t, reservation.StatusExpired, r.Status())
		assert.False(t, r.Blocks())
	})

	t.Run("refuses active hold", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Reserve(now, 15))
		assert.ErrorIs(t, r.Expire(now.Add(10*time.Minute)), reservation.ErrHoldNotExpired)
	})

	t.Run("refuses pending reservation", func(t *testing.T) {
		r := newPendingReservation(t)
		assert.ErrorIs(t, r.Expire(now), reservation.ErrInvalidTransition)
	})
}

func TestReservationCancel(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Cancel())
		assert.Equal(t, reservation.StatusCancelled, r.Status())
		assert.False(t, r.Blocks())
	})

	t.Run("not allowed once confirmed", func(t *testing.T) {
		r := newPendingReservation(t)
		require.NoError(t, r.Confirm(time.Now()))
		assert.ErrorIs(t, r.Cancel(), reservation.ErrInvalidTransition)
	})
}

func TestReservationMarkReturned(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	confirmed := func(t *testing.T) *reservation.Reservation {
		r := newPendingReservation(t)
		require.NoError(t, r.Confirm(now))
		return r
	}

	t.Run("on-time return carries no late fee", func(t *testing.T) {
		r := confirmed(t)
		returnedAt := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
		require.NoError(t, r.MarkReturned(returnedAt))
		assert.Equal(t, reservation.StatusCompleted, r.Status())
		assert.True(t, r.Breakdown().LateFee.IsZero())
		require.NotNil(t, r.ActualReturn())
		assert.Equal(t, returnedAt, *r.ActualReturn())
	})

	t.Run("late return adds fee to total", func(t *testing.T) {
		r := confirmed(t)
		// Scheduled end is 2026-09-12 23:59:59; three hours late.
		returnedAt := time.Date(2026, 9, 13, 2, 59, 59, 0, time.UTC)
		require.NoError(t, r.MarkReturned(returnedAt))

		// 3h x 900000 x 10%
		wantFee := decimal.NewFromInt(270000)
		assert.True(t, r.Breakdown().LateFee.Equal(wantFee), "got %s", r.Breakdown().LateFee)
		assert.True(t, r.Breakdown().Total.Equal(decimal.NewFromInt(2970000)), "got %s", r.Breakdown().Total)
	})

	t.Run("return before rental start is rejected", func(t *testing.T) {
		r := confirmed(t)
		err := r.MarkReturned(time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, reservation.ErrReturnBeforeStart)
	})

	t.Run("only confirmed reservations complete", func(t *testing.T) {
		r := newPendingReservation(t)
		err := r.MarkReturned(time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
	})
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, reservation.StatusPending.CanTransitionTo(reservation.StatusReserved))
	assert.True(t, reservation.StatusPending.CanTransitionTo(reservation.StatusConfirmed))
	assert.True(t, reservation.StatusReserved.CanTransitionTo(reservation.StatusExpired))
	assert.False(t, reservation.StatusConfirmed.CanTransitionTo(reservation.StatusCancelled))
	assert.False(t, reservation.StatusExpired.CanTransitionTo(reservation.StatusReserved))

	for _, s := range []reservation.Status{
		reservation.StatusCancelled, reservation.StatusExpired,
	} {
		assert.True(t, s.IsTerminal(), "status %s", s)
		assert.False(t, s.Blocks(), "status %s", s)
	}

	// Completed is terminal yet keeps occupying the calendar.
	assert.True(t, reservation.StatusCompleted.IsTerminal())
	assert.True(t, reservation.StatusCompleted.Blocks())

	for _, s := range reservation.BlockingStatuses() {
		assert.True(t, s.Blocks(), "status %s", s)
	}
	assert.Contains(t, reservation.BlockingStatuses(), reservation.StatusCompleted)
}
