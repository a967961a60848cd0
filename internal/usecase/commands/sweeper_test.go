//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweeper(uow *fakeUoW) commands.SweeperCommands {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return commands.NewSweeperCommands(uow, config.SweeperConfig{BatchSize: 100}, logger)
}

func reservedAt(t *testing.T, reservedTime time.Time) *reservation.Reservation {
	t.Helper()

	period, err := reservation.NewPeriod(date(2026, 9, 10), date(2026, 9, 12), nil, nil)
	require.NoError(t, err)
	res, err := reservation.NewReservation(reservation.NewReservationParams{
		VehicleID:      uuid.New(),
		UserID:         uuid.New(),
		Period:         period,
		DailyRate:      decimal.NewFromInt(900000),
		PickupLocation: "District 1",
	})
	require.NoError(t, err)
	require.NoError(t, res.Reserve(reservedTime, 15))
	return res
}

func TestSweeperCommands_SweepExpired(t *testing.T) {
	t.Run("expires only holds past their deadline", func(t *testing.T) {
		uow := newFakeUoW()

		stale := reservedAt(t, testNow.Add(-20*time.Minute))
		fresh := reservedAt(t, testNow.Add(-5*time.Minute))
		uow.tx.reservations.byID[stale.ID()] = stale
		uow.tx.reservations.byID[fresh.ID()] = fresh
		uow.tx.reservations.expiredIDs = []uuid.UUID{stale.ID(), fresh.ID()}

		count, err := newSweeper(uow).SweepExpired(context.Background(), testNow)
		require.NoError(t, err)

		assert.Equal(t, 1, count)
		assert.Equal(t, reservation.StatusExpired, stale.Status())
		assert.Equal(t, reservation.StatusReserved, fresh.Status())

		require.Len(t, uow.tx.notifications.jobs, 1)
		assert.Equal(t, "reservation_expired", uow.tx.notifications.jobs[0].topic)
	})

	t.Run("skips holds confirmed between listing and lock", func(t *testing.T) {
		uow := newFakeUoW()

		confirmed := reservedAt(t, testNow.Add(-20*time.Minute))
		require.NoError(t, confirmed.Confirm(testNow.Add(-16*time.Minute)))
		uow.tx.reservations.byID[confirmed.ID()] = confirmed
		uow.tx.reservations.expiredIDs = []uuid.UUID{confirmed.ID()}

		count, err := newSweeper(uow).SweepExpired(context.Background(), testNow)
		require.NoError(t, err)

		assert.Zero(t, count)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status())
		assert.Empty(t, uow.tx.notifications.jobs)
	})

	t.Run("ignores ids deleted before the lock", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reservations.expiredIDs = []uuid.UUID{uuid.New()}

		count, err := newSweeper(uow).SweepExpired(context.Background(), testNow)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		uow := newFakeUoW()
		count, err := newSweeper(uow).SweepExpired(context.Background(), testNow)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
