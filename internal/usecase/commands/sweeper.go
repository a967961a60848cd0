package commands

import (
	"context"
	"log/slog"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweeperCommands interface {
	// SweepExpired expires every reserved hold whose deadline passed before
	// now and returns how many were processed. Each hold is handled in its
	// own transaction; one failure never aborts the rest of the pass.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type sweeperCommands struct {
	uow    shared.UnitOfWork
	cfg    config.SweeperConfig
	logger *slog.Logger
}

func NewSweeperCommands(uow shared.UnitOfWork, cfg config.SweeperConfig, logger *slog.Logger) SweeperCommands {
	return &sweeperCommands{uow: uow, cfg: cfg, logger: logger}
}

func (s *sweeperCommands) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	var ids []uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Reservations().FindExpiredHoldIDs(ctx, now, s.cfg.BatchSize)
		return err
	})
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	count := 0
	for _, id := range ids {
		expired, err := s.expireOne(ctx, id, now)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expire reservation hold",
				slog.String("reservation_id", id.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}

func (s *sweeperCommands) expireOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	expired := false
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}

		// The hold may have been confirmed or cancelled between the listing
		// query and this lock.
		if !entity.IsHoldExpired(now) {
			return nil
		}
		if err := entity.Expire(now); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, entity); err != nil {
			return err
		}

		payload := []byte(`{"reservation_id":"` + id.String() + `","type":"reservation_expired"}`)
		if err := tx.Notifications().CreateJob(ctx, "email", "reservation_expired", payload, now); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}
