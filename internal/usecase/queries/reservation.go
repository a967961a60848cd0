package queries

import (
	"context"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrAccessDenied        = errs.New("access denied")
	ErrQueryFailed         = errs.New("query failed")
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindConflictWindows(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]*ConflictWindow, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*ReservationView, error)
	// GetByIDSystem skips the ownership check; for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	// VehicleConflicts is the advisory availability probe. The authoritative
	// check runs inside the reservation creation transaction.
	VehicleConflicts(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]*ConflictWindow, error)
}

type reservationQueries struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueries{store: store}
}

func (q *reservationQueries) GetByID(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != actorID {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *reservationQueries) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

func (q *reservationQueries) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error) {
	items, err := q.store.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func (q *reservationQueries) VehicleConflicts(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]*ConflictWindow, error) {
	windows, err := q.store.FindConflictWindows(ctx, vehicleID, from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return windows, nil
}
