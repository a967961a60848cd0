//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory doubles for the persistence ports. Every write is recorded so
// tests can assert on what reached the repositories.

type fakeReservationRepo struct {
	byID       map[uuid.UUID]*reservation.Reservation
	blocking   []*reservation.Reservation
	expiredIDs []uuid.UUID
	created    []*reservation.Reservation
	updated    []*reservation.Reservation
	createErr  error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[uuid.UUID]*reservation.Reservation)}
}

func (f *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, res)
	f.byID[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return res, nil
}

func (f *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	f.updated = append(f.updated, res)
	f.byID[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) FindBlocking(_ context.Context, _ uuid.UUID, _ reservation.Period, _ *uuid.UUID) ([]*reservation.Reservation, error) {
	return f.blocking, nil
}

func (f *fakeReservationRepo) FindExpiredHoldIDs(_ context.Context, _ time.Time, _ int) ([]uuid.UUID, error) {
	return f.expiredIDs, nil
}

type fakeVehicleRepo struct {
	byID map[uuid.UUID]*vehicle.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{byID: make(map[uuid.UUID]*vehicle.Vehicle)}
}

func (f *fakeVehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	f.byID[v.ID()] = v
	return nil
}

func (f *fakeVehicleRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return v, nil
}

func (f *fakeVehicleRepo) UpdateStatus(_ context.Context, v *vehicle.Vehicle) error {
	f.byID[v.ID()] = v
	return nil
}

type fakeCouponRepo struct {
	consumed   []uuid.UUID
	consumeErr error
}

func (f *fakeCouponRepo) Create(_ context.Context, _ *coupon.Coupon) error { return nil }

func (f *fakeCouponRepo) FindByCode(_ context.Context, _ string) (*coupon.Coupon, error) {
	return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
}

func (f *fakeCouponRepo) ConsumeUsage(_ context.Context, id uuid.UUID, _ time.Time) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, id)
	return nil
}

func (f *fakeCouponRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }

type notificationJob struct {
	kind  string
	topic string
}

type fakeNotificationRepo struct {
	jobs []notificationJob
}

func (f *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, _ []byte, _ time.Time) error {
	f.jobs = append(f.jobs, notificationJob{kind: kind, topic: topic})
	return nil
}

type fakeReads struct {
	vehicles map[uuid.UUID]*shared.VehicleSnapshot
	coupons  map[string]*shared.CouponSnapshot
}

func newFakeReads() *fakeReads {
	return &fakeReads{
		vehicles: make(map[uuid.UUID]*shared.VehicleSnapshot),
		coupons:  make(map[string]*shared.CouponSnapshot),
	}
}

func (f *fakeReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return v, nil
}

func (f *fakeReads) CouponByCode(_ context.Context, code string) (*shared.CouponSnapshot, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return c, nil
}

func (f *fakeReads) ReservationByID(_ context.Context, _ uuid.UUID) (*shared.ReservationSnapshot, error) {
	return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
}

type fakeTx struct {
	reservations  *fakeReservationRepo
	vehicles      *fakeVehicleRepo
	coupons       *fakeCouponRepo
	notifications *fakeNotificationRepo
	reads         *fakeReads
}

func (t *fakeTx) Reservations() shared.ReservationRepository   { return t.reservations }
func (t *fakeTx) Vehicles() shared.VehicleRepository           { return t.vehicles }
func (t *fakeTx) Coupons() shared.CouponRepository             { return t.coupons }
func (t *fakeTx) Notifications() shared.NotificationRepository { return t.notifications }
func (t *fakeTx) Reads() shared.CommandReads                   { return t.reads }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: &fakeTx{
		reservations:  newFakeReservationRepo(),
		vehicles:      newFakeVehicleRepo(),
		coupons:       &fakeCouponRepo{},
		notifications: &fakeNotificationRepo{},
		reads:         newFakeReads(),
	}}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads { return u.tx.reads }

// fakeReservationQueries serves the read-after-write lookup commands do once
// the transaction commits.
type fakeReservationQueries struct{}

func (fakeReservationQueries) GetByID(_ context.Context, id, _ uuid.UUID, _ bool) (*queries.ReservationView, error) {
	return &queries.ReservationView{ID: id}, nil
}

func (fakeReservationQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return &queries.ReservationView{ID: id}, nil
}

func (fakeReservationQueries) ListByUser(_ context.Context, _ uuid.UUID, _ int32) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

func (fakeReservationQueries) VehicleConflicts(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*queries.ConflictWindow, error) {
	return nil, nil
}

type stubDistance struct {
	km  float64
	err error
}

func (s stubDistance) DistanceKm(_ context.Context, _, _ string) (float64, error) {
	return s.km, s.err
}

func testPricer(km float64) *reservation.Pricer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return reservation.NewPricer(stubDistance{km: km}, logger)
}
