package shared

import (
	"context"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Vehicles() VehicleRepository
	Coupons() CouponRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// FindByIDForUpdate locks the reservation row for the life of the
	// transaction so lifecycle transitions serialize per reservation.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, res *reservation.Reservation) error
	// FindBlocking returns reservations in the blocking set whose date range
	// coarsely intersects the period. Precise overlap is decided in the
	// domain after combining date and time-of-day.
	FindBlocking(ctx context.Context, vehicleID uuid.UUID, period reservation.Period, excludeID *uuid.UUID) ([]*reservation.Reservation, error)
	// FindExpiredHoldIDs lists reserved holds whose deadline passed before now.
	FindExpiredHoldIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	// FindByIDForUpdate locks the vehicle row so concurrent reservation
	// creations for the same vehicle serialize on the conflict check.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	UpdateStatus(ctx context.Context, v *vehicle.Vehicle) error
}

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) error
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	// ConsumeUsage atomically increments used_count while re-checking the
	// usage limit and active flag. Zero rows affected means the coupon can
	// no longer be applied.
	ConsumeUsage(ctx context.Context, id uuid.UUID, now time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
