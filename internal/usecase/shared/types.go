package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Minimal snapshots for command-side validation reads.

type VehicleSnapshot struct {
	ID        uuid.UUID
	Name      string
	DailyRate decimal.Decimal
	Location  string
	Status    string
}

type CouponSnapshot struct {
	ID            uuid.UUID
	Code          string
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	ValidFrom     time.Time
	ValidTo       time.Time
	UsageLimit    *int32
	UsedCount     int32
	IsActive      bool
}

type ReservationSnapshot struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	UserID    uuid.UUID
	Status    string
	EndsAt    time.Time
}
