package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

type ReservationView struct {
	ID               uuid.UUID       `json:"id"`
	VehicleID        uuid.UUID       `json:"vehicle_id"`
	VehicleName      string          `json:"vehicle_name"`
	UserID           uuid.UUID       `json:"user_id"`
	Status           string          `json:"status"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	StartTime        *string         `json:"start_time,omitempty"`
	EndTime          *string         `json:"end_time,omitempty"`
	StartsAt         time.Time       `json:"starts_at"`
	EndsAt           time.Time       `json:"ends_at"`
	HoldDeadline     *time.Time      `json:"hold_deadline,omitempty"`
	RentalDays       int32           `json:"rental_days"`
	RentalHours      int32           `json:"rental_hours"`
	BasePrice        decimal.Decimal `json:"base_price"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	PickupReturnFee  decimal.Decimal `json:"pickup_return_fee"`
	AdditionalFee    decimal.Decimal `json:"additional_fee"`
	Discount         decimal.Decimal `json:"discount"`
	LateFee          decimal.Decimal `json:"late_fee"`
	Total            decimal.Decimal `json:"total"`
	CouponCode       *string         `json:"coupon_code,omitempty"`
	PickupLocation   string          `json:"pickup_location"`
	ReturnLocation   string          `json:"return_location"`
	DeliveryLocation *string         `json:"delivery_location,omitempty"`
	ActualReturn     *time.Time      `json:"actual_return,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ReservationListItem struct {
	ID          uuid.UUID       `json:"id"`
	VehicleID   uuid.UUID       `json:"vehicle_id"`
	VehicleName string          `json:"vehicle_name"`
	Status      string          `json:"status"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ConflictWindow is one occupied interval on a vehicle's calendar.
type ConflictWindow struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
}

type VehicleView struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	LicensePlate string          `json:"license_plate"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	Location     string          `json:"location"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CouponView struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom     time.Time        `json:"valid_from"`
	ValidTo       time.Time        `json:"valid_to"`
	UsageLimit    *int32           `json:"usage_limit,omitempty"`
	UsedCount     int32            `json:"used_count"`
	IsActive      bool             `json:"is_active"`
}
