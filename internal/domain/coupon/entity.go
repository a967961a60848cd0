package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode            = errors.New("coupon code cannot be empty")
	ErrInvalidDiscountType  = errors.New("invalid discount type")
	ErrNonPositiveDiscount  = errors.New("discount value must be positive")
	ErrInvalidValidityRange = errors.New("valid_from must be before valid_to")
	ErrCouponInactive       = errors.New("coupon is inactive")
	ErrCouponNotStarted     = errors.New("coupon is not yet valid")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrUsageLimitReached    = errors.New("coupon usage limit reached")
	ErrBelowMinOrder        = errors.New("order value below coupon minimum")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

var oneHundred = decimal.NewFromInt(100)

type Coupon struct {
	id            uuid.UUID
	code          string
	description   string
	discountType  DiscountType
	discountValue decimal.Decimal
	minOrderValue decimal.Decimal
	maxDiscount   *decimal.Decimal
	validFrom     time.Time
	validTo       time.Time
	usageLimit    *int32
	usedCount     int32
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewCoupon(
	code, description string,
	discountType DiscountType,
	discountValue, minOrderValue decimal.Decimal,
	maxDiscount *decimal.Decimal,
	validFrom, validTo time.Time,
	usageLimit *int32,
) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCode
	}
	if !discountType.IsValid() {
		return nil, ErrInvalidDiscountType
	}
	if !discountValue.IsPositive() {
		return nil, ErrNonPositiveDiscount
	}
	if !validFrom.Before(validTo) {
		return nil, ErrInvalidValidityRange
	}

	return &Coupon{
		id:            uuid.New(),
		code:          code,
		description:   description,
		discountType:  discountType,
		discountValue: discountValue,
		minOrderValue: minOrderValue,
		maxDiscount:   maxDiscount,
		validFrom:     validFrom,
		validTo:       validTo,
		usageLimit:    usageLimit,
		usedCount:     0,
		isActive:      true,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	code, description string,
	discountType DiscountType,
	discountValue, minOrderValue decimal.Decimal,
	maxDiscount *decimal.Decimal,
	validFrom, validTo time.Time,
	usageLimit *int32,
	usedCount int32,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:            id,
		code:          code,
		description:   description,
		discountType:  discountType,
		discountValue: discountValue,
		minOrderValue: minOrderValue,
		maxDiscount:   maxDiscount,
		validFrom:     validFrom,
		validTo:       validTo,
		usageLimit:    usageLimit,
		usedCount:     usedCount,
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ValidateAt reports the first reason the coupon cannot be applied at now.
// Minimum order value is checked separately because it depends on the order.
func (c *Coupon) ValidateAt(now time.Time) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if now.Before(c.validFrom) {
		return ErrCouponNotStarted
	}
	if now.After(c.validTo) {
		return ErrCouponExpired
	}
	if c.usageLimit != nil && c.usedCount >= *c.usageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

func (c *Coupon) IsValidAt(now time.Time) bool {
	return c.ValidateAt(now) == nil
}

func (c *Coupon) MeetsMinOrder(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(c.minOrderValue)
}

// CalculateDiscount returns the discount for the given subtotal, rounded to
// two decimal places. Percentage discounts are capped at maxDiscount when
// set; fixed discounts never exceed the subtotal.
func (c *Coupon) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if !c.MeetsMinOrder(subtotal) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.discountType {
	case DiscountPercentage:
		discount = subtotal.Mul(c.discountValue).Div(oneHundred)
		if c.maxDiscount != nil && discount.GreaterThan(*c.maxDiscount) {
			discount = *c.maxDiscount
		}
	case DiscountFixed:
		discount = c.discountValue
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	default:
		return decimal.Zero
	}

	return discount.Round(2)
}

func (c *Coupon) Deactivate() {
	c.isActive = false
}

func (c *Coupon) ID() uuid.UUID                  { return c.id }
func (c *Coupon) Code() string                   { return c.code }
func (c *Coupon) Description() string            { return c.description }
func (c *Coupon) DiscountType() DiscountType     { return c.discountType }
func (c *Coupon) DiscountValue() decimal.Decimal { return c.discountValue }
func (c *Coupon) MinOrderValue() decimal.Decimal { return c.minOrderValue }
func (c *Coupon) MaxDiscount() *decimal.Decimal  { return c.maxDiscount }
func (c *Coupon) ValidFrom() time.Time           { return c.validFrom }
func (c *Coupon) ValidTo() time.Time             { return c.validTo }
func (c *Coupon) UsageLimit() *int32             { return c.usageLimit }
func (c *Coupon) UsedCount() int32               { return c.usedCount }
func (c *Coupon) IsActive() bool                 { return c.isActive }
func (c *Coupon) CreatedAt() time.Time           { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time           { return c.updatedAt }
