//go:build unit || e2e

package builder

import (
	"time"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
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

func NewCouponBuilder() *CouponBuilder {
	now := time.Now().UTC()
	maxDiscount := decimal.NewFromInt(500000)
	return &CouponBuilder{
		ID:            uuid.New(),
		Code:          "DISCOUNT10",
		Description:   "10% off orders over 1,000,000",
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(1000000),
		MaxDiscount:   &maxDiscount,
		ValidFrom:     now.AddDate(0, -1, 0),
		ValidTo:       now.AddDate(0, 1, 0),
		IsActive:      true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) BuildCreateRequestDTO() request.CreateCoupon {
	return request.CreateCoupon{
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.DiscountValue,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidTo:       b.ValidTo,
		UsageLimit:    b.UsageLimit,
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		ID:            b.ID,
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.DiscountValue,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidTo:       b.ValidTo,
		UsageLimit:    b.UsageLimit,
		UsedCount:     b.UsedCount,
		IsActive:      b.IsActive,
	}
}
