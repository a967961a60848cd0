package request

import (
	"time"

	"fleetbook/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type CreateCoupon struct {
	Code          string           `json:"code" binding:"required"`
	Description   string           `json:"description,omitempty"`
	DiscountType  string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value" binding:"required"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom     time.Time        `json:"valid_from" binding:"required"`
	ValidTo       time.Time        `json:"valid_to" binding:"required"`
	UsageLimit    *int32           `json:"usage_limit,omitempty"`
}

func (r CreateCoupon) ToInput() commands.CreateCouponInput {
	return commands.CreateCouponInput{
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinOrderValue: r.MinOrderValue,
		MaxDiscount:   r.MaxDiscount,
		ValidFrom:     r.ValidFrom,
		ValidTo:       r.ValidTo,
		UsageLimit:    r.UsageLimit,
	}
}
