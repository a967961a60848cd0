package commands

import (
	"context"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrDuplicateCouponCode = errs.New("coupon code already exists")

type CreateCouponInput struct {
	Code          string
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	ValidFrom     time.Time
	ValidTo       time.Time
	UsageLimit    *int32
}

type CouponCommands interface {
	Create(ctx context.Context, input CreateCouponInput) (uuid.UUID, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type couponCommands struct {
	uow shared.UnitOfWork
}

func NewCouponCommands(uow shared.UnitOfWork) CouponCommands {
	return &couponCommands{uow: uow}
}

func (c *couponCommands) Create(ctx context.Context, input CreateCouponInput) (uuid.UUID, error) {
	entity, err := coupon.NewCoupon(
		input.Code, input.Description,
		coupon.DiscountType(input.DiscountType),
		input.DiscountValue, input.MinOrderValue, input.MaxDiscount,
		input.ValidFrom, input.ValidTo, input.UsageLimit,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateCouponCode
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return entity.ID(), nil
}

func (c *couponCommands) Deactivate(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Deactivate(ctx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
