package repository

import (
	"context"
	"strings"
	"time"

	"fleetbook/internal/domain/coupon"
	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(db db.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	const query = `
		INSERT INTO coupons (
			id, code, description, discount_type, discount_value,
			min_order_value, max_discount, valid_from, valid_to,
			usage_limit, used_count, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var maxDiscount any
	if c.MaxDiscount() != nil {
		maxDiscount = *c.MaxDiscount()
	}

	_, err := r.db.Exec(ctx, query,
		c.ID(), c.Code(), c.Description(), string(c.DiscountType()), c.DiscountValue(),
		c.MinOrderValue(), maxDiscount, c.ValidFrom(), c.ValidTo(),
		pgconv.Int32PtrToPgtype(c.UsageLimit()), c.UsedCount(), c.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	const query = `
		SELECT id, code, description, discount_type, discount_value,
		       min_order_value, max_discount, valid_from, valid_to,
		       usage_limit, used_count, is_active, created_at, updated_at
		FROM coupons
		WHERE code = $1`

	var (
		id                   uuid.UUID
		cCode, description   string
		discountType         string
		discountValue        decimal.Decimal
		minOrderValue        decimal.Decimal
		maxDiscount          *decimal.Decimal
		validFrom, validTo   time.Time
		usageLimit           pgtype.Int4
		usedCount            int32
		isActive             bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&id, &cCode, &description, &discountType, &discountValue,
		&minOrderValue, &maxDiscount, &validFrom, &validTo,
		&usageLimit, &usedCount, &isActive, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	return coupon.ReconstructCoupon(
		id, cCode, description,
		coupon.DiscountType(discountType),
		discountValue, minOrderValue, maxDiscount,
		validFrom, validTo,
		pgconv.Int32PtrFromPgtype(usageLimit), usedCount, isActive,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// ConsumeUsage increments used_count with the limit re-checked in the same
// statement, so two concurrent reservations cannot both take the last slot.
// Usage is never refunded on cancellation or expiry.
func (r *CouponRepository) ConsumeUsage(ctx context.Context, id uuid.UUID, now time.Time) error {
	const query = `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1
		  AND is_active
		  AND valid_from <= $2 AND valid_to >= $2
		  AND (usage_limit IS NULL OR used_count < usage_limit)`

	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return infra.WrapRepoErr("failed to consume coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon can no longer be applied", nil, infra.KindConflict)
	}
	return nil
}

func (r *CouponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE coupons SET is_active = false, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}
