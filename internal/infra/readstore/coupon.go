package readstore

import (
	"context"
	"strings"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(db db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	const query = `
		SELECT id, code, description, discount_type, discount_value,
		       min_order_value, max_discount, valid_from, valid_to,
		       usage_limit, used_count, is_active
		FROM coupons
		WHERE code = $1`

	v := &queries.CouponView{}
	var (
		validFrom, validTo pgtype.Timestamptz
		usageLimit         pgtype.Int4
	)
	err := r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&v.ID, &v.Code, &v.Description, &v.DiscountType, &v.DiscountValue,
		&v.MinOrderValue, &v.MaxDiscount, &validFrom, &validTo,
		&usageLimit, &v.UsedCount, &v.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	v.ValidFrom = pgconv.TimeFromPgtype(validFrom)
	v.ValidTo = pgconv.TimeFromPgtype(validTo)
	v.UsageLimit = pgconv.Int32PtrFromPgtype(usageLimit)
	return v, nil
}
