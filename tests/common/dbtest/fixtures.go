//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestVehicle(t *testing.T, db DBLike, name, licensePlate string, dailyRate int64) uuid.UUID {
	t.Helper()

	vehicleID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO vehicles (id, name, brand, model, license_plate, daily_rate, location, status)
		VALUES ($1, $2, '', '', $3, $4, 'District 1, Ho Chi Minh City', 'available')
		ON CONFLICT (license_plate) DO NOTHING`,
		vehicleID, name, licensePlate, dailyRate)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM vehicles WHERE license_plate = $1", licensePlate).Scan(&vehicleID)
	}

	return vehicleID
}

func CreateTestCoupon(t *testing.T, db DBLike, code string, discountPercent, minOrderValue int64) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()
	now := time.Now()

	tag, err := db.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_type, discount_value, min_order_value,
		                     max_discount, valid_from, valid_to, is_active)
		VALUES ($1, $2, 'percentage', $3, $4, 500000, $5, $6, true)
		ON CONFLICT (code) DO NOTHING`,
		couponID, code, discountPercent, minOrderValue,
		now.AddDate(0, -1, 0), now.AddDate(0, 1, 0))
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM coupons WHERE code = $1", code).Scan(&couponID)
	}

	return couponID
}

// SetVehicleStatus flips a vehicle directly, bypassing the domain rules, so
// tests can stage maintenance and retired states.
func SetVehicleStatus(t *testing.T, db DBLike, vehicleID uuid.UUID, status string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1", vehicleID, status)
	require.NoError(t, err)
}

// ExpireHold rewinds a hold deadline so sweeper and payment paths can be
// exercised without waiting out the real timeout.
func ExpireHold(t *testing.T, db DBLike, reservationID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE reservations SET hold_deadline = now() - interval '1 minute' WHERE id = $1", reservationID)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO vehicles (id, name, brand, model, license_plate, daily_rate, location, status)
		VALUES (gen_random_uuid(), 'Toyota Vios', 'Toyota', 'Vios', '51K-000.01', 900000,
		        'District 1, Ho Chi Minh City', 'available')
		ON CONFLICT (license_plate) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
