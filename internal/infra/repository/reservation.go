package repository

import (
	"context"
	"time"

	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `
	id, vehicle_id, user_id,
	start_date, end_date, start_time, end_time,
	status, hold_deadline,
	daily_rate, rental_days, rental_hours,
	base_price, delivery_fee, pickup_return_fee, additional_fee,
	discount, late_fee, total,
	coupon_id, coupon_code,
	pickup_location, return_location, delivery_location,
	actual_return, created_at, updated_at`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations (
			id, vehicle_id, user_id,
			start_date, end_date, start_time, end_time,
			starts_at, ends_at,
			status, hold_deadline,
			daily_rate, rental_days, rental_hours,
			base_price, delivery_fee, pickup_return_fee, additional_fee,
			discount, late_fee, total,
			coupon_id, coupon_code,
			pickup_location, return_location, delivery_location,
			actual_return
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)`

	period := res.Period()
	b := res.Breakdown()

	_, err := r.db.Exec(ctx, query,
		res.ID(), res.VehicleID(), res.UserID(),
		pgconv.DateToPgtype(period.StartDate()),
		pgconv.DateToPgtype(period.EndDate()),
		timeOfDayToPgtype(period.StartTime()),
		timeOfDayToPgtype(period.EndTime()),
		period.StartsAt(), period.EndsAt(),
		res.Status().String(),
		pgconv.TimePtrToPgtype(res.HoldDeadline()),
		res.DailyRate(), int32(b.RentalDays), int32(b.RentalHours),
		b.Base, b.DeliveryFee, b.PickupReturnFee, b.AdditionalFee,
		b.Discount, b.LateFee, b.Total,
		pgconv.UUIDPtrToPgtype(res.CouponID()),
		pgconv.StringPtrToPgtype(res.CouponCode()),
		res.PickupLocation(), res.ReturnLocation(),
		pgconv.StringPtrToPgtype(res.DeliveryLocation()),
		pgconv.TimePtrToPgtype(res.ActualReturn()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation for update", err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		UPDATE reservations
		SET status = $2,
		    hold_deadline = $3,
		    late_fee = $4,
		    total = $5,
		    actual_return = $6,
		    updated_at = now()
		WHERE id = $1`

	b := res.Breakdown()
	tag, err := r.db.Exec(ctx, query,
		res.ID(),
		res.Status().String(),
		pgconv.TimePtrToPgtype(res.HoldDeadline()),
		b.LateFee, b.Total,
		pgconv.TimePtrToPgtype(res.ActualReturn()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindBlocking(ctx context.Context, vehicleID uuid.UUID, period reservation.Period, excludeID *uuid.UUID) ([]*reservation.Reservation, error) {
	// Coarse date-range filter; the caller applies the precise timestamp
	// overlap test after combining date and time-of-day.
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE vehicle_id = $1
		  AND status = ANY($2)
		  AND start_date <= $3
		  AND end_date >= $4
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY start_date`

	statuses := make([]string, 0, 4)
	for _, s := range reservation.BlockingStatuses() {
		statuses = append(statuses, s.String())
	}

	rows, err := r.db.Query(ctx, query,
		vehicleID,
		statuses,
		pgconv.DateToPgtype(period.EndDate()),
		pgconv.DateToPgtype(period.StartDate()),
		pgconv.UUIDPtrToPgtype(excludeID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query blocking reservations", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocking reservation", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate blocking reservations", err)
	}
	return result, nil
}

func (r *ReservationRepository) FindExpiredHoldIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM reservations
		WHERE status = 'reserved' AND hold_deadline < $1
		ORDER BY hold_deadline
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, now, int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query expired holds", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired hold id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired holds", err)
	}
	return ids, nil
}

func timeOfDayToPgtype(t *reservation.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{Valid: false}
	}
	us := t.Microseconds()
	return pgconv.MicrosecondsToPgtypeTime(&us)
}

func timeOfDayFromPgtype(pt pgtype.Time) *reservation.TimeOfDay {
	us := pgconv.MicrosecondsFromPgtypeTime(pt)
	if us == nil {
		return nil
	}
	tod := reservation.TimeOfDayFromMicroseconds(*us)
	return &tod
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, vehicleID, userID                          uuid.UUID
		startDate, endDate                             pgtype.Date
		startTime, endTime                             pgtype.Time
		status                                         string
		holdDeadline                                   pgtype.Timestamptz
		dailyRate                                      decimal.Decimal
		rentalDays, rentalHours                        int32
		base, deliveryFee, pickupReturnFee             decimal.Decimal
		additionalFee, discount, lateFee, total        decimal.Decimal
		couponID                                       pgtype.UUID
		couponCode                                     pgtype.Text
		pickupLocation, returnLocation                 string
		deliveryLocation                               pgtype.Text
		actualReturn, createdAt, updatedAt             pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &vehicleID, &userID,
		&startDate, &endDate, &startTime, &endTime,
		&status, &holdDeadline,
		&dailyRate, &rentalDays, &rentalHours,
		&base, &deliveryFee, &pickupReturnFee, &additionalFee,
		&discount, &lateFee, &total,
		&couponID, &couponCode,
		&pickupLocation, &returnLocation, &deliveryLocation,
		&actualReturn, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	period, err := reservation.NewPeriod(
		pgconv.DateFromPgtype(startDate),
		pgconv.DateFromPgtype(endDate),
		timeOfDayFromPgtype(startTime),
		timeOfDayFromPgtype(endTime),
	)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(reservation.ReconstructParams{
		ID:           id,
		VehicleID:    vehicleID,
		UserID:       userID,
		Period:       period,
		Status:       reservation.Status(status),
		HoldDeadline: pgconv.TimePtrFromPgtype(holdDeadline),
		DailyRate:    dailyRate,
		Breakdown: reservation.PriceBreakdown{
			RentalDays:      int(rentalDays),
			RentalHours:     int(rentalHours),
			Base:            base,
			DeliveryFee:     deliveryFee,
			PickupReturnFee: pickupReturnFee,
			AdditionalFee:   additionalFee,
			Discount:        discount,
			LateFee:         lateFee,
			Total:           total,
		},
		CouponID:         pgconv.UUIDPtrFromPgtype(couponID),
		CouponCode:       pgconv.StringPtrFromPgtype(couponCode),
		PickupLocation:   pickupLocation,
		ReturnLocation:   returnLocation,
		DeliveryLocation: pgconv.StringPtrFromPgtype(deliveryLocation),
		ActualReturn:     pgconv.TimePtrFromPgtype(actualReturn),
		CreatedAt:        pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:        pgconv.TimeFromPgtype(updatedAt),
	}), nil
}
