package readstore

import (
	"context"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

const reservationViewQuery = `
	SELECT r.id, r.vehicle_id, v.name, r.user_id, r.status,
	       r.start_date, r.end_date, r.start_time, r.end_time,
	       r.starts_at, r.ends_at, r.hold_deadline,
	       r.rental_days, r.rental_hours,
	       r.base_price, r.delivery_fee, r.pickup_return_fee, r.additional_fee,
	       r.discount, r.late_fee, r.total,
	       r.coupon_code,
	       r.pickup_location, r.return_location, r.delivery_location,
	       r.actual_return, r.created_at, r.updated_at
	FROM reservations r
	JOIN vehicles v ON v.id = r.vehicle_id`

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row := r.db.QueryRow(ctx, reservationViewQuery+` WHERE r.id = $1`, id)

	view, err := scanReservationView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

func (r *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	const query = `
		SELECT r.id, r.vehicle_id, v.name, r.status,
		       r.starts_at, r.ends_at, r.total, r.created_at
		FROM reservations r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by user", err)
	}
	defer rows.Close()

	var result []*queries.ReservationListItem
	for rows.Next() {
		item := &queries.ReservationListItem{}
		var startsAt, endsAt, createdAt pgtype.Timestamptz
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.VehicleName, &item.Status,
			&startsAt, &endsAt, &item.Total, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		item.StartsAt = pgconv.TimeFromPgtype(startsAt)
		item.EndsAt = pgconv.TimeFromPgtype(endsAt)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations by user", err)
	}
	return result, nil
}

// FindConflictWindows lists occupied intervals on a vehicle's calendar that
// intersect [from, to). Used by the availability probe, not by the
// authoritative conflict check inside the creation transaction.
func (r *ReservationReadStore) FindConflictWindows(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]*queries.ConflictWindow, error) {
	const query = `
		SELECT id, status, starts_at, ends_at
		FROM reservations
		WHERE vehicle_id = $1
		  AND status IN ('pending', 'reserved', 'confirmed', 'completed')
		  AND starts_at < $3
		  AND ends_at > $2
		ORDER BY starts_at`

	rows, err := r.db.Query(ctx, query, vehicleID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query conflict windows", err)
	}
	defer rows.Close()

	var result []*queries.ConflictWindow
	for rows.Next() {
		w := &queries.ConflictWindow{}
		var startsAt, endsAt pgtype.Timestamptz
		if err := rows.Scan(&w.ReservationID, &w.Status, &startsAt, &endsAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan conflict window", err)
		}
		w.StartsAt = pgconv.TimeFromPgtype(startsAt)
		w.EndsAt = pgconv.TimeFromPgtype(endsAt)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate conflict windows", err)
	}
	return result, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	v := &queries.ReservationView{}
	var (
		startDate, endDate                           pgtype.Date
		startTime, endTime                           pgtype.Time
		startsAt, endsAt                             pgtype.Timestamptz
		holdDeadline, actualReturn                   pgtype.Timestamptz
		couponCode, deliveryLocation                 pgtype.Text
		createdAt, updatedAt                         pgtype.Timestamptz
	)

	err := row.Scan(
		&v.ID, &v.VehicleID, &v.VehicleName, &v.UserID, &v.Status,
		&startDate, &endDate, &startTime, &endTime,
		&startsAt, &endsAt, &holdDeadline,
		&v.RentalDays, &v.RentalHours,
		&v.BasePrice, &v.DeliveryFee, &v.PickupReturnFee, &v.AdditionalFee,
		&v.Discount, &v.LateFee, &v.Total,
		&couponCode,
		&v.PickupLocation, &v.ReturnLocation, &deliveryLocation,
		&actualReturn, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.StartDate = pgconv.DateFromPgtype(startDate)
	v.EndDate = pgconv.DateFromPgtype(endDate)
	v.StartTime = formatPgTime(startTime)
	v.EndTime = formatPgTime(endTime)
	v.StartsAt = pgconv.TimeFromPgtype(startsAt)
	v.EndsAt = pgconv.TimeFromPgtype(endsAt)
	v.HoldDeadline = pgconv.TimePtrFromPgtype(holdDeadline)
	v.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	v.DeliveryLocation = pgconv.StringPtrFromPgtype(deliveryLocation)
	v.ActualReturn = pgconv.TimePtrFromPgtype(actualReturn)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return v, nil
}

func formatPgTime(pt pgtype.Time) *string {
	us := pgconv.MicrosecondsFromPgtypeTime(pt)
	if us == nil {
		return nil
	}
	minutes := *us / 60_000_000
	s := time.Date(0, 1, 1, int(minutes/60), int(minutes%60), 0, 0, time.UTC).Format("15:04")
	return &s
}
