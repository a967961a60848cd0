//go:build unit

package reservation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetbook/internal/domain/reservation"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type stubDistance struct {
	km  float64
	err error
}

func (s stubDistance) DistanceKm(_ context.Context, _, _ string) (float64, error) {
	return s.km, s.err
}

func newPricer(d reservation.DistanceProvider) *reservation.Pricer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return reservation.NewPricer(d, logger)
}

func ptr(s string) *string { return &s }

func TestPricerQuote(t *testing.T) {
	ctx := context.Background()
	rate := decimal.NewFromInt(900000)

	t.Run("date-only base price", func(t *testing.T) {
		p := newPricer(stubDistance{})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate:      rate,
			Period:         mustPeriod(t, date(2026, 9, 10), date(2026, 9, 12), nil, nil),
			PickupLocation: "Hanoi",
			ReturnLocation: "Hanoi",
		})
		assert.Equal(t, 3, b.RentalDays)
		assert.Equal(t, 0, b.RentalHours)
		assert.True(t, b.Base.Equal(decimal.NewFromInt(2700000)), "got %s", b.Base)
		assert.True(t, b.DeliveryFee.IsZero())
		assert.True(t, b.PickupReturnFee.IsZero())
		assert.True(t, b.Total.Equal(b.Base))
	})

	t.Run("timed period bills remainder hours at a third of the daily rate", func(t *testing.T) {
		p := newPricer(stubDistance{})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate: rate,
			Period: mustPeriod(t, date(2026, 9, 10), date(2026, 9, 11),
				tod(t, "08:00"), tod(t, "14:00")),
			PickupLocation: "Hanoi",
		})
		assert.Equal(t, 1, b.RentalDays)
		assert.Equal(t, 6, b.RentalHours)
		// 900000 + 6 x 300000
		assert.True(t, b.Base.Equal(decimal.NewFromInt(2700000)), "got %s", b.Base)
	})

	t.Run("delivery fee from distance", func(t *testing.T) {
		p := newPricer(stubDistance{km: 4.2})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate:        rate,
			Period:           mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation:   "Hanoi",
			DeliveryLocation: ptr("Long Bien"),
		})
		// 4.2 km x 50000
		assert.True(t, b.DeliveryFee.Equal(decimal.NewFromInt(210000)), "got %s", b.DeliveryFee)
	})

	t.Run("delivery fee clamped to band", func(t *testing.T) {
		low := newPricer(stubDistance{km: 0.5}).Quote(ctx, reservation.QuoteInput{
			DailyRate:        rate,
			Period:           mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation:   "Hanoi",
			DeliveryLocation: ptr("Nearby"),
		})
		assert.True(t, low.DeliveryFee.Equal(decimal.NewFromInt(50000)), "got %s", low.DeliveryFee)

		high := newPricer(stubDistance{km: 120}).Quote(ctx, reservation.QuoteInput{
			DailyRate:        rate,
			Period:           mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation:   "Hanoi",
			DeliveryLocation: ptr("Far away"),
		})
		assert.True(t, high.DeliveryFee.Equal(decimal.NewFromInt(500000)), "got %s", high.DeliveryFee)
	})

	t.Run("provider failure falls back to flat fees", func(t *testing.T) {
		p := newPricer(stubDistance{err: errors.New("timeout")})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate:        rate,
			Period:           mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation:   "Hanoi",
			ReturnLocation:   "Da Nang",
			DeliveryLocation: ptr("Long Bien"),
		})
		assert.True(t, b.DeliveryFee.Equal(decimal.NewFromInt(100000)), "got %s", b.DeliveryFee)
		assert.True(t, b.PickupReturnFee.Equal(decimal.NewFromInt(50000)), "got %s", b.PickupReturnFee)
	})

	t.Run("no pickup fee when returning to pickup location", func(t *testing.T) {
		p := newPricer(stubDistance{km: 10})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate:      rate,
			Period:         mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation: "Hanoi",
			ReturnLocation: "Hanoi",
		})
		assert.True(t, b.PickupReturnFee.IsZero())
	})

	t.Run("pickup fee for different return location", func(t *testing.T) {
		p := newPricer(stubDistance{km: 3})
		b := p.Quote(ctx, reservation.QuoteInput{
			DailyRate:      rate,
			Period:         mustPeriod(t, date(2026, 9, 10), date(2026, 9, 10), nil, nil),
			PickupLocation: "Hanoi",
			ReturnLocation: "Ninh Binh",
		})
		// 3 km x 30000
		assert.True(t, b.PickupReturnFee.Equal(decimal.NewFromInt(90000)), "got %s", b.PickupReturnFee)
	})

	t.Run("full breakdown with delivery and pickup fees", func(t *testing.T) {
		p := newPricer(stubDistance{km: 2})
		got := p.Quote(ctx, reservation.QuoteInput{
			DailyRate: rate,
			Period: mustPeriod(t, date(2026, 9, 10), date(2026, 9, 12),
				tod(t, "09:00"), tod(t, "09:00")),
			PickupLocation:   "Hanoi",
			ReturnLocation:   "Ninh Binh",
			DeliveryLocation: ptr("Long Bien"),
		})
		want := reservation.PriceBreakdown{
			RentalDays:      2,
			RentalHours:     0,
			Base:            decimal.NewFromInt(1800000),
			DeliveryFee:     decimal.NewFromInt(100000),
			PickupReturnFee: decimal.NewFromInt(60000),
			Total:           decimal.NewFromInt(1960000),
		}
		if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
			t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPriceBreakdownApplyDiscount(t *testing.T) {
	b := reservation.PriceBreakdown{
		Base:        decimal.NewFromInt(2000000),
		DeliveryFee: decimal.NewFromInt(100000),
	}

	t.Run("discount reduces total", func(t *testing.T) {
		got := b.ApplyDiscount(decimal.NewFromInt(300000))
		assert.True(t, got.Total.Equal(decimal.NewFromInt(1800000)), "got %s", got.Total)
		assert.True(t, got.Discount.Equal(decimal.NewFromInt(300000)))
	})

	t.Run("total never goes negative", func(t *testing.T) {
		got := b.ApplyDiscount(decimal.NewFromInt(5000000))
		assert.True(t, got.Total.IsZero(), "got %s", got.Total)
	})
}

func TestLateFee(t *testing.T) {
	rate := decimal.NewFromInt(900000)
	end := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	t.Run("zero when on time", func(t *testing.T) {
		fee := reservation.LateFee(rate, end, end)
		assert.True(t, fee.IsZero())
	})

	t.Run("partial hour rounds up with one-hour minimum", func(t *testing.T) {
		fee := reservation.LateFee(rate, end, end.Add(10*time.Minute))
		assert.True(t, fee.Equal(decimal.NewFromInt(90000)), "got %s", fee)
	})

	t.Run("per started hour", func(t *testing.T) {
		fee := reservation.LateFee(rate, end, end.Add(2*time.Hour+1*time.Minute))
		assert.True(t, fee.Equal(decimal.NewFromInt(270000)), "got %s", fee)
	})
}
