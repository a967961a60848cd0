package reservation

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Fee schedule. Amounts are VND; per-km fees are clamped into a band and
// fall back to a flat amount when the distance provider is unavailable.
var (
	deliveryFeePerKm    = decimal.NewFromInt(50000)
	deliveryFeeMin      = decimal.NewFromInt(50000)
	deliveryFeeMax      = decimal.NewFromInt(500000)
	deliveryFeeFallback = decimal.NewFromInt(100000)

	pickupFeePerKm    = decimal.NewFromInt(30000)
	pickupFeeMin      = decimal.NewFromInt(30000)
	pickupFeeMax      = decimal.NewFromInt(300000)
	pickupFeeFallback = decimal.NewFromInt(50000)

	lateFeeRate = decimal.NewFromFloat(0.10)
)

// PriceBreakdown itemizes everything that went into a reservation's total so
// the charge can be re-derived later for disputes.
type PriceBreakdown struct {
	RentalDays  int
	RentalHours int

	Base            decimal.Decimal
	DeliveryFee     decimal.Decimal
	PickupReturnFee decimal.Decimal
	AdditionalFee   decimal.Decimal
	Discount        decimal.Decimal
	LateFee         decimal.Decimal
	Total           decimal.Decimal
}

func (b PriceBreakdown) Subtotal() decimal.Decimal {
	return b.Base.Add(b.DeliveryFee).Add(b.PickupReturnFee).Add(b.AdditionalFee)
}

// ApplyDiscount returns a copy with the discount applied. The total never
// goes below zero.
func (b PriceBreakdown) ApplyDiscount(discount decimal.Decimal) PriceBreakdown {
	b.Discount = discount
	total := b.Subtotal().Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	b.Total = total.Add(b.LateFee)
	return b
}

// DistanceProvider resolves the driving distance between two free-form
// addresses. Implementations must respect the context deadline.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, from, to string) (float64, error)
}

type QuoteInput struct {
	DailyRate        decimal.Decimal
	Period           Period
	PickupLocation   string
	ReturnLocation   string
	DeliveryLocation *string
}

// Pricer computes reservation quotes. Distance lookups degrade to flat
// fallback fees; a quote never fails because the provider is down.
type Pricer struct {
	distance DistanceProvider
	logger   *slog.Logger
}

func NewPricer(distance DistanceProvider, logger *slog.Logger) *Pricer {
	return &Pricer{distance: distance, logger: logger}
}

func (p *Pricer) Quote(ctx context.Context, in QuoteInput) PriceBreakdown {
	days, hours := in.Period.RentalDuration()

	base := in.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	if hours > 0 {
		hourlyRate := in.DailyRate.Div(decimal.NewFromInt(3))
		base = base.Add(hourlyRate.Mul(decimal.NewFromInt(int64(hours))))
	}

	b := PriceBreakdown{
		RentalDays:      days,
		RentalHours:     hours,
		Base:            base.Round(2),
		DeliveryFee:     decimal.Zero,
		PickupReturnFee: decimal.Zero,
		AdditionalFee:   decimal.Zero,
		Discount:        decimal.Zero,
		LateFee:         decimal.Zero,
	}

	if in.DeliveryLocation != nil && *in.DeliveryLocation != "" {
		b.DeliveryFee = p.distanceFee(ctx, in.PickupLocation, *in.DeliveryLocation,
			deliveryFeePerKm, deliveryFeeMin, deliveryFeeMax, deliveryFeeFallback)
	}

	if in.ReturnLocation != "" && in.ReturnLocation != in.PickupLocation {
		b.PickupReturnFee = p.distanceFee(ctx, in.PickupLocation, in.ReturnLocation,
			pickupFeePerKm, pickupFeeMin, pickupFeeMax, pickupFeeFallback)
	}

	b.Total = b.Subtotal()
	return b
}

func (p *Pricer) distanceFee(ctx context.Context, from, to string, perKm, minFee, maxFee, fallback decimal.Decimal) decimal.Decimal {
	km, err := p.distance.DistanceKm(ctx, from, to)
	if err != nil {
		p.logger.WarnContext(ctx, "distance lookup failed, using fallback fee",
			slog.String("from", from),
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fallback
	}

	dist := decimal.NewFromFloat(km).Round(2)
	fee := dist.Mul(perKm).Round(0)
	if fee.LessThan(minFee) {
		return minFee
	}
	if fee.GreaterThan(maxFee) {
		return maxFee
	}
	return fee
}

// LateFee charges 10% of the daily rate per started hour of lateness, with a
// one-hour minimum once the scheduled return has passed.
func LateFee(dailyRate decimal.Decimal, scheduledEnd, actualReturn time.Time) decimal.Decimal {
	if !actualReturn.After(scheduledEnd) {
		return decimal.Zero
	}
	hoursLate := int64(math.Ceil(actualReturn.Sub(scheduledEnd).Hours()))
	if hoursLate < 1 {
		hoursLate = 1
	}
	return dailyRate.Mul(lateFeeRate).Mul(decimal.NewFromInt(hoursLate)).Round(2)
}
