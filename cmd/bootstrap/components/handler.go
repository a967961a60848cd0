package components

import (
	"fleetbook/internal/handler"
	"fleetbook/internal/handler/api"
	"fleetbook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewVehicleHandler,
		api.NewCouponHandler,
		api.NewPricingHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	reservation *api.ReservationHandler,
	vehicle *api.VehicleHandler,
	coupon *api.CouponHandler,
	pricing *api.PricingHandler,
	payment *api.PaymentHandler,
) handler.Handlers {
	return handler.Handlers{
		Reservation: reservation,
		Vehicle:     vehicle,
		Coupon:      coupon,
		Pricing:     pricing,
		Payment:     payment,
	}
}
