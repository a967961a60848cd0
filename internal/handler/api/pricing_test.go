//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"fleetbook/internal/handler/api"
	"fleetbook/internal/usecase/queries"
	"fleetbook/tests/common/httptest"
	"fleetbook/tests/common/testutil"
	queriesmock "fleetbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PricingHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockPricingQueries
	handler     *api.PricingHandler
}

func (s *PricingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockPricingQueries(s.mockCtrl)
	s.handler = api.NewPricingHandler(s.mockQueries)

	s.router.POST("/pricing/quote", s.handler.Quote)
	s.router.POST("/coupons/validate", s.handler.ValidateCoupon)
}

func (s *PricingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPricingHandlerSuite(t *testing.T) {
	suite.Run(t, new(PricingHandlerTestSuite))
}

func (s *PricingHandlerTestSuite) TestQuote() {
	url := "/pricing/quote"
	vehicleID := uuid.New()

	reqBody := map[string]any{
		"vehicle_id":      vehicleID.String(),
		"start_date":      "2026-09-10",
		"end_date":        "2026-09-12",
		"pickup_location": "District 1, Ho Chi Minh City",
	}

	s.Run("success: returns itemized quote", func() {
		view := &queries.QuoteView{
			VehicleID:  vehicleID,
			RentalDays: 3,
			BasePrice:  decimal.NewFromInt(2700000),
			Total:      decimal.NewFromInt(2700000),
		}
		s.mockQueries.EXPECT().Quote(gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(vehicleID.String(), body["vehicle_id"])
		s.Equal("2700000", body["total"])
	})

	s.Run("error: 400 Bad Request when dates are malformed", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("start_date", "next tuesday"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 Bad Request for inverted period", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("start_date", "2026-09-12"),
			testutil.Field("end_date", "2026-09-10"),
		)
		s.mockQueries.EXPECT().Quote(gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrInvalidPeriod).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 404 Not Found for unknown vehicle", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrVehicleNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

func (s *PricingHandlerTestSuite) TestValidateCoupon() {
	url := "/coupons/validate"

	s.Run("success: valid coupon with estimated discount", func() {
		estimated := decimal.NewFromInt(200000)
		result := &queries.CouponValidation{
			Code:              "DISCOUNT10",
			Valid:             true,
			DiscountType:      "percentage",
			DiscountValue:     decimal.NewFromInt(10),
			MinOrderValue:     decimal.NewFromInt(1000000),
			EstimatedDiscount: &estimated,
		}
		s.mockQueries.EXPECT().ValidateCoupon(gomock.Any(), "DISCOUNT10", gomock.Any()).
			Return(result, nil).Times(1)

		reqBody := map[string]any{"code": "DISCOUNT10", "subtotal": "2000000"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(true, body["valid"])
		s.Equal("200000", body["estimated_discount"])
	})

	s.Run("success: invalid coupon carries a reason", func() {
		reason := "coupon has expired"
		result := &queries.CouponValidation{
			Code:   "OLD2020",
			Valid:  false,
			Reason: &reason,
		}
		s.mockQueries.EXPECT().ValidateCoupon(gomock.Any(), "OLD2020", gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"code": "OLD2020"}, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(false, body["valid"])
		s.Equal(reason, body["reason"])
	})

	s.Run("error: 404 Not Found for unknown code", func() {
		s.mockQueries.EXPECT().ValidateCoupon(gomock.Any(), "NOPE", gomock.Any()).
			Return(nil, queries.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"code": "NOPE"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})

	s.Run("error: 400 Bad Request when code is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}
