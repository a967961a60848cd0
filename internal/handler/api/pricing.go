package api

import (
	"net/http"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	queries queries.PricingQueries
}

func NewPricingHandler(qry queries.PricingQueries) *PricingHandler {
	return &PricingHandler{queries: qry}
}

// Quote godoc
// @Summary      Price a rental without booking
// @Description  Returns a non-binding itemized quote. The binding price is computed at creation time.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body request.Quote true "Quote parameters"
// @Success      200 {object} queries.QuoteView
// @Failure      400 {object} httperr.Response
// @Failure      404 {object} httperr.Response
// @Router       /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req request.Quote
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	query, err := req.ToQuery()
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	view, err := h.queries.Quote(c.Request.Context(), query)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ValidateCoupon godoc
// @Summary      Check whether a coupon currently applies
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body request.ValidateCoupon true "Coupon code and optional subtotal"
// @Success      200 {object} queries.CouponValidation
// @Failure      404 {object} httperr.Response
// @Router       /api/coupons/validate [post]
func (h *PricingHandler) ValidateCoupon(c *gin.Context) {
	var req request.ValidateCoupon
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.queries.ValidateCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
