package api

import (
	"net/http"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/handler/dto/response"
	"fleetbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	commands commands.CouponCommands
}

func NewCouponHandler(cmd commands.CouponCommands) *CouponHandler {
	return &CouponHandler{commands: cmd}
}

// Create godoc
// @Summary      Create a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body request.CreateCoupon true "Coupon details"
// @Success      201 {object} response.ID
// @Failure      409 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req request.CreateCoupon
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	id, err := h.commands.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.ID{ID: id})
}

// Deactivate godoc
// @Summary      Deactivate a coupon
// @Tags         coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} response.Message
// @Failure      404 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/coupons/{id} [delete]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commands.Deactivate(c.Request.Context(), id); err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "coupon deactivated"})
}
