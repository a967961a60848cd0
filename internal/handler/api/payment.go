package api

import (
	"net/http"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/handler/dto/response"
	"fleetbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	commands commands.ReservationCommands
}

func NewPaymentHandler(cmd commands.ReservationCommands) *PaymentHandler {
	return &PaymentHandler{commands: cmd}
}

// Callback godoc
// @Summary      Payment settlement callback
// @Description  Called by the payment collaborator. Success confirms the reservation, failure releases the hold.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body request.PaymentCallback true "Settlement result"
// @Success      200 {object} response.Message
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req request.PaymentCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.commands.HandlePaymentResult(c.Request.Context(), req.ReservationID, req.Succeeded()); err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "payment result applied"})
}
