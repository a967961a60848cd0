package api

import (
	"net/http"
	"strconv"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/handler/dto/response"
	"fleetbook/internal/handler/httperr"
	"fleetbook/internal/handler/middleware"
	"fleetbook/internal/usecase/commands"
	"fleetbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmd commands.ReservationCommands, qry queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{commands: cmd, queries: qry}
}

// Create godoc
// @Summary      Create a reservation
// @Description  Books a vehicle for the given period. The reservation starts in pending status.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        request body request.CreateReservation true "Reservation details"
// @Success      201 {object} queries.ReservationView
// @Failure      400 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req request.CreateReservation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, queries.ErrAccessDenied, "Authentication required", nil)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	view, err := h.commands.Create(c.Request.Context(), input, userID)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Reserve godoc
// @Summary      Place a hold on a pending reservation
// @Description  Moves the reservation to reserved and starts the payment hold window.
// @Tags         reservations
// @Produce      json
// @Param        id path string true "Reservation ID"
// @Success      200 {object} queries.ReservationView
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/reservations/{id}/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, queries.ErrAccessDenied, "Authentication required", nil)
		return
	}

	view, err := h.commands.Reserve(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Cancel godoc
// @Summary      Cancel a reservation
// @Tags         reservations
// @Produce      json
// @Param        id path string true "Reservation ID"
// @Success      200 {object} response.Message
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, queries.ErrAccessDenied, "Authentication required", nil)
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), id, userID, middleware.IsAdmin(c)); err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "reservation cancelled"})
}

// MarkReturned godoc
// @Summary      Record a vehicle return
// @Description  Completes a confirmed reservation and applies a late fee when the return is past the scheduled end.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        id path string true "Reservation ID"
// @Param        request body request.MarkReturned true "Actual return time"
// @Success      200 {object} queries.ReservationView
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/reservations/{id}/return [post]
func (h *ReservationHandler) MarkReturned(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req request.MarkReturned
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	view, err := h.commands.MarkReturned(c.Request.Context(), id, req.ActualReturn)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetByID godoc
// @Summary      Get a reservation
// @Tags         reservations
// @Produce      json
// @Param        id path string true "Reservation ID"
// @Success      200 {object} queries.ReservationView
// @Failure      403 {object} httperr.Response
// @Failure      404 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, queries.ErrAccessDenied, "Authentication required", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// List godoc
// @Summary      List the caller's reservations
// @Tags         reservations
// @Produce      json
// @Param        limit query int false "Max items" default(50)
// @Success      200 {object} response.List[queries.ReservationListItem]
// @Security     BearerAuth
// @Router       /api/reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, queries.ErrAccessDenied, "Authentication required", nil)
		return
	}

	limit := int32(50)
	if v, err := parseLimit(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	items, err := h.queries.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewList(items))
}

func parseLimit(raw string) (int32, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
