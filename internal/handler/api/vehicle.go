package api

import (
	"net/http"
	"time"

	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/handler/dto/response"
	"fleetbook/internal/usecase/commands"
	"fleetbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	commands           commands.VehicleCommands
	queries            queries.VehicleQueries
	reservationQueries queries.ReservationQueries
}

func NewVehicleHandler(cmd commands.VehicleCommands, qry queries.VehicleQueries, resQry queries.ReservationQueries) *VehicleHandler {
	return &VehicleHandler{commands: cmd, queries: qry, reservationQueries: resQry}
}

// List godoc
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Param        limit query int false "Max items" default(50)
// @Success      200 {object} response.List[queries.VehicleView]
// @Router       /api/vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	limit := int32(50)
	if v, err := parseLimit(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	items, err := h.queries.List(c.Request.Context(), limit)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewList(items))
}

// GetByID godoc
// @Summary      Get a vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id path string true "Vehicle ID"
// @Success      200 {object} queries.VehicleView
// @Failure      404 {object} httperr.Response
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Conflicts godoc
// @Summary      List occupied intervals on a vehicle's calendar
// @Description  Advisory availability probe. The authoritative conflict check runs when a reservation is created.
// @Tags         vehicles
// @Produce      json
// @Param        id path string true "Vehicle ID"
// @Param        from query string false "Window start (RFC3339)"
// @Param        to query string false "Window end (RFC3339)"
// @Success      200 {object} response.List[queries.ConflictWindow]
// @Router       /api/vehicles/{id}/conflicts [get]
func (h *VehicleHandler) Conflicts(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	from, to, err := conflictWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	windows, err := h.reservationQueries.VehicleConflicts(c.Request.Context(), id, from, to)
	if err != nil {
		respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewList(windows))
}

// Create godoc
// @Summary      Register a vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        request body request.CreateVehicle true "Vehicle details"
// @Success      201 {object} response.ID
// @Failure      409 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	var req request.CreateVehicle
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
// @Summary      Retire a vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id path string true "Vehicle ID"
// @Success      200 {object} response.Message
// @Failure      404 {object} httperr.Response
// @Security     BearerAuth
// @Router       /api/vehicles/{id} [delete]
func (h *VehicleHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commands.Deactivate(c.Request.Context(), id); err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "vehicle retired"})
}

// conflictWindow defaults to the next 90 days when the caller omits bounds.
func conflictWindow(fromRaw, toRaw string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 0, 90)

	if fromRaw != "" {
		v, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidTimeRange
		}
		from = v
	}
	if toRaw != "" {
		v, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidTimeRange
		}
		to = v
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errInvalidTimeRange
	}
	return from, to, nil
}
