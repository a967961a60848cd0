package api

import (
	"errors"
	"net/http"

	"fleetbook/internal/handler/httperr"
	"fleetbook/internal/usecase/commands"
	"fleetbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errInvalidTimeRange = errors.New("invalid time range, expected RFC3339 from < to")

type conflictDetail struct {
	VehicleID      uuid.UUID   `json:"vehicle_id"`
	ConflictingIDs []uuid.UUID `json:"conflicting_ids,omitempty"`
}

// respondCommandError maps usecase sentinels onto HTTP statuses. Anything
// unrecognized is a 500 so repository internals never leak to clients.
func respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrVehicleNotFound),
		errors.Is(err, commands.ErrReservationNotFound),
		errors.Is(err, commands.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)

	case errors.Is(err, commands.ErrScheduleConflict):
		var sc *commands.ScheduleConflictError
		var detail any
		if errors.As(err, &sc) {
			detail = conflictDetail{VehicleID: sc.VehicleID, ConflictingIDs: sc.ConflictingIDs}
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "requested period conflicts with an existing reservation", detail)

	case errors.Is(err, commands.ErrInvalidTransition),
		errors.Is(err, commands.ErrHoldExpired),
		errors.Is(err, commands.ErrDuplicateLicensePlate),
		errors.Is(err, commands.ErrDuplicateCouponCode):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)

	case errors.Is(err, commands.ErrCouponInvalid),
		errors.Is(err, commands.ErrVehicleNotBookable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)

	case errors.Is(err, commands.ErrInvalidPeriod),
		errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)

	case errors.Is(err, commands.ErrNotReservationOwner):
		httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func respondQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrReservationNotFound),
		errors.Is(err, queries.ErrVehicleNotFound),
		errors.Is(err, queries.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)

	case errors.Is(err, queries.ErrAccessDenied):
		httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)

	case errors.Is(err, queries.ErrInvalidPeriod):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func respondBadRequest(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", gin.H{"reason": err.Error()})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
