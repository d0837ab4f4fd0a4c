package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/vds-server-api/internal/api/metrics"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/validation"
)

// AvailabilityHandler answers username availability against the
// authoritative store. Debouncing happens on the client/workflow side;
// this endpoint is the lookup it calls.
type AvailabilityHandler struct {
	lookup ports.AvailabilityLookup
}

func NewAvailabilityHandler(lookup ports.AvailabilityLookup) *AvailabilityHandler {
	return &AvailabilityHandler{lookup: lookup}
}

// Check reports whether a username is free to register.
//
// @Summary      Check username availability
// @Tags         auth
// @Produce      json
// @Param        username  query     string  true  "Candidate username"
// @Success      200       {object}  availabilityResponse
// @Failure      400       {object}  availabilityResponse
// @Router       /auth/check-username [get]
func (h *AvailabilityHandler) Check(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, availabilityResponse{Error: "username is required"})
	}
	if msg := validation.Username(username); msg != "" {
		return c.JSON(http.StatusBadRequest, availabilityResponse{Error: msg})
	}

	taken, err := h.lookup.IsTaken(c.Request().Context(), username)
	if err != nil {
		metrics.AvailabilityChecksTotal.WithLabelValues("degraded").Inc()
		return err
	}

	if taken {
		metrics.AvailabilityChecksTotal.WithLabelValues("taken").Inc()
	} else {
		metrics.AvailabilityChecksTotal.WithLabelValues("available").Inc()
	}
	return c.JSON(http.StatusOK, availabilityResponse{Available: !taken})
}
