package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// PlansHandler serves the tariff catalogue consumed by the pricing page.
type PlansHandler struct{}

func NewPlansHandler() *PlansHandler {
	return &PlansHandler{}
}

// List returns all plans.
//
// @Summary      List hosting plans
// @Tags         plans
// @Produce      json
// @Success      200  {array}  domain.Plan
// @Router       /plans [get]
func (h *PlansHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Plans)
}
