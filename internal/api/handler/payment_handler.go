package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/vds-server-api/internal/api/metrics"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initiate opens a payment session for an order.
//
// @Summary      Initiate a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      paymentRequest  true  "Order details"
// @Success      200   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /payments [post]
func (h *PaymentHandler) Initiate(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.payments.InitiatePayment(c.Request().Context(), ports.PaymentInput{
		Amount:    req.Amount,
		PlanName:  req.PlanName,
		Quantity:  req.Quantity,
		Period:    req.Period,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		return err
	}

	metrics.PaymentsInitiatedTotal.WithLabelValues(req.PlanName).Inc()
	return c.JSON(http.StatusOK, paymentResponse{
		PaymentID:  session.PaymentID,
		PaymentURL: session.PaymentURL,
		Status:     session.Status,
	})
}
