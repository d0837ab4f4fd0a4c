package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/vds-server-api/internal/api/metrics"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// VerifyHandler exposes the email verification boundary: POST re-issues
// the verification mail, GET confirms by token. The endpoint keeps the
// permissive CORS behaviour of the cloud function it replaces: every
// response carries Access-Control-Allow-Origin: *, OPTIONS answers the
// preflight, and any other method gets a 405.
type VerifyHandler struct {
	verification ports.VerificationService
}

func NewVerifyHandler(verification ports.VerificationService) *VerifyHandler {
	return &VerifyHandler{verification: verification}
}

// Handle dispatches on HTTP method, mirroring the function-style contract.
func (h *VerifyHandler) Handle(c echo.Context) error {
	h.applyCORS(c)

	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
		return h.issue(c)
	case http.MethodGet:
		return h.confirm(c)
	default:
		return c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	}
}

func (h *VerifyHandler) applyCORS(c echo.Context) {
	header := c.Response().Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	header.Set("Access-Control-Max-Age", "86400")
}

// issue re-sends the verification mail for a pending registration.
//
// @Summary      Re-send the verification mail
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Pending account email"
// @Success      200   {object}  verifyIssueResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /verify-email [post]
func (h *VerifyHandler) issue(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.verification.Issue(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyIssueResponse{
		Success:           true,
		Message:           "verification mail sent",
		VerificationToken: token,
	})
}

// confirm promotes a pending registration by token.
//
// @Summary      Confirm an email address
// @Tags         verification
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Param        email  query     string  true  "Account email"
// @Success      200    {object}  verifyConfirmResponse
// @Failure      400    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /verify-email [get]
func (h *VerifyHandler) confirm(c echo.Context) error {
	token := c.QueryParam("token")
	email := c.QueryParam("email")
	if token == "" || email == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "token and email are required"})
	}

	if err := h.verification.Confirm(c.Request().Context(), token, email); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.VerificationsTotal.WithLabelValues("expired").Inc()
		case errors.Is(err, domain.ErrInvalidToken):
			metrics.VerificationsTotal.WithLabelValues("invalid_token").Inc()
		default:
			metrics.VerificationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("confirmed").Inc()
	return c.JSON(http.StatusOK, verifyConfirmResponse{
		Success: true,
		Message: "email confirmed",
		Email:   email,
	})
}
