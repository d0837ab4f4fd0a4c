package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/vds-server-api/internal/api/metrics"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/validation"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Register accepts a registration and creates a pending record awaiting
// email verification.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  registerResponse
// @Failure      409   {object}  registerResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, registerResponse{Error: "invalid payload"})
	}

	identifier := req.identifier()
	if msg := validation.Identifier(identifier); msg != "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, registerResponse{Error: msg})
	}
	if msg := validation.DisplayName(req.Name); msg != "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, registerResponse{Error: msg})
	}
	if msg := validation.Password(req.Password); msg != "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, registerResponse{Error: msg})
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Identifier:  identifier,
		DisplayName: req.Name,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIdentifierTaken) {
			metrics.RegistrationsTotal.WithLabelValues("identifier_taken").Inc()
			return c.JSON(http.StatusConflict, registerResponse{Error: "identifier already taken"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("pending_created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: "registration accepted, check your email to confirm the address",
	})
}

// Login authenticates against the confirmed set and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotConfirmed):
			metrics.LoginsTotal.WithLabelValues("not_confirmed").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, Session: session})
}

// Logout destroys the active session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204   "no content"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Forgot triggers a password-reset notification. The response is identical
// whether or not the identifier exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotRequest  true  "Account identifier"
// @Success      200   {object}  forgotResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/forgot [post]
func (h *AuthHandler) Forgot(c echo.Context) error {
	var req forgotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if msg := validation.Identifier(req.Identifier); msg != "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
	}

	_ = h.authService.RequestPasswordReset(c.Request().Context(), req.Identifier)

	return c.JSON(http.StatusOK, forgotResponse{
		Success: true,
		Message: "if the account exists, a reset link has been sent",
	})
}

// Session returns the active session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200   {object}  domain.Session
// @Failure      401   {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := h.sessions.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}
