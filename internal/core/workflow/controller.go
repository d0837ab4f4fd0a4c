// Package workflow implements the authentication workflow controller: a
// state machine over the login/register/forgot modes that wires raw field
// input through validation and availability checking, and drives submit
// operations against the auth service.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/service"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/validation"
)

// User-facing notices and submit-time error messages.
const (
	MsgIdentifierTakenField = "this username is already taken"
	MsgInvalidCredentials   = "invalid username or password"
	MsgEmailNotConfirmed    = "email not confirmed, follow the link from the verification mail"
	MsgNetworkFailure       = "network error, try again later"
	NoticeCheckMail         = "registration accepted, check your email to confirm the address"
	NoticeResetRequested    = "if the account exists, a reset link has been sent"
)

// SuccessCallback is invoked exactly once per successful login.
type SuccessCallback func(session *domain.Session)

// Controller orchestrates the authentication form. All methods are safe
// for use from a single UI event loop; a mutex guards against the
// availability checker's timer goroutine.
type Controller struct {
	auth    ports.AuthService
	checker *service.AvailabilityChecker
	log     zerolog.Logger

	mu         sync.Mutex
	mode       domain.AuthMode
	fields     validation.Fields
	errors     map[domain.Field]string
	rememberMe bool
	notice     string
	onSuccess  SuccessCallback
}

// NewController creates a controller starting in login mode.
func NewController(auth ports.AuthService, checker *service.AvailabilityChecker, onSuccess SuccessCallback, log zerolog.Logger) *Controller {
	c := &Controller{
		auth:      auth,
		checker:   checker,
		log:       log,
		mode:      domain.ModeLogin,
		errors:    emptyErrors(),
		onSuccess: onSuccess,
	}
	checker.OnSettle(c.applyAvailability)
	return c
}

func emptyErrors() map[domain.Field]string {
	return map[domain.Field]string{
		domain.FieldIdentifier:      "",
		domain.FieldDisplayName:     "",
		domain.FieldPassword:        "",
		domain.FieldConfirmPassword: "",
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() domain.AuthMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetRememberMe toggles field retention across mode switches and modal
// close/reopen cycles.
func (c *Controller) SetRememberMe(remember bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rememberMe = remember
}

// SwitchMode transitions the workflow to the given mode. Password fields
// are always cleared; identifier and display name survive only when
// rememberMe is set. Entering register mode resets the availability
// checker to idle.
func (c *Controller) SwitchMode(next domain.AuthMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !next.Valid() || !c.mode.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}

	c.mode = next
	c.fields.Password = ""
	c.fields.ConfirmPassword = ""
	if !c.rememberMe {
		c.fields.Identifier = ""
		c.fields.DisplayName = ""
	}
	c.errors = emptyErrors()
	c.notice = ""

	if next == domain.ModeRegister {
		c.checker.Reset()
	}
	return nil
}

// Close simulates closing the form. Without rememberMe nothing survives a
// close/reopen cycle.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fields.Password = ""
	c.fields.ConfirmPassword = ""
	if !c.rememberMe {
		c.fields = validation.Fields{}
	}
	c.errors = emptyErrors()
	c.notice = ""
	c.checker.Reset()
}

// SetField records a keystroke: the value is stored, the single field is
// re-validated, and in register mode an identifier edit schedules a
// debounced availability check.
func (c *Controller) SetField(ctx context.Context, field domain.Field, value string) {
	c.mu.Lock()

	if !c.mode.HasField(field) {
		c.mu.Unlock()
		return
	}

	switch field {
	case domain.FieldIdentifier:
		c.fields.Identifier = value
		c.errors[field] = validation.Identifier(value)
	case domain.FieldDisplayName:
		c.fields.DisplayName = value
		c.errors[field] = validation.DisplayName(value)
	case domain.FieldPassword:
		c.fields.Password = value
		if c.mode == domain.ModeRegister {
			c.errors[field] = validation.Password(value)
		} else if value != "" {
			c.errors[field] = ""
		}
	case domain.FieldConfirmPassword:
		c.fields.ConfirmPassword = value
		c.errors[field] = validation.ConfirmPassword(value, c.fields.Password)
	}

	register := c.mode == domain.ModeRegister
	c.mu.Unlock()

	if register && field == domain.FieldIdentifier {
		c.checker.Check(ctx, value)
	}
}

// applyAvailability folds a settled availability result into the error
// map. A taken identifier surfaces a field error that static validation
// may later override.
func (c *Controller) applyAvailability(identifier string, status ports.AvailabilityStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != domain.ModeRegister || c.fields.Identifier != identifier {
		return
	}
	if status == ports.AvailabilityTaken {
		c.errors[domain.FieldIdentifier] = MsgIdentifierTakenField
	} else if c.errors[domain.FieldIdentifier] == MsgIdentifierTakenField {
		c.errors[domain.FieldIdentifier] = ""
	}
}

// Errors returns a copy of the current field error map.
func (c *Controller) Errors() map[domain.Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[domain.Field]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Fields returns the current form values.
func (c *Controller) Fields() validation.Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Notice returns the last informational message (check-your-mail,
// reset-requested).
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// Submit validates and executes the active mode's operation. It returns
// true when the operation succeeded; failures leave the form intact with
// field errors set.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	mode := c.mode
	fields := c.fields
	c.mu.Unlock()

	switch mode {
	case domain.ModeLogin:
		return c.submitLogin(ctx, fields)
	case domain.ModeRegister:
		return c.submitRegister(ctx, fields)
	case domain.ModeForgot:
		return c.submitForgot(ctx, fields)
	}
	return false
}

func (c *Controller) submitLogin(ctx context.Context, fields validation.Fields) bool {
	errs := validation.Form(domain.ModeLogin, fields)
	if !c.applyErrors(errs) {
		return false
	}

	_, session, err := c.auth.Login(ctx, fields.Identifier, fields.Password)
	if err != nil {
		c.setIdentifierError(loginErrorMessage(err))
		return false
	}

	c.mu.Lock()
	c.fields.Password = ""
	c.errors = emptyErrors()
	cb := c.onSuccess
	c.mu.Unlock()

	if cb != nil {
		cb(session)
	}
	return true
}

func (c *Controller) submitRegister(ctx context.Context, fields validation.Fields) bool {
	errs := validation.Form(domain.ModeRegister, fields)
	if !c.applyErrors(errs) {
		return false
	}

	// Reject locally when the last settled check said taken; an idle or
	// in-flight check defers to the authoritative store below.
	if status, identifier := c.checker.Status(); status == ports.AvailabilityTaken && identifier == fields.Identifier {
		c.setIdentifierError(MsgIdentifierTakenField)
		return false
	}

	_, err := c.auth.Register(ctx, ports.RegisterInput{
		Identifier:  fields.Identifier,
		DisplayName: fields.DisplayName,
		Password:    fields.Password,
	})
	if err != nil {
		c.setIdentifierError(registerErrorMessage(err))
		return false
	}

	c.mu.Lock()
	c.mode = domain.ModeLogin
	c.fields.Password = ""
	c.fields.ConfirmPassword = ""
	if !c.rememberMe {
		c.fields.Identifier = ""
		c.fields.DisplayName = ""
	}
	c.errors = emptyErrors()
	c.notice = NoticeCheckMail
	c.mu.Unlock()
	return true
}

func (c *Controller) submitForgot(ctx context.Context, fields validation.Fields) bool {
	if msg := validation.Identifier(fields.Identifier); msg != "" {
		c.setIdentifierError(msg)
		return false
	}

	// The notice is identical whether or not the account exists.
	if err := c.auth.RequestPasswordReset(ctx, fields.Identifier); err != nil {
		c.log.Warn().Err(err).Msg("password reset request failed")
	}

	c.mu.Lock()
	c.mode = domain.ModeLogin
	c.fields.Password = ""
	c.fields.ConfirmPassword = ""
	if !c.rememberMe {
		c.fields.Identifier = ""
		c.fields.DisplayName = ""
	}
	c.errors = emptyErrors()
	c.notice = NoticeResetRequested
	c.mu.Unlock()
	return true
}

// applyErrors installs a validation error map and reports whether the form
// is clean.
func (c *Controller) applyErrors(errs map[domain.Field]string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = errs
	return validation.Valid(errs)
}

func (c *Controller) setIdentifierError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors[domain.FieldIdentifier] = msg
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return MsgEmailNotConfirmed
	case errors.Is(err, domain.ErrInvalidCredentials):
		return MsgInvalidCredentials
	default:
		return MsgNetworkFailure
	}
}

func registerErrorMessage(err error) string {
	if errors.Is(err, domain.ErrIdentifierTaken) {
		return MsgIdentifierTakenField
	}
	return MsgNetworkFailure
}
