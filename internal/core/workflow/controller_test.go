package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/service"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/validation"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/inmem"
)

type nopMail struct{}

func (nopMail) SendVerification(context.Context, string, string, string) error { return nil }
func (nopMail) SendPasswordReset(context.Context, string) error                { return nil }

type env struct {
	store      *inmem.CredentialStore
	auth       *service.AuthService
	verify     ports.VerificationService
	controller *Controller
	sessions   []*domain.Session
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := inmem.NewCredentialStore()
	auth := service.NewAuthService(store, inmem.NewSessionStore(), nopMail{}, "secret", time.Hour, zerolog.Nop())
	verify := service.NewVerificationService(store, inmem.NewTokenGuard(), nopMail{}, zerolog.Nop())
	checker := service.NewAvailabilityChecker(service.NewStoreLookup(store), 5*time.Millisecond, zerolog.Nop())

	e := &env{store: store, auth: auth, verify: verify}
	e.controller = NewController(auth, checker, func(s *domain.Session) {
		e.sessions = append(e.sessions, s)
	}, zerolog.Nop())
	return e
}

func fill(ctx context.Context, c *Controller, fields map[domain.Field]string) {
	for field, value := range fields {
		c.SetField(ctx, field, value)
	}
}

func TestController_StartsInLogin(t *testing.T) {
	e := newEnv(t)
	if mode := e.controller.Mode(); mode != domain.ModeLogin {
		t.Fatalf("initial mode = %q, want login", mode)
	}
}

func TestController_InvalidTransition(t *testing.T) {
	e := newEnv(t)
	if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
		t.Fatalf("login→register failed: %v", err)
	}
	if err := e.controller.SwitchMode(domain.ModeForgot); err != domain.ErrInvalidTransition {
		t.Fatalf("register→forgot must be rejected, got %v", err)
	}
}

// Switching modes always clears passwords; identifier and name survive
// only under rememberMe.
func TestController_SwitchClearsFields(t *testing.T) {
	ctx := context.Background()

	t.Run("rememberMe retains identity fields", func(t *testing.T) {
		e := newEnv(t)
		e.controller.SetRememberMe(true)
		if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
			t.Fatal(err)
		}
		fill(ctx, e.controller, map[domain.Field]string{
			domain.FieldIdentifier:      "alice",
			domain.FieldDisplayName:     "Alice",
			domain.FieldPassword:        "Passw0rd",
			domain.FieldConfirmPassword: "Passw0rd",
		})

		if err := e.controller.SwitchMode(domain.ModeLogin); err != nil {
			t.Fatal(err)
		}
		fields := e.controller.Fields()
		if fields.Password != "" || fields.ConfirmPassword != "" {
			t.Fatalf("passwords must be cleared: %+v", fields)
		}
		if fields.Identifier != "alice" || fields.DisplayName != "Alice" {
			t.Fatalf("identity fields must be retained: %+v", fields)
		}
	})

	t.Run("without rememberMe nothing survives", func(t *testing.T) {
		e := newEnv(t)
		if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
			t.Fatal(err)
		}
		fill(ctx, e.controller, map[domain.Field]string{
			domain.FieldIdentifier: "alice",
			domain.FieldPassword:   "Passw0rd",
		})

		if err := e.controller.SwitchMode(domain.ModeLogin); err != nil {
			t.Fatal(err)
		}
		fields := e.controller.Fields()
		if fields.Identifier != "" || fields.Password != "" {
			t.Fatalf("expected empty form, got %+v", fields)
		}
	})
}

func TestController_CloseWithoutRememberMe(t *testing.T) {
	e := newEnv(t)
	fill(context.Background(), e.controller, map[domain.Field]string{
		domain.FieldIdentifier: "alice",
		domain.FieldPassword:   "Passw0rd",
	})

	e.controller.Close()
	if fields := e.controller.Fields(); fields != (validation.Fields{}) {
		t.Fatalf("close must clear everything, got %+v", fields)
	}
}

func TestController_KeystrokeValidation(t *testing.T) {
	e := newEnv(t)
	if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
		t.Fatal(err)
	}

	e.controller.SetField(context.Background(), domain.FieldPassword, "abc")
	if msg := e.controller.Errors()[domain.FieldPassword]; msg == "" {
		t.Fatal("expected a field error for a weak password")
	}

	e.controller.SetField(context.Background(), domain.FieldPassword, "Passw0rd")
	if msg := e.controller.Errors()[domain.FieldPassword]; msg != "" {
		t.Fatalf("expected the error to clear, got %q", msg)
	}
}

func TestController_HiddenFieldIgnored(t *testing.T) {
	e := newEnv(t)
	// login mode has no display name field
	e.controller.SetField(context.Background(), domain.FieldDisplayName, "Ghost")
	if fields := e.controller.Fields(); fields.DisplayName != "" {
		t.Fatalf("hidden field must be ignored, got %q", fields.DisplayName)
	}
}

func TestController_RegisterRejectsTakenIdentifier(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	// occupy the identifier
	if _, err := e.auth.Register(ctx, ports.RegisterInput{
		Identifier: "taken_one", DisplayName: "First", Password: "Passw0rd",
	}); err != nil {
		t.Fatal(err)
	}

	if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
		t.Fatal(err)
	}
	fill(ctx, e.controller, map[domain.Field]string{
		domain.FieldIdentifier:      "taken_one",
		domain.FieldDisplayName:     "Second",
		domain.FieldPassword:        "Passw0rd",
		domain.FieldConfirmPassword: "Passw0rd",
	})
	// let the debounced check settle on "taken"
	time.Sleep(50 * time.Millisecond)

	if ok := e.controller.Submit(ctx); ok {
		t.Fatal("submit must fail for a taken identifier")
	}
	if msg := e.controller.Errors()[domain.FieldIdentifier]; msg != MsgIdentifierTakenField {
		t.Fatalf("identifier error = %q, want %q", msg, MsgIdentifierTakenField)
	}
	if mode := e.controller.Mode(); mode != domain.ModeRegister {
		t.Fatalf("failed submit must stay in register mode, got %q", mode)
	}
}

// Register → confirm → login, driven end to end through the controller.
func TestController_RegisterConfirmLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if err := e.controller.SwitchMode(domain.ModeRegister); err != nil {
		t.Fatal(err)
	}
	fill(ctx, e.controller, map[domain.Field]string{
		domain.FieldIdentifier:      "alice",
		domain.FieldDisplayName:     "Alice",
		domain.FieldPassword:        "Passw0rd",
		domain.FieldConfirmPassword: "Passw0rd",
	})

	if ok := e.controller.Submit(ctx); !ok {
		t.Fatalf("register submit failed: %v", e.controller.Errors())
	}
	if mode := e.controller.Mode(); mode != domain.ModeLogin {
		t.Fatalf("successful registration must return to login, got %q", mode)
	}
	if e.controller.Notice() != NoticeCheckMail {
		t.Fatalf("expected check-mail notice, got %q", e.controller.Notice())
	}

	reg, err := e.store.FindPendingByIdentifier(ctx, "alice")
	if err != nil {
		t.Fatalf("pending record missing: %v", err)
	}
	if err := e.verify.Confirm(ctx, reg.VerificationToken, "alice"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	fill(ctx, e.controller, map[domain.Field]string{
		domain.FieldIdentifier: "alice",
		domain.FieldPassword:   "Passw0rd",
	})
	if ok := e.controller.Submit(ctx); !ok {
		t.Fatalf("login submit failed: %v", e.controller.Errors())
	}

	if len(e.sessions) != 1 {
		t.Fatalf("success callback fired %d times, want 1", len(e.sessions))
	}
	if e.sessions[0].Identifier != "alice" {
		t.Fatalf("session identifier = %q, want alice", e.sessions[0].Identifier)
	}
	if fields := e.controller.Fields(); fields.Password != "" {
		t.Fatal("password must be cleared after login")
	}
}

func TestController_LoginBeforeConfirm(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.auth.Register(ctx, ports.RegisterInput{
		Identifier: "bob", DisplayName: "Bob", Password: "Passw0rd",
	}); err != nil {
		t.Fatal(err)
	}

	fill(ctx, e.controller, map[domain.Field]string{
		domain.FieldIdentifier: "bob",
		domain.FieldPassword:   "Passw0rd",
	})
	if ok := e.controller.Submit(ctx); ok {
		t.Fatal("login must fail before confirmation")
	}
	if msg := e.controller.Errors()[domain.FieldIdentifier]; msg != MsgEmailNotConfirmed {
		t.Fatalf("identifier error = %q, want %q", msg, MsgEmailNotConfirmed)
	}
}

func TestController_ForgotIsUniform(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if err := e.controller.SwitchMode(domain.ModeForgot); err != nil {
		t.Fatal(err)
	}
	fill(ctx, e.controller, map[domain.Field]string{domain.FieldIdentifier: "whoever"})

	if ok := e.controller.Submit(ctx); !ok {
		t.Fatalf("forgot submit failed: %v", e.controller.Errors())
	}
	if mode := e.controller.Mode(); mode != domain.ModeLogin {
		t.Fatalf("forgot must return to login, got %q", mode)
	}
	if e.controller.Notice() != NoticeResetRequested {
		t.Fatalf("notice = %q, want uniform reset notice", e.controller.Notice())
	}
}

// The forgot→login transition obeys the same retention rule as every
// other mode switch: identity fields survive only under rememberMe.
func TestController_ForgotSubmitClearsFields(t *testing.T) {
	ctx := context.Background()

	t.Run("without rememberMe", func(t *testing.T) {
		e := newEnv(t)
		if err := e.controller.SwitchMode(domain.ModeForgot); err != nil {
			t.Fatal(err)
		}
		fill(ctx, e.controller, map[domain.Field]string{domain.FieldIdentifier: "whoever"})

		if ok := e.controller.Submit(ctx); !ok {
			t.Fatalf("forgot submit failed: %v", e.controller.Errors())
		}
		if fields := e.controller.Fields(); fields.Identifier != "" {
			t.Fatalf("identifier must be cleared after forgot submit, got %q", fields.Identifier)
		}
	})

	t.Run("with rememberMe", func(t *testing.T) {
		e := newEnv(t)
		e.controller.SetRememberMe(true)
		if err := e.controller.SwitchMode(domain.ModeForgot); err != nil {
			t.Fatal(err)
		}
		fill(ctx, e.controller, map[domain.Field]string{domain.FieldIdentifier: "whoever"})

		if ok := e.controller.Submit(ctx); !ok {
			t.Fatalf("forgot submit failed: %v", e.controller.Errors())
		}
		if fields := e.controller.Fields(); fields.Identifier != "whoever" {
			t.Fatalf("identifier must be retained under rememberMe, got %q", fields.Identifier)
		}
	})
}

func TestController_SubmitValidationBlocks(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if ok := e.controller.Submit(ctx); ok {
		t.Fatal("empty login form must not submit")
	}
	errs := e.controller.Errors()
	if errs[domain.FieldIdentifier] == "" || errs[domain.FieldPassword] == "" {
		t.Fatalf("expected field errors, got %v", errs)
	}
}
