package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

type stubVerification struct {
	issueFn   func(ctx context.Context, identifier, displayName string) (string, error)
	confirmFn func(ctx context.Context, token, identifier string) error
}

func (s *stubVerification) Issue(ctx context.Context, identifier, displayName string) (string, error) {
	return s.issueFn(ctx, identifier, displayName)
}

func (s *stubVerification) Confirm(ctx context.Context, token, identifier string) error {
	return s.confirmFn(ctx, token, identifier)
}

func TestVerifyHandler_Options(t *testing.T) {
	h := NewVerifyHandler(&stubVerification{})

	c, rec := newTestContext(http.MethodOptions, "/verify-email", "")
	if err := h.Handle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Fatalf("Allow-Methods = %q", got)
	}
}

func TestVerifyHandler_MethodNotAllowed(t *testing.T) {
	h := NewVerifyHandler(&stubVerification{})

	c, rec := newTestContext(http.MethodPut, "/verify-email", "")
	if err := h.Handle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "Method not allowed" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestVerifyHandler_Issue(t *testing.T) {
	stub := &stubVerification{
		issueFn: func(_ context.Context, identifier, displayName string) (string, error) {
			if identifier != "alice@example.com" || displayName != "Alice" {
				t.Fatalf("unexpected args: %s %s", identifier, displayName)
			}
			return "tok123", nil
		},
	}
	h := NewVerifyHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/verify-email",
		`{"email":"alice@example.com","name":"Alice"}`)
	if err := h.Handle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp verifyIssueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.VerificationToken != "tok123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerifyHandler_Confirm_MissingParams(t *testing.T) {
	h := NewVerifyHandler(&stubVerification{})

	c, rec := newTestContext(http.MethodGet, "/verify-email?token=abc", "")
	if err := h.Handle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVerifyHandler_Confirm_Success(t *testing.T) {
	stub := &stubVerification{
		confirmFn: func(_ context.Context, token, identifier string) error {
			if token != "tok123" || identifier != "alice@example.com" {
				t.Fatalf("unexpected args: %s %s", token, identifier)
			}
			return nil
		},
	}
	h := NewVerifyHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/verify-email?token=tok123&email=alice@example.com", "")
	if err := h.Handle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp verifyConfirmResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerifyHandler_Confirm_ErrorsPropagate(t *testing.T) {
	stub := &stubVerification{
		confirmFn: func(context.Context, string, string) error {
			return domain.ErrTokenExpired
		},
	}
	h := NewVerifyHandler(stub)

	c, _ := newTestContext(http.MethodGet, "/verify-email?token=old&email=a@b.c", "")
	if err := h.Handle(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired to propagate, got %v", err)
	}
}
