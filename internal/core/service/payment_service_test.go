package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

type stubGateway struct {
	lastInput ports.PaymentInput
	err       error
}

func (g *stubGateway) CreateSession(_ context.Context, in ports.PaymentInput) (*ports.PaymentSession, error) {
	g.lastInput = in
	if g.err != nil {
		return nil, g.err
	}
	return &ports.PaymentSession{
		PaymentID:  "pay_1",
		PaymentURL: "https://gw.example.com/pay/pay_1",
		Status:     "pending",
	}, nil
}

func TestPaymentService_Initiate(t *testing.T) {
	gw := &stubGateway{}
	svc := NewPaymentService(gw, zerolog.Nop())

	session, err := svc.InitiatePayment(context.Background(), ports.PaymentInput{
		Amount:    999,
		PlanName:  "Pro",
		Quantity:  0,
		Period:    "1",
		UserEmail: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if session.PaymentURL == "" {
		t.Fatal("expected a payment URL")
	}
	if gw.lastInput.Quantity != 1 {
		t.Fatalf("quantity floor: got %d, want 1", gw.lastInput.Quantity)
	}
}

func TestPaymentService_UnknownPlan(t *testing.T) {
	svc := NewPaymentService(&stubGateway{}, zerolog.Nop())

	_, err := svc.InitiatePayment(context.Background(), ports.PaymentInput{
		Amount: 999, PlanName: "Galactic", UserEmail: "a@b.c",
	})
	if !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPaymentService_NonPositiveAmount(t *testing.T) {
	svc := NewPaymentService(&stubGateway{}, zerolog.Nop())

	_, err := svc.InitiatePayment(context.Background(), ports.PaymentInput{
		Amount: 0, PlanName: "Basic", UserEmail: "a@b.c",
	})
	if !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestPaymentService_GatewayFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("gateway down")}
	svc := NewPaymentService(gw, zerolog.Nop())

	if _, err := svc.InitiatePayment(context.Background(), ports.PaymentInput{
		Amount: 499, PlanName: "Basic", UserEmail: "a@b.c",
	}); err == nil {
		t.Fatal("expected gateway error to propagate")
	}
}
