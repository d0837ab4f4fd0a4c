package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

type paymentService struct {
	gateway ports.PaymentGateway
	log     zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(gateway ports.PaymentGateway, log zerolog.Logger) ports.PaymentService {
	return &paymentService{gateway: gateway, log: log}
}

// InitiatePayment validates the order against the plan catalogue and opens
// a payment session with the gateway.
func (s *paymentService) InitiatePayment(ctx context.Context, in ports.PaymentInput) (*ports.PaymentSession, error) {
	plan, err := domain.FindPlan(in.PlanName)
	if err != nil {
		return nil, err
	}

	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", domain.ErrInvalidOrder)
	}

	session, err := s.gateway.CreateSession(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	s.log.Info().
		Str("plan", plan.Name).
		Float64("amount", in.Amount).
		Int("quantity", in.Quantity).
		Str("payment_id", session.PaymentID).
		Msg("payment session created")

	return session, nil
}
