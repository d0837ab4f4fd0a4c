// Package payment implements the payment gateway adapter. The stub
// gateway creates a session locally and hands back a hosted-checkout URL,
// mirroring the shape a real processor integration would return.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// StubGateway satisfies ports.PaymentGateway without contacting a real
// processor.
type StubGateway struct {
	baseURL string
	log     zerolog.Logger
}

func NewStubGateway(baseURL string, log zerolog.Logger) *StubGateway {
	return &StubGateway{baseURL: baseURL, log: log}
}

func (g *StubGateway) CreateSession(_ context.Context, in ports.PaymentInput) (*ports.PaymentSession, error) {
	paymentID := uuid.NewString()

	g.log.Debug().
		Str("payment_id", paymentID).
		Str("plan", in.PlanName).
		Str("user_email", in.UserEmail).
		Msg("stub payment session")

	return &ports.PaymentSession{
		PaymentID:  paymentID,
		PaymentURL: fmt.Sprintf("%s/pay/%s", g.baseURL, paymentID),
		Status:     "pending",
	}, nil
}
