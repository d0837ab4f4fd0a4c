package ports

import "context"

// PaymentInput carries an order checkout request.
type PaymentInput struct {
	Amount    float64
	PlanName  string
	Quantity  int
	Period    string
	UserEmail string
}

// PaymentSession is the gateway's response to an initiated payment.
type PaymentSession struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
}

// PaymentGateway initiates a payment with an external processor.
type PaymentGateway interface {
	CreateSession(ctx context.Context, in PaymentInput) (*PaymentSession, error)
}

// PaymentService validates an order against the plan catalogue and
// initiates payment through the gateway.
type PaymentService interface {
	InitiatePayment(ctx context.Context, in PaymentInput) (*PaymentSession, error)
}
