package handler

import "github.com/pr-poehali-dev/vds-server-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

// identifier resolves the email|username alias: email wins when both are set.
func (r registerRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

type forgotRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type forgotResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type verifyIssueResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	VerificationToken string `json:"verification_token"`
}

type verifyConfirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

type paymentRequest struct {
	Amount    float64 `json:"amount"    validate:"required,gt=0"`
	PlanName  string  `json:"planName"  validate:"required"`
	Quantity  int     `json:"quantity"  validate:"omitempty,min=1"`
	Period    string  `json:"period"`
	UserEmail string  `json:"userEmail" validate:"required,email"`
}

type paymentResponse struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
}
