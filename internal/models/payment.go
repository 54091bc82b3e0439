package models

import (
	"strings"
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
)

// PaymentStatus is normalized on decode, older API revisions used other names for the same states.
type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

func ParsePaymentStatus(value string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "processing", "pending":
		return PaymentProcessing
	case "completed", "success":
		return PaymentCompleted
	case "failed", "rejected":
		return PaymentFailed
	default:
		return PaymentStatus(value)
	}
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

func (s PaymentStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *PaymentStatus) UnmarshalText(data []byte) error {
	*s = ParsePaymentStatus(string(data))
	return nil
}

type Payment struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"client_id,omitempty"`
	UserID       string        `json:"user_id,omitempty"`
	Amount       float64       `json:"amount"`
	Status       PaymentStatus `json:"status"`
	PaymentDate  Date          `json:"payment_date"`
	CreatedAt    Date          `json:"created_at"`
	UpdatedAt    Date          `json:"updated_at"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// OwnerID returns the client the payment belongs to, whatever the API revision called it.
func (p Payment) OwnerID() string {
	if p.ClientID != "" {
		return p.ClientID
	}
	return p.UserID
}

// Date returns when the payment was made, falling back on its creation time.
func (p Payment) Date() time.Time {
	if !p.PaymentDate.IsZero() {
		return p.PaymentDate.Time
	}
	return p.CreatedAt.Time
}

func (p Payment) FailureMessage() string {
	if p.ErrorMessage != "" {
		return p.ErrorMessage
	}
	return p.Message
}

type CreatePaymentRequest struct {
	ClientID string  `json:"client_id"`
	Amount   float64 `json:"amount"`
}

// Validate checks a payment recorded by hand. The amount bounds of the payment flow do not
// apply, the payment was already settled elsewhere.
func (r CreatePaymentRequest) Validate() error {
	if r.ClientID == "" {
		return apierrors.NewValidationError("client_id", "the client is required")
	}
	if r.Amount <= 0 {
		return apierrors.NewValidationError("amount", "the amount must be positive")
	}
	return nil
}

type UpdatePaymentRequest struct {
	Amount      *float64       `json:"amount,omitempty"`
	PaymentDate *Date          `json:"payment_date,omitempty"`
	Status      *PaymentStatus `json:"status,omitempty"`
}

func (r UpdatePaymentRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return apierrors.NewValidationError("amount", "the amount must be positive")
	}
	if r.Status != nil && !r.Status.IsTerminal() && *r.Status != PaymentProcessing {
		return apierrors.NewValidationError("status", "unknown payment status %q", string(*r.Status))
	}
	return nil
}
