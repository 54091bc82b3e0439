package models

import (
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
)

type ClientStatus string

const ClientActive ClientStatus = "active"
const ClientInactive ClientStatus = "inactive"

// Client is a person sharing the subscription.
type Client struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id,omitempty"`
	Name            string       `json:"name"`
	CellPhone       string       `json:"cell_phone"`
	DayToPay        int          `json:"day_to_pay"`
	Status          ClientStatus `json:"status"`
	LastPaymentDate Date         `json:"last_payment_date"`
	CreatedAt       Date         `json:"created_at"`
	UpdatedAt       Date         `json:"updated_at"`
}

func (c Client) Active() bool {
	return c.Status == ClientActive
}

// PaymentDueDate returns the date in the month of now on which the client has to pay.
// Days past the end of the month are clamped to its last day.
func (c Client) PaymentDueDate(now time.Time) time.Time {
	year, month, _ := now.Date()
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()
	day := c.DayToPay
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

type CreateClientRequest struct {
	Name      string `json:"name"`
	CellPhone string `json:"cell_phone"`
	DayToPay  int    `json:"day_to_pay"`
}

func (r CreateClientRequest) Validate() error {
	if r.Name == "" {
		return apierrors.NewValidationError("name", "the name is required")
	}
	if err := ValidateCellPhone(r.CellPhone); err != nil {
		return err
	}
	return ValidateDayToPay(r.DayToPay)
}

type UpdateClientRequest struct {
	Name      *string       `json:"name,omitempty"`
	CellPhone *string       `json:"cell_phone,omitempty"`
	DayToPay  *int          `json:"day_to_pay,omitempty"`
	Status    *ClientStatus `json:"status,omitempty"`
}

func (r UpdateClientRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return apierrors.NewValidationError("name", "the name is required")
	}
	if r.CellPhone != nil {
		if err := ValidateCellPhone(*r.CellPhone); err != nil {
			return err
		}
	}
	if r.DayToPay != nil {
		if err := ValidateDayToPay(*r.DayToPay); err != nil {
			return err
		}
	}
	if r.Status != nil && *r.Status != ClientActive && *r.Status != ClientInactive {
		return apierrors.NewValidationError("status", "the status must be %q or %q", ClientActive, ClientInactive)
	}
	return nil
}

func ValidateCellPhone(phone string) error {
	if phone == "" {
		return apierrors.NewValidationError("cell_phone", "the phone number is required")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return apierrors.NewValidationError("cell_phone", "the phone number must only contain digits")
		}
	}
	if len(phone) < 10 {
		return apierrors.NewValidationError("cell_phone", "the phone number must have at least 10 digits")
	}
	return nil
}

func ValidateDayToPay(day int) error {
	if day < 1 || day > 31 {
		return apierrors.NewValidationError("day_to_pay", "the payment day must be between 1 and 31")
	}
	return nil
}
