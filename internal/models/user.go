package models

import "github.com/premiumshare/paytracker/internal/apierrors"

// User is the legacy representation of a client, still served under /users.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CellPhone       string `json:"cell_phone"`
	DateToPay       string `json:"date_to_pay"`
	Paid            bool   `json:"paid"`
	Status          string `json:"status"`
	LastPaymentDate Date   `json:"last_payment_date"`
}

type CreateUserRequest struct {
	Name      string `json:"name"`
	CellPhone string `json:"cell_phone"`
	DateToPay string `json:"date_to_pay"`
}

func (r CreateUserRequest) Validate() error {
	return CreateClientRequest{Name: r.Name, CellPhone: r.CellPhone, DayToPay: 1}.Validate()
}

// UpdateUserRequest uses the capitalized keys the legacy endpoint expects.
type UpdateUserRequest struct {
	Name      *string `json:"Name,omitempty"`
	CellPhone *string `json:"CellPhone,omitempty"`
	Paid      *bool   `json:"Paid,omitempty"`
	DateToPay *string `json:"DateToPay,omitempty"`
	ChatID    *string `json:"ChatId,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return apierrors.NewValidationError("name", "the name is required")
	}
	if r.CellPhone != nil {
		return ValidateCellPhone(*r.CellPhone)
	}
	return nil
}
