package dto

import (
	"bytes"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is money in a request body. It must be a JSON number; "12" is rejected.
type Amount decimal.Decimal

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return errors.New("amount must be a JSON number")
	}
	return (*decimal.Decimal)(a).UnmarshalJSON(data)
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

// AccountRequest is a named balance in a request body
type AccountRequest struct {
	Name   string `json:"name" binding:"required"`
	Amount Amount `json:"amount"`
}

// ClientRequest is the body of POST /clients and PUT /clients/:id.
// On PUT the path id wins over ID, and a non-zero Version must match the stored one.
type ClientRequest struct {
	ID        string           `json:"id,omitempty"`
	FirstName string           `json:"fname"`
	LastName  string           `json:"lname"`
	Accounts  []AccountRequest `json:"account"`
	Version   int64            `json:"version,omitempty"`
}

// AmountRequest is the body of the deposit and withdraw endpoints, e.g. {"amount": 3000}
type AmountRequest struct {
	Amount *Amount `json:"amount" binding:"required"`
}

type AccountResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type ClientResponse struct {
	ID        string            `json:"id"`
	FirstName string            `json:"fname"`
	LastName  string            `json:"lname"`
	Accounts  []AccountResponse `json:"account"`
	Version   int64             `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ClientListResponse represents a list of clients
type ClientListResponse struct {
	Items      []ClientResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

// ClientUpdateResponse confirms a PUT
type ClientUpdateResponse struct {
	Message string         `json:"message"`
	Client  ClientResponse `json:"client"`
}

// BalanceChangeResponse confirms a deposit or withdrawal.
// Matched is 0 when no account carried the requested name.
type BalanceChangeResponse struct {
	Message string         `json:"message"`
	Matched int            `json:"matched"`
	Client  ClientResponse `json:"client"`
}
