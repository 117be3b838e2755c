package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a bank customer holding zero or more named accounts.
type Client struct {
	ID        string    `db:"id"` // UUID
	FirstName string    `db:"fname"`
	LastName  string    `db:"lname"`
	Accounts  []Account `db:"accounts"` // JSON array
	Version   int64     `db:"version"`  // bumped by the store on every successful write
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Account is a named balance. Names are the lookup key within a client.
type Account struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func NewClient(firstName, lastName string, accounts []Account) (*Client, error) {
	now := time.Now().UTC()
	client := &Client{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Accounts:  cloneAccounts(accounts),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}
	return client, nil
}

// Clone returns a detached deep copy
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Accounts = cloneAccounts(c.Accounts)
	return &clone
}

// Validate checks the at-rest invariants: non-negative amounts, unique non-empty names.
func (c *Client) Validate() error {
	seen := make(map[string]bool, len(c.Accounts))
	for _, account := range c.Accounts {
		name := strings.TrimSpace(account.Name)
		if name == "" {
			return NewError(KindInvalidInput, "account name must not be empty")
		}
		if seen[account.Name] {
			return NewError(KindDuplicateAccount, "account %q appears more than once", account.Name)
		}
		seen[account.Name] = true
		if err := ValidateAmount(account.Amount); err != nil {
			return err
		}
	}
	return nil
}

// HasAccount reports whether any account carries the given name
func (c *Client) HasAccount(name string) bool {
	for _, account := range c.Accounts {
		if account.Name == name {
			return true
		}
	}
	return false
}

// Touch stamps the modification time.
func (c *Client) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

func cloneAccounts(accounts []Account) []Account {
	out := make([]Account, len(accounts))
	copy(out, accounts)
	return out
}
