package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits an amount may carry.
const MaxAmountScale = 2

// ValidateAmount rejects negative amounts and amounts finer than MaxAmountScale.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewError(KindInvalidAmount, "amount must not be negative: %s", amount.String())
	}
	if !amount.Equal(amount.Round(MaxAmountScale)) {
		return NewError(KindInvalidAmount, "amount has more than %d decimal places: %s", MaxAmountScale, amount.String())
	}
	return nil
}

// FilterAccountsByBalance returns the accounts whose amount lies in [lower, upper], in their
// original order. A nil lower bound means zero and a nil upper bound means unbounded.
// The result is never nil.
func FilterAccountsByBalance(accounts []Account, lower, upper *decimal.Decimal) []Account {
	lo := decimal.Zero
	if lower != nil {
		lo = *lower
	}

	matched := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Amount.LessThan(lo) {
			continue
		}
		if upper != nil && account.Amount.GreaterThan(*upper) {
			continue
		}
		matched = append(matched, account)
	}
	return matched
}

// Deposit adds amount to every account named name and returns how many matched.
// No match is a no-op, not an error.
func (c *Client) Deposit(name string, amount decimal.Decimal) (int, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}

	matched := 0
	for i := range c.Accounts {
		if c.Accounts[i].Name == name {
			c.Accounts[i].Amount = c.Accounts[i].Amount.Add(amount)
			matched++
		}
	}
	return matched, nil
}

// Withdraw subtracts amount from every account named name and returns how many matched.
// All matches are checked before any is debited, so an insufficiency leaves the client untouched.
func (c *Client) Withdraw(name string, amount decimal.Decimal) (int, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}

	var indexes []int
	for i := range c.Accounts {
		if c.Accounts[i].Name != name {
			continue
		}
		if c.Accounts[i].Amount.LessThan(amount) {
			return 0, NewError(KindInsufficientFunds,
				"insufficient funds in account %q: balance %s, requested %s",
				name, c.Accounts[i].Amount.String(), amount.String())
		}
		indexes = append(indexes, i)
	}

	for _, i := range indexes {
		c.Accounts[i].Amount = c.Accounts[i].Amount.Sub(amount)
	}
	return len(indexes), nil
}

// AddAccount appends a new account, rejecting duplicate names.
func (c *Client) AddAccount(account Account) error {
	if strings.TrimSpace(account.Name) == "" {
		return NewError(KindInvalidInput, "account name must not be empty")
	}
	if err := ValidateAmount(account.Amount); err != nil {
		return err
	}
	if c.HasAccount(account.Name) {
		return NewError(KindDuplicateAccount, "client %s already has an account named %q", c.ID, account.Name)
	}
	c.Accounts = append(c.Accounts, account)
	return nil
}

// BalancesOf returns the balances of every account named name, in order.
func (c *Client) BalancesOf(name string) []decimal.Decimal {
	var balances []decimal.Decimal
	for _, account := range c.Accounts {
		if account.Name == name {
			balances = append(balances, account.Amount)
		}
	}
	return balances
}
