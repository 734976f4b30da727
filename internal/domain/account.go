/**
 * @description
 * This file defines the core domain model for an Account within the
 * FortisBank system, covering the four product kinds (checking, savings,
 * credit, currency) and their construction-time validation rules.
 *
 * @notes
 * - Accounts are created inactive by the request workflow and only become
 *   active on manager approval; inactive accounts never appear in
 *   customer-facing balance listings.
 * - Monetary values use shopspring/decimal; interest rates are fractions
 *   (0.02), never percentages.
 */
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind defines the product type of an account. Immutable after
// creation.
type AccountKind string

const (
	CheckingAccount AccountKind = "CHECKING"
	SavingsAccount  AccountKind = "SAVINGS"
	CreditAccount   AccountKind = "CREDIT"
	CurrencyAccount AccountKind = "CURRENCY"
)

// ParseAccountKind maps a case-insensitive label onto an AccountKind.
// Unknown labels are a ValidationError, never a silent default.
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(strings.ToUpper(strings.TrimSpace(s))) {
	case CheckingAccount:
		return CheckingAccount, nil
	case SavingsAccount:
		return SavingsAccount, nil
	case CreditAccount:
		return CreditAccount, nil
	case CurrencyAccount:
		return CurrencyAccount, nil
	default:
		return "", NewValidationError("kind", fmt.Sprintf("unknown account type %q", s))
	}
}

// Account represents a single bank account. Number is globally unique and
// assigned at creation; CustomerID is a reference, not ownership.
type Account struct {
	Number       string          `json:"number"`
	CustomerID   string          `json:"customer_id"`
	Kind         AccountKind     `json:"kind"`
	OpenedAt     time.Time       `json:"opened_at"`
	Balance      decimal.Decimal `json:"balance"`
	Active       bool            `json:"active"`
	InterestRate decimal.Decimal `json:"interest_rate"`           // SAVINGS and CREDIT, as a fraction
	Limit        decimal.Decimal `json:"credit_limit"`            // CREDIT only
	CurrencyCode string          `json:"currency_code,omitempty"` // CURRENCY only, 3 letters
	LastActiveAt time.Time       `json:"last_active_at"`
}

func newAccount(number, customerID string, kind AccountKind, openedAt time.Time, initial decimal.Decimal) (*Account, error) {
	if number == "" {
		return nil, NewValidationError("number", "account number is required")
	}
	if customerID == "" {
		return nil, NewValidationError("customer_id", "customer reference is required")
	}
	if initial.IsNegative() {
		return nil, NewValidationError("balance", "initial balance cannot be negative")
	}
	return &Account{
		Number:     number,
		CustomerID: customerID,
		Kind:       kind,
		OpenedAt:   openedAt,
		Balance:    initial,
	}, nil
}

// NewCheckingAccount constructs an inactive checking account.
func NewCheckingAccount(number, customerID string, openedAt time.Time, initial decimal.Decimal) (*Account, error) {
	return newAccount(number, customerID, CheckingAccount, openedAt, initial)
}

// NewSavingsAccount constructs an inactive savings account with the given
// interest rate expressed as a fraction.
func NewSavingsAccount(number, customerID string, openedAt time.Time, initial, rate decimal.Decimal) (*Account, error) {
	if rate.IsNegative() {
		return nil, NewValidationError("interest_rate", "interest rate cannot be negative")
	}
	a, err := newAccount(number, customerID, SavingsAccount, openedAt, initial)
	if err != nil {
		return nil, err
	}
	a.InterestRate = rate
	return a, nil
}

// NewCreditAccount constructs an inactive credit account. The available
// balance is initialized to the requested credit amount, which must be
// positive and becomes the credit limit.
func NewCreditAccount(number, customerID string, openedAt time.Time, creditAmount, rate decimal.Decimal) (*Account, error) {
	if !creditAmount.IsPositive() {
		return nil, NewValidationError("credit_amount", "requested credit amount must be positive")
	}
	if rate.IsNegative() {
		return nil, NewValidationError("interest_rate", "interest rate cannot be negative")
	}
	a, err := newAccount(number, customerID, CreditAccount, openedAt, creditAmount)
	if err != nil {
		return nil, err
	}
	a.Limit = creditAmount
	a.InterestRate = rate
	return a, nil
}

// NewCurrencyAccount constructs an inactive foreign-currency account. The
// currency code must be three letters and is normalized to upper case.
func NewCurrencyAccount(number, customerID string, openedAt time.Time, initial decimal.Decimal, currencyCode string) (*Account, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(code) != 3 || !isAlpha(code) {
		return nil, NewValidationError("currency_code", fmt.Sprintf("invalid currency code %q", currencyCode))
	}
	a, err := newAccount(number, customerID, CurrencyAccount, openedAt, initial)
	if err != nil {
		return nil, err
	}
	a.CurrencyCode = code
	a.LastActiveAt = time.Now().UTC()
	return a, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// CreditLimit returns the credit limit for CREDIT accounts. The boolean is
// false for every other kind, which has no limit at all.
func (a *Account) CreditLimit() (decimal.Decimal, bool) {
	if a.Kind == CreditAccount {
		return a.Limit, true
	}
	return decimal.Decimal{}, false
}

// Touch records account usage. Only CURRENCY accounts track a last-active
// timestamp; for every other kind this is a no-op.
func (a *Account) Touch() {
	if a.Kind == CurrencyAccount {
		a.LastActiveAt = time.Now().UTC()
	}
}

// DisplayInfo produces a deterministic human-readable summary of the
// account's identity, balance and kind-specific fields.
func (a *Account) DisplayInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Account Number: %s\n", a.Number)
	fmt.Fprintf(&b, "Account Type: %s\n", a.Kind)
	fmt.Fprintf(&b, "Opened Date: %s\n", a.OpenedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Available Balance: %s\n", a.Balance.StringFixed(2))
	switch a.Kind {
	case SavingsAccount:
		fmt.Fprintf(&b, "Interest Rate: %s\n", a.InterestRate.String())
	case CreditAccount:
		fmt.Fprintf(&b, "Credit Limit: %s\n", a.Limit.StringFixed(2))
		fmt.Fprintf(&b, "Interest Rate: %s\n", a.InterestRate.String())
	case CurrencyAccount:
		fmt.Fprintf(&b, "Currency Code: %s\n", a.CurrencyCode)
	}
	fmt.Fprintf(&b, "Customer: %s", a.CustomerID)
	return b.String()
}
