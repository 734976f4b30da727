package app

import (
	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

// RateConfig holds the configured interest rates per account kind, as
// fractions (0.02, not 2). Constructed once in the composition root and
// read-only thereafter.
type RateConfig struct {
	rates map[domain.AccountKind]decimal.Decimal
}

// NewRateConfig builds the rate table from the configured savings and
// credit rates.
func NewRateConfig(savings, credit decimal.Decimal) *RateConfig {
	return &RateConfig{rates: map[domain.AccountKind]decimal.Decimal{
		domain.SavingsAccount: savings,
		domain.CreditAccount:  credit,
	}}
}

// Rate returns the configured rate for a kind, zero for kinds that do not
// accrue interest.
func (r *RateConfig) Rate(kind domain.AccountKind) decimal.Decimal {
	return r.rates[kind]
}
