/**
 * @description
 * AccountList is an ordered collection of accounts with the sort and filter
 * queries used by the request workflow and by reporting.
 *
 * @notes
 * - Sorts mutate the receiver in place; filters are pure and return a new
 *   list preserving the source's relative order.
 */
package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountList preserves insertion order by default.
type AccountList []*Account

// SortByBalance sorts the list in place by ascending balance.
func (l AccountList) SortByBalance() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Balance.LessThan(l[j].Balance)
	})
}

// SortByType sorts the list in place lexicographically by account kind.
func (l AccountList) SortByType() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Kind < l[j].Kind
	})
}

// SortByOpenedDate sorts the list in place chronologically.
func (l AccountList) SortByOpenedDate() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].OpenedAt.Before(l[j].OpenedAt)
	})
}

// FilterByMinBalance returns the accounts whose balance is at least min.
func (l AccountList) FilterByMinBalance(min decimal.Decimal) AccountList {
	out := make(AccountList, 0, len(l))
	for _, a := range l {
		if a.Balance.GreaterThanOrEqual(min) {
			out = append(out, a)
		}
	}
	return out
}

// FilterByType returns the accounts matching the given kind name,
// case-insensitively.
func (l AccountList) FilterByType(kind string) AccountList {
	out := make(AccountList, 0, len(l))
	for _, a := range l {
		if strings.EqualFold(string(a.Kind), kind) {
			out = append(out, a)
		}
	}
	return out
}

// FilterActive returns only the accounts eligible for customer-facing
// listings.
func (l AccountList) FilterActive() AccountList {
	out := make(AccountList, 0, len(l))
	for _, a := range l {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}
