/**
 * @description
 * Session/identity lookup for the HTTP surface. Authentication is out of
 * scope for this service; callers identify themselves with plain identity
 * headers and the session resolves them against the user stores. Absent or
 * unknown identities resolve to nil, which every downstream operation
 * treats as a safe no-op.
 */
package api

import (
	"net/http"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
)

const (
	customerHeader = "X-Customer-ID"
	managerHeader  = "X-Manager-ID"
)

// Session resolves request identity headers to user records.
type Session struct {
	customers store.CustomerRepository
	managers  store.ManagerRepository
}

// NewSession creates a session lookup over the given stores.
func NewSession(customers store.CustomerRepository, managers store.ManagerRepository) *Session {
	return &Session{customers: customers, managers: managers}
}

// CurrentCustomer returns the customer identified by the request, or nil.
func (s *Session) CurrentCustomer(r *http.Request) *domain.Customer {
	id := r.Header.Get(customerHeader)
	if id == "" {
		return nil
	}
	c, err := s.customers.GetCustomer(r.Context(), id)
	if err != nil {
		return nil
	}
	return c
}

// CurrentManager returns the manager identified by the request, or nil.
func (s *Session) CurrentManager(r *http.Request) *domain.BankManager {
	id := r.Header.Get(managerHeader)
	if id == "" {
		return nil
	}
	m, err := s.managers.GetManager(r.Context(), id)
	if err != nil {
		return nil
	}
	return m
}

// CurrentUser returns whichever identity the request carries, customer
// first, or nil when neither resolves.
func (s *Session) CurrentUser(r *http.Request) domain.User {
	if c := s.CurrentCustomer(r); c != nil {
		return c
	}
	if m := s.CurrentManager(r); m != nil {
		return m
	}
	return nil
}
