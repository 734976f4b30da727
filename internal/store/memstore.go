/**
 * @description
 * In-memory implementation of the persistence gateway for the MEMORY
 * storage mode. Used by tests and throwaway environments; nothing survives
 * a restart.
 */
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

// MemoryStore implements CustomerRepository, ManagerRepository and
// AccountRepository over process-local maps.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	managers  map[string]*domain.BankManager
	accounts  map[string]*domain.Account
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: map[string]*domain.Customer{},
		managers:  map[string]*domain.BankManager{},
		accounts:  map[string]*domain.Account{},
	}
}

func (s *MemoryStore) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) UpdateCustomer(_ context.Context, c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return nil
}

func (s *MemoryStore) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) GetManager(_ context.Context, id string) (*domain.BankManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.managers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) UpdateBankManager(_ context.Context, m *domain.BankManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.managers[m.ID] = m
	return nil
}

func (s *MemoryStore) ListManagers(_ context.Context) ([]*domain.BankManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.BankManager, 0, len(s.managers))
	for _, m := range s.managers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) GetAccount(_ context.Context, number string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[number]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) SaveAccount(_ context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Number] = a
	return nil
}

func (s *MemoryStore) ListAccountsByCustomer(_ context.Context, customerID string) (domain.AccountList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.AccountList{}
	for _, a := range s.accounts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	out.SortByOpenedDate()
	return out, nil
}

func (s *MemoryStore) ListPendingAccounts(_ context.Context) (domain.AccountList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.AccountList{}
	for _, a := range s.accounts {
		if !a.Active {
			out = append(out, a)
		}
	}
	out.SortByOpenedDate()
	return out, nil
}
