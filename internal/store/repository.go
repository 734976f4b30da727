/**
 * @description
 * This file defines the interfaces for the persistence gateway. The dispatch
 * service and the request workflow depend on these interfaces only, never on
 * a concrete backend, so the storage mode can be swapped without touching
 * the domain logic.
 *
 * @notes
 * - Every backend wraps its failures in domain.PersistenceError; not-found
 *   conditions are reported as ErrNotFound so callers can tell the two apart.
 */
package store

import (
	"context"
	"errors"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist in the
// selected backend.
var ErrNotFound = errors.New("store: not found")

// StorageMode selects which persistence backend a gateway uses. It is fixed
// at construction for the lifetime of the process.
type StorageMode string

const (
	ModePostgres StorageMode = "postgres"
	ModeFile     StorageMode = "file"
	ModeMemory   StorageMode = "memory"
)

// ParseStorageMode maps a configuration label onto a StorageMode.
func ParseStorageMode(s string) (StorageMode, error) {
	switch StorageMode(s) {
	case ModePostgres, ModeFile, ModeMemory:
		return StorageMode(s), nil
	default:
		return "", domain.NewValidationError("storage_mode", "must be one of postgres, file, memory")
	}
}

// CustomerRepository is the persistence contract for customer records,
// including their inboxes.
type CustomerRepository interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
}

// ManagerRepository is the persistence contract for bank manager records.
type ManagerRepository interface {
	GetManager(ctx context.Context, id string) (*domain.BankManager, error)
	UpdateBankManager(ctx context.Context, m *domain.BankManager) error
	ListManagers(ctx context.Context) ([]*domain.BankManager, error)
}

// AccountRepository is the persistence contract for accounts.
type AccountRepository interface {
	GetAccount(ctx context.Context, number string) (*domain.Account, error)
	SaveAccount(ctx context.Context, a *domain.Account) error
	ListAccountsByCustomer(ctx context.Context, customerID string) (domain.AccountList, error)
	ListPendingAccounts(ctx context.Context) (domain.AccountList, error)
}

// Gateway bundles the per-entity repositories of one storage backend.
type Gateway struct {
	Mode      StorageMode
	Customers CustomerRepository
	Managers  ManagerRepository
	Accounts  AccountRepository
}
