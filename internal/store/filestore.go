/**
 * @description
 * JSON snapshot implementation of the persistence gateway for the FILE
 * storage mode. The whole data set lives in one file; every mutation
 * rewrites the snapshot atomically (write to a .tmp sibling, then rename)
 * so a crash mid-write can never corrupt the previous good state.
 *
 * @notes
 * - Suited to demo and single-branch deployments; the Postgres backend is
 *   the production path.
 */
package store

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

type snapshot struct {
	SavedAt   time.Time                      `json:"saved_at"`
	Customers map[string]*domain.Customer    `json:"customers"`
	Managers  map[string]*domain.BankManager `json:"managers"`
	Accounts  map[string]*domain.Account     `json:"accounts"`
}

// FileStore implements CustomerRepository, ManagerRepository and
// AccountRepository over a single JSON snapshot file.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data snapshot
}

// OpenFileStore loads the snapshot at path, creating an empty data set if
// the file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: snapshot{
			Customers: map[string]*domain.Customer{},
			Managers:  map[string]*domain.BankManager{},
			Accounts:  map[string]*domain.Account{},
		},
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, domain.NewPersistenceError("open snapshot", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&fs.data); err != nil {
		return nil, domain.NewPersistenceError("decode snapshot", err)
	}
	if fs.data.Customers == nil {
		fs.data.Customers = map[string]*domain.Customer{}
	}
	if fs.data.Managers == nil {
		fs.data.Managers = map[string]*domain.BankManager{}
	}
	if fs.data.Accounts == nil {
		fs.data.Accounts = map[string]*domain.Account{}
	}
	return fs, nil
}

// save must be called with fs.mu held.
func (fs *FileStore) save() error {
	fs.data.SavedAt = time.Now().UTC()
	tmp := fs.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return domain.NewPersistenceError("write snapshot", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fs.data); err != nil {
		f.Close()
		return domain.NewPersistenceError("encode snapshot", err)
	}
	if err := f.Close(); err != nil {
		return domain.NewPersistenceError("write snapshot", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return domain.NewPersistenceError("replace snapshot", err)
	}
	return nil
}

func (fs *FileStore) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	c, ok := fs.data.Customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (fs *FileStore) UpdateCustomer(_ context.Context, c *domain.Customer) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Customers[c.ID] = c
	return fs.save()
}

func (fs *FileStore) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(fs.data.Customers))
	for _, c := range fs.data.Customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (fs *FileStore) GetManager(_ context.Context, id string) (*domain.BankManager, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	m, ok := fs.data.Managers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (fs *FileStore) UpdateBankManager(_ context.Context, m *domain.BankManager) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Managers[m.ID] = m
	return fs.save()
}

func (fs *FileStore) ListManagers(_ context.Context) ([]*domain.BankManager, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]*domain.BankManager, 0, len(fs.data.Managers))
	for _, m := range fs.data.Managers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (fs *FileStore) GetAccount(_ context.Context, number string) (*domain.Account, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	a, ok := fs.data.Accounts[number]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (fs *FileStore) SaveAccount(_ context.Context, a *domain.Account) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Accounts[a.Number] = a
	return fs.save()
}

func (fs *FileStore) ListAccountsByCustomer(_ context.Context, customerID string) (domain.AccountList, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := domain.AccountList{}
	for _, a := range fs.data.Accounts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	out.SortByOpenedDate()
	return out, nil
}

func (fs *FileStore) ListPendingAccounts(_ context.Context) (domain.AccountList, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := domain.AccountList{}
	for _, a := range fs.data.Accounts {
		if !a.Active {
			out = append(out, a)
		}
	}
	out.SortByOpenedDate()
	return out, nil
}
