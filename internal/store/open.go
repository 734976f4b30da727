/**
 * @description
 * Gateway construction. The storage mode is fixed at the first Open call
 * for the lifetime of the process: concurrent first access initializes the
 * gateway exactly once and every later call returns the same instance,
 * whatever arguments it carries.
 */
package store

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

var (
	openOnce sync.Once
	gateway  *Gateway
	openErr  error
)

// Open builds the persistence gateway for the given storage mode. The first
// call wins; the selected mode is never reconfigured afterwards.
func Open(ctx context.Context, mode StorageMode, databaseURL, dataFile string) (*Gateway, error) {
	openOnce.Do(func() {
		gateway, openErr = build(ctx, mode, databaseURL, dataFile)
	})
	return gateway, openErr
}

func build(ctx context.Context, mode StorageMode, databaseURL, dataFile string) (*Gateway, error) {
	switch mode {
	case ModePostgres:
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, domain.NewPersistenceError("connect postgres", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, domain.NewPersistenceError("ping postgres", err)
		}
		return &Gateway{
			Mode:      ModePostgres,
			Customers: NewPostgresCustomerRepository(pool),
			Managers:  NewPostgresManagerRepository(pool),
			Accounts:  NewPostgresAccountRepository(pool),
		}, nil
	case ModeFile:
		fs, err := OpenFileStore(dataFile)
		if err != nil {
			return nil, err
		}
		return &Gateway{Mode: ModeFile, Customers: fs, Managers: fs, Accounts: fs}, nil
	case ModeMemory:
		ms := NewMemoryStore()
		return &Gateway{Mode: ModeMemory, Customers: ms, Managers: ms, Accounts: ms}, nil
	default:
		return nil, domain.NewValidationError("storage_mode", "unknown storage mode "+string(mode))
	}
}
