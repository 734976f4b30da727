/**
 * @description
 * PostgreSQL implementation of the persistence gateway, backed by a pgx
 * connection pool. Inboxes are persisted as a JSONB column on the user row,
 * monetary values as NUMERIC round-tripped through their string form.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5 and pgxpool: the PostgreSQL driver.
 * - github.com/shopspring/decimal: parsing NUMERIC columns.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

// PostgresCustomerRepository is the PostgreSQL implementation of
// CustomerRepository.
type PostgresCustomerRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCustomerRepository creates a new PostgresCustomerRepository.
func NewPostgresCustomerRepository(db *pgxpool.Pool) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT id, full_name, email, inbox FROM customers WHERE id = $1`
	var (
		c     domain.Customer
		inbox []byte
	)
	if err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.FullName, &c.Email, &inbox); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, domain.NewPersistenceError("get customer", err)
	}
	if err := c.Messages.UnmarshalJSON(inbox); err != nil {
		return nil, domain.NewPersistenceError("decode customer inbox", err)
	}
	return &c, nil
}

func (r *PostgresCustomerRepository) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	inbox, err := c.Messages.MarshalJSON()
	if err != nil {
		return domain.NewPersistenceError("encode customer inbox", err)
	}
	query := `
        INSERT INTO customers (id, full_name, email, inbox, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (id) DO UPDATE
        SET full_name = EXCLUDED.full_name,
            email     = EXCLUDED.email,
            inbox     = EXCLUDED.inbox,
            updated_at = NOW()
    `
	if _, err := r.db.Exec(ctx, query, c.ID, c.FullName, c.Email, inbox); err != nil {
		return domain.NewPersistenceError("update customer", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, full_name, email, inbox FROM customers ORDER BY full_name`)
	if err != nil {
		return nil, domain.NewPersistenceError("list customers", err)
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		var (
			c     domain.Customer
			inbox []byte
		)
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &inbox); err != nil {
			return nil, domain.NewPersistenceError("scan customer", err)
		}
		if err := c.Messages.UnmarshalJSON(inbox); err != nil {
			return nil, domain.NewPersistenceError("decode customer inbox", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("list customers", err)
	}
	return out, nil
}

// PostgresManagerRepository is the PostgreSQL implementation of
// ManagerRepository.
type PostgresManagerRepository struct {
	db *pgxpool.Pool
}

// NewPostgresManagerRepository creates a new PostgresManagerRepository.
func NewPostgresManagerRepository(db *pgxpool.Pool) *PostgresManagerRepository {
	return &PostgresManagerRepository{db: db}
}

func (r *PostgresManagerRepository) GetManager(ctx context.Context, id string) (*domain.BankManager, error) {
	query := `SELECT id, full_name, inbox FROM bank_managers WHERE id = $1`
	var (
		m     domain.BankManager
		inbox []byte
	)
	if err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.FullName, &inbox); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, domain.NewPersistenceError("get manager", err)
	}
	if err := m.Messages.UnmarshalJSON(inbox); err != nil {
		return nil, domain.NewPersistenceError("decode manager inbox", err)
	}
	return &m, nil
}

func (r *PostgresManagerRepository) UpdateBankManager(ctx context.Context, m *domain.BankManager) error {
	inbox, err := m.Messages.MarshalJSON()
	if err != nil {
		return domain.NewPersistenceError("encode manager inbox", err)
	}
	query := `
        INSERT INTO bank_managers (id, full_name, inbox, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (id) DO UPDATE
        SET full_name = EXCLUDED.full_name,
            inbox     = EXCLUDED.inbox,
            updated_at = NOW()
    `
	if _, err := r.db.Exec(ctx, query, m.ID, m.FullName, inbox); err != nil {
		return domain.NewPersistenceError("update manager", err)
	}
	return nil
}

func (r *PostgresManagerRepository) ListManagers(ctx context.Context) ([]*domain.BankManager, error) {
	rows, err := r.db.Query(ctx, `SELECT id, full_name, inbox FROM bank_managers ORDER BY full_name`)
	if err != nil {
		return nil, domain.NewPersistenceError("list managers", err)
	}
	defer rows.Close()

	var out []*domain.BankManager
	for rows.Next() {
		var (
			m     domain.BankManager
			inbox []byte
		)
		if err := rows.Scan(&m.ID, &m.FullName, &inbox); err != nil {
			return nil, domain.NewPersistenceError("scan manager", err)
		}
		if err := m.Messages.UnmarshalJSON(inbox); err != nil {
			return nil, domain.NewPersistenceError("decode manager inbox", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("list managers", err)
	}
	return out, nil
}

// PostgresAccountRepository is the PostgreSQL implementation of
// AccountRepository.
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository.
func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `number, customer_id, kind, opened_at, balance::text,
	active, interest_rate::text, credit_limit::text, currency_code, last_active_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a                    domain.Account
		balance, rate, limit string
		currencyCode         *string
		lastActive           *time.Time
	)
	if err := row.Scan(&a.Number, &a.CustomerID, &a.Kind, &a.OpenedAt,
		&balance, &a.Active, &rate, &limit, &currencyCode, &lastActive); err != nil {
		return nil, err
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	if a.InterestRate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	if a.Limit, err = decimal.NewFromString(limit); err != nil {
		return nil, err
	}
	if currencyCode != nil {
		a.CurrencyCode = *currencyCode
	}
	if lastActive != nil {
		a.LastActiveAt = *lastActive
	}
	return &a, nil
}

func (r *PostgresAccountRepository) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, domain.NewPersistenceError("get account", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) SaveAccount(ctx context.Context, a *domain.Account) error {
	var currencyCode *string
	if a.CurrencyCode != "" {
		currencyCode = &a.CurrencyCode
	}
	var lastActive *time.Time
	if !a.LastActiveAt.IsZero() {
		lastActive = &a.LastActiveAt
	}
	query := `
        INSERT INTO accounts (number, customer_id, kind, opened_at, balance,
            active, interest_rate, credit_limit, currency_code, last_active_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (number) DO UPDATE
        SET balance        = EXCLUDED.balance,
            active         = EXCLUDED.active,
            interest_rate  = EXCLUDED.interest_rate,
            credit_limit   = EXCLUDED.credit_limit,
            currency_code  = EXCLUDED.currency_code,
            last_active_at = EXCLUDED.last_active_at
    `
	if _, err := r.db.Exec(ctx, query, a.Number, a.CustomerID, a.Kind, a.OpenedAt,
		a.Balance.String(), a.Active, a.InterestRate.String(), a.Limit.String(),
		currencyCode, lastActive); err != nil {
		return domain.NewPersistenceError("save account", err)
	}
	return nil
}

func (r *PostgresAccountRepository) listAccounts(ctx context.Context, query string, args ...any) (domain.AccountList, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("list accounts", err)
	}
	defer rows.Close()

	out := domain.AccountList{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("scan account", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("list accounts", err)
	}
	return out, nil
}

func (r *PostgresAccountRepository) ListAccountsByCustomer(ctx context.Context, customerID string) (domain.AccountList, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY opened_at`
	return r.listAccounts(ctx, query, customerID)
}

func (r *PostgresAccountRepository) ListPendingAccounts(ctx context.Context) (domain.AccountList, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active = FALSE ORDER BY opened_at`
	return r.listAccounts(ctx, query)
}
