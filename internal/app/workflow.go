/**
 * @description
 * This file contains the account request workflow: the state machine that
 * takes a request from submission through manager approval or rejection.
 * States are SUBMITTED -> {APPROVED, REJECTED}; both outcomes are terminal.
 *
 * @notes
 * - Accounts are constructed inactive and only activated by Approve.
 * - Rejected accounts are left inactive and retained for audit; they are
 *   never deleted.
 * - Notification text is owned by the dispatch service; this state machine
 *   never formats messages itself.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
	"github.com/willdom-kahari/FortisBankApp/pkg/idgen"
	"github.com/willdom-kahari/FortisBankApp/pkg/rabbitmq"
)

// AccountRequestService orchestrates account opening requests.
type AccountRequestService struct {
	accounts store.AccountRepository
	notifier *NotificationService
	producer rabbitmq.Publisher
	rates    *RateConfig
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewAccountRequestService creates the workflow service.
func NewAccountRequestService(accounts store.AccountRepository, notifier *NotificationService, producer rabbitmq.Publisher, rates *RateConfig, logger *slog.Logger) *AccountRequestService {
	return &AccountRequestService{
		accounts: accounts,
		notifier: notifier,
		producer: producer,
		rates:    rates,
		logger:   logger,
		newID:    idgen.New,
		now:      time.Now,
	}
}

// RequestInput carries the customer's choices from the request form.
type RequestInput struct {
	Kind         string
	Amount       decimal.Decimal
	CurrencyCode string
}

// BuildAccount constructs the inactive account a request proposes, picking
// the constructor by kind and the interest rate from configuration.
func (s *AccountRequestService) BuildAccount(customer *domain.Customer, in RequestInput) (*domain.Account, error) {
	if customer == nil {
		return nil, domain.NewValidationError("customer", "customer is required")
	}
	kind, err := domain.ParseAccountKind(in.Kind)
	if err != nil {
		return nil, err
	}

	number := s.newID()
	opened := s.now()
	switch kind {
	case domain.CheckingAccount:
		return domain.NewCheckingAccount(number, customer.ID, opened, in.Amount)
	case domain.SavingsAccount:
		return domain.NewSavingsAccount(number, customer.ID, opened, in.Amount, s.rates.Rate(domain.SavingsAccount))
	case domain.CreditAccount:
		return domain.NewCreditAccount(number, customer.ID, opened, in.Amount, s.rates.Rate(domain.CreditAccount))
	case domain.CurrencyAccount:
		return domain.NewCurrencyAccount(number, customer.ID, opened, in.Amount, in.CurrencyCode)
	default:
		return nil, domain.NewValidationError("kind", "unknown account type")
	}
}

// SubmitRequest validates and records a pending account request, then
// informs the manager and the customer.
func (s *AccountRequestService) SubmitRequest(ctx context.Context, customer *domain.Customer, account *domain.Account, manager *domain.BankManager) error {
	// Diagnostic detail about the three inputs, logged before validation.
	s.logger.Info("account request submitted",
		"customer", userLabel(customer),
		"account", accountLabel(account),
		"manager", managerLabel(manager))

	if customer == nil {
		return domain.NewValidationError("customer", "customer is required")
	}
	if account == nil {
		return domain.NewValidationError("account", "account is required")
	}
	if manager == nil {
		return domain.NewValidationError("manager", "manager is required")
	}
	if account.Active {
		return domain.NewValidationError("account", "a request must carry a freshly constructed inactive account")
	}

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.NotifyAccountRequest(ctx, manager, customer, account); err != nil {
		return err
	}

	s.publish(ctx, domain.RoutingKeyAccountRequested, domain.AccountRequestedEvent{
		AccountNumber: account.Number,
		CustomerID:    customer.ID,
		ManagerID:     manager.ID,
		Kind:          string(account.Kind),
	})
	return nil
}

// Approve activates a pending account, persists it and notifies the
// customer. Approval is terminal.
func (s *AccountRequestService) Approve(ctx context.Context, customer *domain.Customer, account *domain.Account) error {
	if customer == nil {
		return domain.NewValidationError("customer", "customer is required")
	}
	if account == nil {
		return domain.NewValidationError("account", "account is required")
	}
	if account.Active {
		return domain.NewValidationError("account", "account is already active")
	}

	account.Active = true
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.NotifyApproval(ctx, customer, account); err != nil {
		return err
	}

	s.publish(ctx, domain.RoutingKeyAccountApproved, domain.AccountApprovedEvent{
		AccountNumber: account.Number,
		CustomerID:    customer.ID,
	})
	return nil
}

// Reject declines a pending account request. The account stays inactive
// and retained; the free-text reason reaches the customer. Rejection is
// terminal.
func (s *AccountRequestService) Reject(ctx context.Context, customer *domain.Customer, account *domain.Account, reason string) error {
	if customer == nil {
		return domain.NewValidationError("customer", "customer is required")
	}
	if account == nil {
		return domain.NewValidationError("account", "account is required")
	}
	if account.Active {
		return domain.NewValidationError("account", "an approved account cannot be rejected")
	}

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.NotifyRejection(ctx, customer, reason, account); err != nil {
		return err
	}

	s.publish(ctx, domain.RoutingKeyAccountRejected, domain.AccountRejectedEvent{
		AccountNumber: account.Number,
		CustomerID:    customer.ID,
		Reason:        reason,
	})
	return nil
}

// publish emits a lifecycle event. Event delivery is best-effort and never
// fails the workflow.
func (s *AccountRequestService) publish(ctx context.Context, routingKey string, event any) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
		s.logger.Warn("failed to publish lifecycle event", "routing_key", routingKey, "error", err)
	}
}

func userLabel(c *domain.Customer) string {
	if c == nil {
		return "<absent>"
	}
	return c.ID + " (" + c.FullName + ")"
}

func managerLabel(m *domain.BankManager) string {
	if m == nil {
		return "<absent>"
	}
	return m.ID + " (" + m.FullName + ")"
}

func accountLabel(a *domain.Account) string {
	if a == nil {
		return "<absent>"
	}
	return a.Number + " (" + string(a.Kind) + ")"
}
