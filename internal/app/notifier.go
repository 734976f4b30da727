/**
 * @description
 * This file contains the notification dispatch service. It is the only
 * component that creates notifications: it appends them to the recipient's
 * inbox and persists the mutated recipient through the role-appropriate
 * repository. The semantic helpers centralize every message template so the
 * request workflow never builds notification text itself.
 *
 * @notes
 * - Absent recipients are never an error: every dispatch and inbox
 *   operation degrades to a safe no-op or an empty result.
 * - Ordering is append-then-persist. Once a notification is in the
 *   in-memory inbox it is never rolled back, even if persisting the
 *   recipient fails; the failure surfaces as a domain.PersistenceError and
 *   the recipient is remembered for the reconciliation job.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
)

// NotificationService dispatches notifications and manages user inboxes.
// It is constructed once in the composition root and shared by reference.
type NotificationService struct {
	customers store.CustomerRepository
	managers  store.ManagerRepository
	logger    *slog.Logger

	mu    sync.Mutex
	dirty map[string]domain.User // recipients whose last persist failed
}

// NewNotificationService creates the process-wide dispatch service.
func NewNotificationService(customers store.CustomerRepository, managers store.ManagerRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		customers: customers,
		managers:  managers,
		logger:    logger,
		dirty:     map[string]domain.User{},
	}
}

// absent reports whether a recipient is missing. A typed nil inside the
// interface counts as absent, which keeps UI call sites simple.
func absent(u domain.User) bool {
	switch v := u.(type) {
	case nil:
		return true
	case *domain.Customer:
		return v == nil
	case *domain.BankManager:
		return v == nil
	}
	return false
}

// persistRecipient selects the persistence path by the recipient's concrete
// role. The switch is exhaustive over the two user roles; anything else is
// a programming error.
func (s *NotificationService) persistRecipient(ctx context.Context, recipient domain.User) error {
	switch u := recipient.(type) {
	case *domain.Customer:
		return s.customers.UpdateCustomer(ctx, u)
	case *domain.BankManager:
		return s.managers.UpdateBankManager(ctx, u)
	default:
		return domain.NewValidationError("recipient", fmt.Sprintf("unsupported recipient role %T", recipient))
	}
}

// Send constructs a notification, appends it to the recipient's inbox and
// persists the recipient. A nil recipient is a no-op.
func (s *NotificationService) Send(ctx context.Context, recipient domain.User, t domain.NotificationType, title, message string) error {
	return s.deliver(ctx, recipient, domain.NewNotification(t, title, message))
}

// SendAbout is Send with the notification linked to a customer and an
// account.
func (s *NotificationService) SendAbout(ctx context.Context, recipient domain.User, t domain.NotificationType, title, message string, customer *domain.Customer, account *domain.Account) error {
	n := domain.NewNotification(t, title, message)
	if customer != nil {
		n.CustomerID = customer.ID
	}
	if account != nil {
		n.AccountNumber = account.Number
	}
	return s.deliver(ctx, recipient, n)
}

func (s *NotificationService) deliver(ctx context.Context, recipient domain.User, n domain.Notification) error {
	if absent(recipient) {
		return nil
	}
	recipient.Inbox().Append(n)
	if err := s.persistRecipient(ctx, recipient); err != nil {
		s.flagDirty(recipient)
		s.logger.Warn("recipient persist failed after inbox append",
			"recipient", recipient.UserID(), "type", string(n.Type), "error", err)
		return err
	}
	return nil
}

func (s *NotificationService) flagDirty(recipient domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[recipient.UserID()] = recipient
}

// RetryFailedPersists re-persists every recipient whose last dispatch-time
// persist failed. Re-persisting the same final state is idempotent, so the
// reconciliation job may call this on a schedule.
func (s *NotificationService) RetryFailedPersists(ctx context.Context) (int, error) {
	s.mu.Lock()
	pending := s.dirty
	s.dirty = map[string]domain.User{}
	s.mu.Unlock()

	var errs []error
	retried := 0
	for _, u := range pending {
		if err := s.persistRecipient(ctx, u); err != nil {
			s.flagDirty(u)
			errs = append(errs, err)
			continue
		}
		retried++
	}
	return retried, errors.Join(errs...)
}

// NotifyTransactionReceipt informs a user that a transaction completed.
func (s *NotificationService) NotifyTransactionReceipt(ctx context.Context, u domain.User, txType string, amount decimal.Decimal, at time.Time) error {
	message := fmt.Sprintf("Your %s of $%s on %s was successful.", txType, amount.StringFixed(2), at.Format("2006-01-02"))
	return s.Send(ctx, u, domain.NotificationTransactionReceipt, "Transaction Completed", message)
}

// NotifyAccountRequest fans out a submitted account request: the manager is
// asked to review it and the customer gets a confirmation. If any of the
// three parties is absent the entire call is a no-op; the fan-out is
// both-or-none, never partial.
func (s *NotificationService) NotifyAccountRequest(ctx context.Context, manager *domain.BankManager, customer *domain.Customer, requested *domain.Account) error {
	if manager == nil || customer == nil || requested == nil {
		s.logger.Debug("account request notification skipped",
			"manager_present", manager != nil,
			"customer_present", customer != nil,
			"account_present", requested != nil)
		return nil
	}

	message := fmt.Sprintf("Customer %s requested a new %s account.", customer.FullName, requested.Kind)
	managerErr := s.SendAbout(ctx, manager, domain.NotificationAccountOpeningRequest,
		"New Account Request", message, customer, requested)

	customerErr := s.SendAbout(ctx, customer, domain.NotificationInfo,
		"Request Sent", "Your account request was sent to the manager.", customer, requested)

	return errors.Join(managerErr, customerErr)
}

// NotifyApproval tells a customer their account request was approved.
func (s *NotificationService) NotifyApproval(ctx context.Context, customer *domain.Customer, approved *domain.Account) error {
	message := fmt.Sprintf("Your account (%s) has been approved.", approved.Number)
	return s.SendAbout(ctx, customer, domain.NotificationAccountApproval, "Account Approved", message, customer, approved)
}

// NotifyRejection tells a customer their account request was declined.
func (s *NotificationService) NotifyRejection(ctx context.Context, customer *domain.Customer, reason string, rejected *domain.Account) error {
	message := "Your account request was declined: " + reason
	return s.SendAbout(ctx, customer, domain.NotificationAccountRejection, "Account Rejected", message, customer, rejected)
}

// NotifyNewMessage tells a user someone sent them a message.
func (s *NotificationService) NotifyNewMessage(ctx context.Context, u domain.User, fromName string) error {
	message := fmt.Sprintf("You received a new message from %s.", fromName)
	return s.Send(ctx, u, domain.NotificationNewMessage, "New Message", message)
}

// NotifySecurityAlert delivers an important security notice.
func (s *NotificationService) NotifySecurityAlert(ctx context.Context, u domain.User, details string) error {
	return s.Send(ctx, u, domain.NotificationSecurityAlert, "Security Alert", "Important security notice: "+details)
}

// NotifySystemUpdate informs a user about recent system changes.
func (s *NotificationService) NotifySystemUpdate(ctx context.Context, u domain.User, details string) error {
	return s.Send(ctx, u, domain.NotificationSystemUpdate, "System Update", "Recent changes: "+details)
}

// NotifyCustom delivers a free-form notification.
func (s *NotificationService) NotifyCustom(ctx context.Context, u domain.User, title, message string) error {
	return s.Send(ctx, u, domain.NotificationCustom, title, message)
}

// AllNotifications returns a copy of the user's inbox, most recent first.
// Absent users yield an empty slice, never nil.
func (s *NotificationService) AllNotifications(u domain.User) []domain.Notification {
	if absent(u) {
		return []domain.Notification{}
	}
	return u.Inbox().Snapshot()
}

// UnreadNotifications returns the unread entries in inbox order.
func (s *NotificationService) UnreadNotifications(u domain.User) []domain.Notification {
	if absent(u) {
		return []domain.Notification{}
	}
	return u.Inbox().Unread()
}

// MarkAllRead marks every inbox entry read. No-op on an absent user.
func (s *NotificationService) MarkAllRead(u domain.User) {
	if absent(u) {
		return
	}
	u.Inbox().MarkAllRead()
}

// ClearInbox removes every inbox entry. No-op on an absent user.
func (s *NotificationService) ClearInbox(u domain.User) {
	if absent(u) {
		return
	}
	u.Inbox().Clear()
}
