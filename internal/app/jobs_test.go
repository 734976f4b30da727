package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

func newTestJobs(accounts *accountRepoStub, users *userStoreStub, threshold time.Duration) *Jobs {
	notifier := NewNotificationService(users, users, discardLogger())
	return NewJobs(accounts, users, users, notifier, discardLogger(), threshold)
}

func TestRemindPendingRequestsNotifiesEveryManager(t *testing.T) {
	accounts := newAccountRepoStub()
	users := newUserStoreStub()
	manager := &domain.BankManager{ID: "MGR-1", FullName: "Grace Hopper"}
	users.managers[manager.ID] = manager

	p1, _ := domain.NewCheckingAccount("ACC-1", "CUST-1", time.Now(), decimal.Zero)
	p2, _ := domain.NewSavingsAccount("ACC-2", "CUST-2", time.Now(), decimal.NewFromInt(50), decimal.NewFromFloat(0.02))
	_ = accounts.SaveAccount(context.Background(), p1)
	_ = accounts.SaveAccount(context.Background(), p2)

	jobs := newTestJobs(accounts, users, 30*24*time.Hour)
	jobs.RemindPendingRequests()

	inbox := manager.Inbox().Snapshot()
	if len(inbox) != 1 || inbox[0].Type != domain.NotificationSystemUpdate {
		t.Fatalf("expected one system update for the manager, got %+v", inbox)
	}
}

func TestRemindPendingRequestsSkipsWhenQueueEmpty(t *testing.T) {
	users := newUserStoreStub()
	manager := &domain.BankManager{ID: "MGR-1"}
	users.managers[manager.ID] = manager

	jobs := newTestJobs(newAccountRepoStub(), users, 30*24*time.Hour)
	jobs.RemindPendingRequests()

	if got := manager.Inbox().Len(); got != 0 {
		t.Fatalf("expected no reminders without pending requests, got %d", got)
	}
}

func TestSweepDormantCurrencyAccounts(t *testing.T) {
	accounts := newAccountRepoStub()
	users := newUserStoreStub()
	customer := &domain.Customer{ID: "CUST-1", FullName: "Ada Lovelace"}
	users.customers[customer.ID] = customer

	dormant, _ := domain.NewCurrencyAccount("ACC-1", "CUST-1", time.Now(), decimal.NewFromInt(100), "USD")
	dormant.Active = true
	dormant.LastActiveAt = time.Now().Add(-100 * 24 * time.Hour)

	fresh, _ := domain.NewCurrencyAccount("ACC-2", "CUST-1", time.Now(), decimal.NewFromInt(100), "EUR")
	fresh.Active = true

	checking, _ := domain.NewCheckingAccount("ACC-3", "CUST-1", time.Now(), decimal.Zero)
	checking.Active = true

	for _, a := range []*domain.Account{dormant, fresh, checking} {
		_ = accounts.SaveAccount(context.Background(), a)
	}

	jobs := newTestJobs(accounts, users, 30*24*time.Hour)
	jobs.SweepDormantCurrencyAccounts()

	inbox := customer.Inbox().Snapshot()
	if len(inbox) != 1 {
		t.Fatalf("expected exactly one dormancy alert, got %d", len(inbox))
	}
	if inbox[0].Type != domain.NotificationSecurityAlert {
		t.Fatalf("expected a security alert, got %s", inbox[0].Type)
	}
}

func TestReconcileFailedPersistsDrainsTheBacklog(t *testing.T) {
	accounts := newAccountRepoStub()
	users := newUserStoreStub()
	users.customerErr = errors.New("connection refused")

	notifier := NewNotificationService(users, users, discardLogger())
	jobs := NewJobs(accounts, users, users, notifier, discardLogger(), time.Hour)

	c := &domain.Customer{ID: "CUST-1"}
	if err := notifier.Send(context.Background(), c, domain.NotificationInfo, "t", "m"); err == nil {
		t.Fatal("expected the initial persist to fail")
	}

	users.mu.Lock()
	users.customerErr = nil
	users.mu.Unlock()

	jobs.ReconcileFailedPersists()

	if users.customerSaves != 1 {
		t.Fatalf("expected the flagged customer to be re-persisted, got %d saves", users.customerSaves)
	}
}
