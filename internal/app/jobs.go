/**
 * @description
 * Scheduled maintenance jobs: reminding managers about pending account
 * requests, alerting owners of dormant currency accounts, and retrying
 * recipient persists that failed during dispatch.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
)

// Jobs bundles the cron-driven maintenance tasks.
type Jobs struct {
	accounts  store.AccountRepository
	customers store.CustomerRepository
	managers  store.ManagerRepository
	notifier  *NotificationService
	logger    *slog.Logger

	dormancyThreshold time.Duration
	now               func() time.Time
}

// NewJobs creates the job set.
func NewJobs(accounts store.AccountRepository, customers store.CustomerRepository, managers store.ManagerRepository, notifier *NotificationService, logger *slog.Logger, dormancyThreshold time.Duration) *Jobs {
	return &Jobs{
		accounts:          accounts,
		customers:         customers,
		managers:          managers,
		notifier:          notifier,
		logger:            logger,
		dormancyThreshold: dormancyThreshold,
		now:               time.Now,
	}
}

// RemindPendingRequests notifies every manager about account requests still
// awaiting review.
func (j *Jobs) RemindPendingRequests() {
	ctx := context.Background()

	pending, err := j.accounts.ListPendingAccounts(ctx)
	if err != nil {
		j.logger.Error("pending request reminder failed", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	managers, err := j.managers.ListManagers(ctx)
	if err != nil {
		j.logger.Error("pending request reminder failed", "error", err)
		return
	}

	details := fmt.Sprintf("%d account request(s) awaiting review.", len(pending))
	for _, m := range managers {
		if err := j.notifier.NotifySystemUpdate(ctx, m, details); err != nil {
			j.logger.Warn("failed to remind manager", "manager", m.ID, "error", err)
		}
	}
	j.logger.Info("pending request reminder sent", "pending", len(pending), "managers", len(managers))
}

// SweepDormantCurrencyAccounts alerts owners of active currency accounts
// that have not been used for longer than the configured threshold.
func (j *Jobs) SweepDormantCurrencyAccounts() {
	ctx := context.Background()
	cutoff := j.now().Add(-j.dormancyThreshold)

	customers, err := j.customers.ListCustomers(ctx)
	if err != nil {
		j.logger.Error("dormancy sweep failed", "error", err)
		return
	}

	alerted := 0
	for _, c := range customers {
		accounts, err := j.accounts.ListAccountsByCustomer(ctx, c.ID)
		if err != nil {
			j.logger.Warn("dormancy sweep skipped customer", "customer", c.ID, "error", err)
			continue
		}
		for _, a := range accounts {
			if a.Kind != domain.CurrencyAccount || !a.Active {
				continue
			}
			if a.LastActiveAt.After(cutoff) {
				continue
			}
			details := fmt.Sprintf("your currency account %s has been inactive since %s.",
				a.Number, a.LastActiveAt.Format("2006-01-02"))
			if err := j.notifier.NotifySecurityAlert(ctx, c, details); err != nil {
				j.logger.Warn("failed to alert dormant account owner", "customer", c.ID, "error", err)
				continue
			}
			alerted++
		}
	}
	if alerted > 0 {
		j.logger.Info("dormancy sweep complete", "alerts", alerted)
	}
}

// ReconcileFailedPersists re-persists recipients whose dispatch-time
// persist failed, closing the documented inconsistency window.
func (j *Jobs) ReconcileFailedPersists() {
	retried, err := j.notifier.RetryFailedPersists(context.Background())
	if err != nil {
		j.logger.Warn("persist reconciliation incomplete", "retried", retried, "error", err)
		return
	}
	if retried > 0 {
		j.logger.Info("persist reconciliation complete", "retried", retried)
	}
}
