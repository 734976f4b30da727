/**
 * @description
 * This file defines the HTTP handlers for the account request workflow and
 * the notification inbox. Handlers are responsible for parsing requests,
 * calling the appropriate service method, and writing the response; all
 * business rules live in the app layer.
 *
 * @notes
 * - ValidationError maps to 422, PersistenceError to 500 (the response body
 *   says whether in-memory delivery already happened), not-found to 404.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/app"
	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
)

// AccountHandler holds the dependencies for account-related handlers.
type AccountHandler struct {
	workflow *app.AccountRequestService
	accounts store.AccountRepository
	managers store.ManagerRepository
	session  *Session
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(workflow *app.AccountRequestService, accounts store.AccountRepository, managers store.ManagerRepository, session *Session) *AccountHandler {
	return &AccountHandler{workflow: workflow, accounts: accounts, managers: managers, session: session}
}

// SubmitRequestBody is the expected JSON body for submitting an account
// request.
type SubmitRequestBody struct {
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code,omitempty"`
	ManagerID    string `json:"manager_id"`
}

// SubmitRequest handles the submission of a new account request.
func (h *AccountHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	customer := h.session.CurrentCustomer(r)
	if customer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body SubmitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	// An unknown manager is treated as absent and rejected by the workflow.
	manager, err := h.managers.GetManager(r.Context(), body.ManagerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, err)
		return
	}

	account, err := h.workflow.BuildAccount(customer, app.RequestInput{
		Kind:         body.Kind,
		Amount:       amount,
		CurrencyCode: body.CurrencyCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.workflow.SubmitRequest(r.Context(), customer, account, manager); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// DecisionBody carries a manager's rejection reason.
type DecisionBody struct {
	Reason string `json:"reason"`
}

func (h *AccountHandler) loadDecisionTargets(w http.ResponseWriter, r *http.Request) (*domain.Customer, *domain.Account, bool) {
	if h.session.CurrentManager(r) == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, nil, false
	}

	number := chi.URLParam(r, "number")
	account, err := h.accounts.GetAccount(r.Context(), number)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	customer := h.session.customerByID(r, account.CustomerID)
	if customer == nil {
		http.Error(w, "Account owner not found", http.StatusNotFound)
		return nil, nil, false
	}
	return customer, account, true
}

// Approve handles a manager approving a pending account.
func (h *AccountHandler) Approve(w http.ResponseWriter, r *http.Request) {
	customer, account, ok := h.loadDecisionTargets(w, r)
	if !ok {
		return
	}
	if err := h.workflow.Approve(r.Context(), customer, account); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Reject handles a manager declining a pending account.
func (h *AccountHandler) Reject(w http.ResponseWriter, r *http.Request) {
	customer, account, ok := h.loadDecisionTargets(w, r)
	if !ok {
		return
	}
	var body DecisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.workflow.Reject(r.Context(), customer, account, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ListAccounts returns the session customer's active accounts, optionally
// filtered and sorted.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	customer := h.session.CurrentCustomer(r)
	if customer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accounts.ListAccountsByCustomer(r.Context(), customer.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Inactive accounts never reach customer-facing listings.
	accounts = accounts.FilterActive()

	q := r.URL.Query()
	if raw := q.Get("min_balance"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			http.Error(w, "Invalid min_balance", http.StatusBadRequest)
			return
		}
		accounts = accounts.FilterByMinBalance(min)
	}
	if kind := q.Get("type"); kind != "" {
		accounts = accounts.FilterByType(kind)
	}
	switch q.Get("sort") {
	case "balance":
		accounts.SortByBalance()
	case "type":
		accounts.SortByType()
	case "opened":
		accounts.SortByOpenedDate()
	}

	writeJSON(w, http.StatusOK, accounts)
}

// NotificationHandler holds the dependencies for inbox handlers.
type NotificationHandler struct {
	notifier *app.NotificationService
	session  *Session
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifier *app.NotificationService, session *Session) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, session: session}
}

// List returns the caller's inbox, most recent first. An absent identity
// yields an empty list rather than an error.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifier.AllNotifications(h.session.CurrentUser(r)))
}

// ListUnread returns only the unread entries in inbox order.
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifier.UnreadNotifications(h.session.CurrentUser(r)))
}

// MarkAllRead flips the caller's entire inbox to read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.notifier.MarkAllRead(h.session.CurrentUser(r))
	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the caller's inbox.
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.notifier.ClearInbox(h.session.CurrentUser(r))
	w.WriteHeader(http.StatusNoContent)
}

// customerByID resolves an arbitrary customer ID, used when a manager acts
// on another user's account.
func (s *Session) customerByID(r *http.Request, id string) *domain.Customer {
	c, err := s.customers.GetCustomer(r.Context(), id)
	if err != nil {
		return nil
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. A PersistenceError
// means the in-memory delivery may already have happened; the body carries
// that distinction for the caller.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Error(), http.StatusUnprocessableEntity)
		return
	}
	var pErr *domain.PersistenceError
	if errors.As(err, &pErr) {
		http.Error(w, "partially applied: "+pErr.Error(), http.StatusInternalServerError)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
