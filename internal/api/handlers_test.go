package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/app"
	"github.com/willdom-kahari/FortisBankApp/internal/domain"
	"github.com/willdom-kahari/FortisBankApp/internal/store"
)

type testEnv struct {
	router   http.Handler
	store    *store.MemoryStore
	customer *domain.Customer
	manager  *domain.BankManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ms := store.NewMemoryStore()
	ctx := context.Background()

	customer := &domain.Customer{ID: "CUST-1", FullName: "Ada Lovelace"}
	manager := &domain.BankManager{ID: "MGR-1", FullName: "Grace Hopper"}
	if err := ms.UpdateCustomer(ctx, customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := ms.UpdateBankManager(ctx, manager); err != nil {
		t.Fatalf("seed manager: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := app.NewNotificationService(ms, ms, logger)
	rates := app.NewRateConfig(decimal.NewFromFloat(0.02), decimal.NewFromFloat(0.1195))
	workflow := app.NewAccountRequestService(ms, notifier, nil, rates, logger)
	session := NewSession(ms, ms)

	router := NewRouter(
		NewAccountHandler(workflow, ms, ms, session),
		NewNotificationHandler(notifier, session),
	)
	return &testEnv{router: router, store: ms, customer: customer, manager: manager}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func asCustomer(e *testEnv) map[string]string {
	return map[string]string{"X-Customer-ID": e.customer.ID}
}

func asManager(e *testEnv) map[string]string {
	return map[string]string{"X-Manager-ID": e.manager.ID}
}

func TestSubmitRequestCreatesPendingAccount(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CREDIT", Amount: "5000", ManagerID: e.manager.ID,
	}, asCustomer(e))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Active {
		t.Fatal("expected the created account to be inactive")
	}
	if !created.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected balance 5000, got %s", created.Balance)
	}

	pending, err := e.store.ListPendingAccounts(context.Background())
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending account, got %v (%v)", pending, err)
	}
	if got := e.manager.Inbox().Len(); got != 1 {
		t.Fatalf("expected the manager to be notified, inbox len %d", got)
	}
}

func TestSubmitRequestWithoutSessionIsUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CHECKING", Amount: "10", ManagerID: e.manager.ID,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSubmitRequestUnknownKindIsUnprocessable(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CRYPTO", Amount: "10", ManagerID: e.manager.ID,
	}, asCustomer(e))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApproveActivatesAccount(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "SAVINGS", Amount: "1000", ManagerID: e.manager.ID,
	}, asCustomer(e))
	var created domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = e.do(t, http.MethodPost, "/accounts/"+created.Number+"/approve", nil, asManager(e))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, err := e.store.GetAccount(context.Background(), created.Number)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !saved.Active {
		t.Fatal("expected the account to be active after approval")
	}

	var approved bool
	for _, n := range e.customer.Inbox().Snapshot() {
		if n.Type == domain.NotificationAccountApproval && n.AccountNumber == created.Number {
			approved = true
		}
	}
	if !approved {
		t.Fatal("expected an approval notification referencing the account")
	}
}

func TestRejectKeepsAccountInactive(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CHECKING", Amount: "10", ManagerID: e.manager.ID,
	}, asCustomer(e))
	var created domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = e.do(t, http.MethodPost, "/accounts/"+created.Number+"/reject", DecisionBody{Reason: "no history"}, asManager(e))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := e.store.GetAccount(context.Background(), created.Number)
	if saved.Active {
		t.Fatal("expected the rejected account to stay inactive")
	}
}

func TestRejectApprovedAccountIsUnprocessable(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CHECKING", Amount: "10", ManagerID: e.manager.ID,
	}, asCustomer(e))
	var created domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec := e.do(t, http.MethodPost, "/accounts/"+created.Number+"/approve", nil, asManager(e)); rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/accounts/"+created.Number+"/reject", DecisionBody{Reason: "too late"}, asManager(e))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 rejecting an approved account, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := e.store.GetAccount(context.Background(), created.Number)
	if !saved.Active {
		t.Fatal("expected the approved account to stay active")
	}
}

func TestApproveWithoutManagerIdentityIsUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/accounts/ACC-1/approve", nil, asCustomer(e))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestListAccountsShowsOnlyActive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	active, _ := domain.NewCheckingAccount("ACC-A", e.customer.ID, time.Now(), decimal.NewFromInt(500))
	active.Active = true
	pending, _ := domain.NewCheckingAccount("ACC-P", e.customer.ID, time.Now(), decimal.NewFromInt(100))
	_ = e.store.SaveAccount(ctx, active)
	_ = e.store.SaveAccount(ctx, pending)

	rec := e.do(t, http.MethodGet, "/accounts", nil, asCustomer(e))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Number != "ACC-A" {
		t.Fatalf("expected only the active account, got %+v", got)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	e := newTestEnv(t)

	// Seed the inbox through a request submission.
	e.do(t, http.MethodPost, "/accounts/requests", SubmitRequestBody{
		Kind: "CHECKING", Amount: "10", ManagerID: e.manager.ID,
	}, asCustomer(e))

	rec := e.do(t, http.MethodGet, "/notifications", nil, asCustomer(e))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var notifications []domain.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}

	if rec := e.do(t, http.MethodPost, "/notifications/read", nil, asCustomer(e)); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = e.do(t, http.MethodGet, "/notifications/unread", nil, asCustomer(e))
	var unread []domain.Notification
	_ = json.Unmarshal(rec.Body.Bytes(), &unread)
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}

	if rec := e.do(t, http.MethodDelete, "/notifications", nil, asCustomer(e)); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = e.do(t, http.MethodGet, "/notifications", nil, asCustomer(e))
	var after []domain.Notification
	_ = json.Unmarshal(rec.Body.Bytes(), &after)
	if len(after) != 0 {
		t.Fatalf("expected an empty inbox after clear, got %d", len(after))
	}
}

func TestNotificationsWithAbsentIdentityReturnEmptyList(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/notifications", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Fatalf("expected an empty JSON array, got %s", body)
	}
}
