package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willdom-kahari/FortisBankApp/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bank.json")

	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	c := &domain.Customer{ID: "CUST-1", FullName: "Ada Lovelace"}
	c.Inbox().Append(domain.NewNotification(domain.NotificationInfo, "hello", "welcome"))
	if err := fs.UpdateCustomer(ctx, c); err != nil {
		t.Fatalf("update customer: %v", err)
	}

	a, _ := domain.NewSavingsAccount("ACC-1", "CUST-1", time.Now(), decimal.NewFromInt(1000), decimal.NewFromFloat(0.02))
	if err := fs.SaveAccount(ctx, a); err != nil {
		t.Fatalf("save account: %v", err)
	}

	// Reopen from disk and verify everything survived the snapshot.
	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetCustomer(ctx, "CUST-1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.FullName != "Ada Lovelace" {
		t.Fatalf("expected Ada Lovelace, got %q", got.FullName)
	}
	if inbox := got.Inbox().Snapshot(); len(inbox) != 1 || inbox[0].Title != "hello" {
		t.Fatalf("expected restored inbox with one entry, got %+v", inbox)
	}

	acc, err := reopened.GetAccount(ctx, "ACC-1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance 1000, got %s", acc.Balance)
	}
	if !acc.InterestRate.Equal(decimal.NewFromFloat(0.02)) {
		t.Fatalf("expected rate 0.02, got %s", acc.InterestRate)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "bank.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := fs.GetCustomer(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := fs.GetAccount(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreListPendingAccounts(t *testing.T) {
	ctx := context.Background()
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "bank.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	pending, _ := domain.NewCheckingAccount("ACC-1", "CUST-1", time.Now(), decimal.Zero)
	active, _ := domain.NewCheckingAccount("ACC-2", "CUST-1", time.Now(), decimal.Zero)
	active.Active = true
	for _, a := range []*domain.Account{pending, active} {
		if err := fs.SaveAccount(ctx, a); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := fs.ListPendingAccounts(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 1 || got[0].Number != "ACC-1" {
		t.Fatalf("expected only ACC-1 pending, got %v", got)
	}
}

func TestParseStorageMode(t *testing.T) {
	for _, ok := range []string{"postgres", "file", "memory"} {
		if _, err := ParseStorageMode(ok); err != nil {
			t.Fatalf("expected %q to parse, got %v", ok, err)
		}
	}
	if _, err := ParseStorageMode("cloud"); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}
