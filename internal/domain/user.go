/**
 * @description
 * This file defines the user roles (Customer, BankManager) and the per-user
 * notification inbox they share. The inbox is the only mutable shared state
 * on a user: every mutation and every snapshot read goes through the same
 * per-user mutex, so concurrent dispatches to the same recipient serialize
 * while unrelated recipients never contend.
 *
 * @notes
 * - External callers only ever see copies of the inbox contents; the backing
 *   slice is never handed out.
 */
package domain

import (
	"encoding/json"
	"sort"
	"sync"
)

// User is the capability set shared by Customer and BankManager. The
// dispatch service selects the persistence path by the concrete role.
type User interface {
	UserID() string
	UserName() string
	Inbox() *Inbox
}

// Inbox is an append-only ordered sequence of notifications, guarded by a
// per-user mutex. Explicit read-state mutation and clear are the only
// non-append operations.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

// Append adds a notification to the end of the inbox.
func (in *Inbox) Append(n Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = append(in.items, n)
}

// Snapshot returns a copy of the inbox ordered by timestamp descending,
// most recent first. The returned slice is never nil.
func (in *Inbox) Snapshot() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Notification, len(in.items))
	copy(out, in.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Unread returns a copy of the unread entries, preserving inbox order.
func (in *Inbox) Unread() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Notification, 0, len(in.items))
	for _, n := range in.items {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}

// MarkAllRead flips every entry's read flag in place. Idempotent.
func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.items {
		in.items[i].Read = true
	}
}

// Clear removes all entries.
func (in *Inbox) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = nil
}

// Len reports the current number of entries.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.items)
}

// MarshalJSON serializes the inbox contents under the inbox lock so a
// concurrent append cannot tear the snapshot being persisted.
func (in *Inbox) MarshalJSON() ([]byte, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(in.items)
}

// UnmarshalJSON restores the inbox contents from a persisted snapshot.
func (in *Inbox) UnmarshalJSON(data []byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return json.Unmarshal(data, &in.items)
}

// Customer is a retail-bank customer. A customer may own many accounts;
// accounts reference the customer by ID rather than the other way around
// being authoritative.
type Customer struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Messages Inbox  `json:"inbox"`
}

func (c *Customer) UserID() string   { return c.ID }
func (c *Customer) UserName() string { return c.FullName }
func (c *Customer) Inbox() *Inbox    { return &c.Messages }

// BankManager reviews and resolves account opening requests.
type BankManager struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Messages Inbox  `json:"inbox"`
}

func (m *BankManager) UserID() string   { return m.ID }
func (m *BankManager) UserName() string { return m.FullName }
func (m *BankManager) Inbox() *Inbox    { return &m.Messages }
