/**
 * @description
 * This file defines the domain models for events published by the request
 * workflow. These structs are the contract for messages emitted to the
 * message broker (RabbitMQ) as accounts move through their lifecycle.
 */
package domain

const (
	// EventsExchange is the durable topic exchange lifecycle events go to.
	EventsExchange = "fortisbank.events"

	RoutingKeyAccountRequested = "account.request.submitted"
	RoutingKeyAccountApproved  = "account.approved"
	RoutingKeyAccountRejected  = "account.rejected"
)

// AccountRequestedEvent is published when a customer submits a new account
// request to a manager.
type AccountRequestedEvent struct {
	AccountNumber string `json:"account_number"`
	CustomerID    string `json:"customer_id"`
	ManagerID     string `json:"manager_id"`
	Kind          string `json:"kind"`
}

// AccountApprovedEvent is published when a manager approves a pending
// account and it becomes active.
type AccountApprovedEvent struct {
	AccountNumber string `json:"account_number"`
	CustomerID    string `json:"customer_id"`
}

// AccountRejectedEvent is published when a manager declines a pending
// account; the account stays inactive and retained.
type AccountRejectedEvent struct {
	AccountNumber string `json:"account_number"`
	CustomerID    string `json:"customer_id"`
	Reason        string `json:"reason"`
}
