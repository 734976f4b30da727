/**
 * @description
 * This file defines the Notification model delivered to a user's inbox.
 * Notifications are created exclusively by the dispatch service and are
 * owned by the recipient's inbox once appended; everything except the
 * read flag is immutable after creation.
 */
package domain

import "time"

// NotificationType tags the semantic category of a notification.
type NotificationType string

const (
	NotificationTransactionReceipt    NotificationType = "TRANSACTION_RECEIPT"
	NotificationAccountOpeningRequest NotificationType = "ACCOUNT_OPENING_REQUEST"
	NotificationAccountApproval       NotificationType = "ACCOUNT_APPROVAL"
	NotificationAccountRejection      NotificationType = "ACCOUNT_REJECTION"
	NotificationInfo                  NotificationType = "INFO"
	NotificationNewMessage            NotificationType = "NEW_MESSAGE"
	NotificationSecurityAlert         NotificationType = "SECURITY_ALERT"
	NotificationSystemUpdate          NotificationType = "SYSTEM_UPDATE"
	NotificationCustom                NotificationType = "CUSTOM"
)

// Notification is a single inbox entry. CustomerID and AccountNumber are
// optional links back to the entities the message is about.
type Notification struct {
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	CustomerID    string           `json:"customer_id,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	Read          bool             `json:"read"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewNotification builds an unread notification stamped with the current time.
func NewNotification(t NotificationType, title, message string) Notification {
	return Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
