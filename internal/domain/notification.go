package domain

import "time"

// NotificationStatus enumerates delivery states of a notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationRead    NotificationStatus = "read"
)

// Notification tells a user about a task outcome.
type Notification struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	TaskID    string             `json:"taskId"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	IsDeleted bool               `json:"isDeleted"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	SentAt    *time.Time         `json:"sentAt"`
	ReadAt    *time.Time         `json:"readAt"`
}

// Unread is true for live notifications the user has not opened yet.
func (n Notification) Unread() bool {
	return n.Status != NotificationRead && !n.IsDeleted
}
