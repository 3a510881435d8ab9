package models

// NotificationItem is a message addressed to a tenant.
type NotificationItem struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func (n NotificationItem) RecordID() string { return n.ID }
func (n NotificationItem) OwnerID() string  { return n.UserID }

// CountUnread returns how many notifications have not been read.
func CountUnread(items []NotificationItem) int {
	n := 0
	for _, item := range items {
		if !item.IsRead {
			n++
		}
	}
	return n
}
