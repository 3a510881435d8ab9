package models

import (
	"errors"
	"strings"
)

// Maintenance request statuses, as written by the app.
const (
	MaintenanceStatusPending    = "Pending"
	MaintenanceStatusInProgress = "In Progress"
	MaintenanceStatusResolved   = "Resolved"
)

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyDescription = errors.New("description is required")
)

// MaintenanceRequest is a repair ticket filed by a tenant.
// Status moves from Pending/In Progress to Resolved.
type MaintenanceRequest struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

func (m MaintenanceRequest) RecordID() string { return m.ID }
func (m MaintenanceRequest) OwnerID() string  { return m.UserID }

// IsActive reports whether the request still needs attention.
func (m MaintenanceRequest) IsActive() bool {
	return !equalFold(m.Status, MaintenanceStatusResolved)
}

// Validate checks the fields a tenant must fill in.
func (m MaintenanceRequest) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(m.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// NormalizeMaintenanceStatus maps any casing/spelling of a known status
// ("in-progress", "resolved", ...) to its canonical form.
// The second return value is false for unknown statuses.
func NormalizeMaintenanceStatus(status string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	switch s {
	case "pending":
		return MaintenanceStatusPending, true
	case "in progress":
		return MaintenanceStatusInProgress, true
	case "resolved":
		return MaintenanceStatusResolved, true
	}
	return "", false
}

// CountActive returns how many requests are not yet resolved.
func CountActive(requests []MaintenanceRequest) int {
	n := 0
	for _, r := range requests {
		if r.IsActive() {
			n++
		}
	}
	return n
}
