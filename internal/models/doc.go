// Package models defines the core domain records for the rental manager.
//
// # Records
//
// Every record is a flat, JSON-encoded value stored in its own collection:
//   - User: a tenant account (identity anchor, looked up by email)
//   - Bill: an amount owed by a tenant (rent, water, service charge, ...)
//   - Payment: a settled bill
//   - MaintenanceRequest: a repair ticket filed by a tenant
//   - NotificationItem: a message addressed to a tenant
//
// # Design Principles
//
// 1. **Flat records**: no nested structs, relationships are ID strings
// 2. **Owner key**: every non-user record carries the owning User.ID in UserID
// 3. **Lenient statuses**: seed data uses mixed case, so status checks are case-insensitive
// 4. **Timestamps as strings**: dates are RFC 3339 strings, exactly as stored on disk
package models

import (
	"strings"
	"time"
)

// Record is implemented by every stored entity.
// RecordID is unique within a collection; OwnerID is the owning user's ID.
type Record interface {
	RecordID() string
	OwnerID() string
}

// Now returns the current time formatted the way records store timestamps.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
