// Package seeddata bundles the template collections copied into the data
// directory on first launch.
package seeddata

import "embed"

// FS holds users.json, bills.json, payments.json, maintenanceRequests.json
// and notifications.json.
//
//go:embed *.json
var FS embed.FS
