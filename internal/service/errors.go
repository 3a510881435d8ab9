// Package service implements the tenant-facing operations on top of the
// record store: listing and paying bills, payments history, maintenance
// requests, profile edits, notifications and the dashboard summary.
package service

import "errors"

var (
	// ErrInvalidArgument reports input rejected before any write.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports an unknown record, or one owned by another tenant.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid reports an attempt to pay a settled bill.
	ErrAlreadyPaid = errors.New("bill is already paid")
)
