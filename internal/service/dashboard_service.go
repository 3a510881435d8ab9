package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
)

// DefaultCurrency prefixes formatted dashboard amounts.
const DefaultCurrency = "KES"

// DashboardSummary is the tenant's home-screen overview.
type DashboardSummary struct {
	UserID              string  `json:"userId"`
	TotalUnpaid         float64 `json:"totalUnpaid"`
	TotalPaid           float64 `json:"totalPaid"`
	ActiveMaintenance   int     `json:"activeMaintenance"`
	UnreadNotifications int     `json:"unreadNotifications"`

	// Display strings, e.g. "KES 26200".
	TotalUnpaidDisplay string `json:"totalUnpaidDisplay"`
	TotalPaidDisplay   string `json:"totalPaidDisplay"`
}

// DashboardService aggregates bills, payments, maintenance and notifications.
type DashboardService struct {
	store    *storage.Store
	currency string
}

// NewDashboardService creates a new DashboardService. An empty currency
// uses DefaultCurrency.
func NewDashboardService(store *storage.Store, currency string) *DashboardService {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &DashboardService{store: store, currency: currency}
}

// Summary computes the dashboard for ownerID.
func (s *DashboardService) Summary(ctx context.Context, ownerID string) DashboardSummary {
	bills := s.store.Bills.FilterByOwner(ctx, ownerID)
	payments := s.store.Payments.FilterByOwner(ctx, ownerID)
	requests := s.store.Maintenance.FilterByOwner(ctx, ownerID)
	notifications := s.store.Notifications.FilterByOwner(ctx, ownerID)

	unpaid := models.TotalUnpaid(bills)
	paid := models.TotalPaid(payments)

	summary := DashboardSummary{
		UserID:              ownerID,
		TotalUnpaid:         unpaid,
		TotalPaid:           paid,
		ActiveMaintenance:   models.CountActive(requests),
		UnreadNotifications: models.CountUnread(notifications),
		TotalUnpaidDisplay:  s.format(unpaid),
		TotalPaidDisplay:    s.format(paid),
	}
	slog.Debug("Dashboard computed", "user_id", ownerID, "unpaid", unpaid, "paid", paid)
	return summary
}

// SummaryForEmail resolves the profile registered with email, then
// computes its dashboard.
func (s *DashboardService) SummaryForEmail(ctx context.Context, email string) (DashboardSummary, error) {
	u, ok := s.store.Users.Find(ctx, func(u models.User) bool { return u.HasEmail(email) })
	if !ok {
		return DashboardSummary{}, fmt.Errorf("%w: no profile for %s", ErrNotFound, email)
	}
	return s.Summary(ctx, u.ID), nil
}

func (s *DashboardService) format(amount float64) string {
	return fmt.Sprintf("%s %.0f", s.currency, amount)
}
