package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
)

// BillFilter selects bills by status.
type BillFilter string

const (
	BillFilterAll    BillFilter = "all"
	BillFilterPaid   BillFilter = "paid"
	BillFilterUnpaid BillFilter = "unpaid"
)

// ParseBillFilter accepts "all", "paid" or "unpaid" in any case; empty means all.
func ParseBillFilter(s string) (BillFilter, error) {
	switch f := BillFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return BillFilterAll, nil
	case BillFilterAll, BillFilterPaid, BillFilterUnpaid:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown bill filter %q", ErrInvalidArgument, s)
}

// BillService lists and settles a tenant's bills.
type BillService struct {
	store *storage.Store
}

// NewBillService creates a new BillService with the given store.
func NewBillService(store *storage.Store) *BillService {
	return &BillService{store: store}
}

// ListBills returns the owner's bills matching filter, earliest due first.
func (s *BillService) ListBills(ctx context.Context, ownerID string, filter BillFilter) []models.Bill {
	bills := s.store.Bills.FilterByOwner(ctx, ownerID)

	filtered := bills[:0]
	for _, b := range bills {
		switch filter {
		case BillFilterPaid:
			if !b.IsPaid() {
				continue
			}
		case BillFilterUnpaid:
			if !b.IsUnpaid() {
				continue
			}
		}
		filtered = append(filtered, b)
	}

	slices.SortStableFunc(filtered, func(a, b models.Bill) int {
		return strings.Compare(a.DueDate, b.DueDate)
	})
	return filtered
}

// TotalUnpaid sums the owner's unpaid bills.
func (s *BillService) TotalUnpaid(ctx context.Context, ownerID string) float64 {
	return models.TotalUnpaid(s.store.Bills.FilterByOwner(ctx, ownerID))
}

// PayBill records a payment for the bill and marks it paid.
//
// The payment is appended first, then the bill is rewritten. The two writes
// are not atomic: if the second fails the payment stays recorded and the
// bill remains unpaid, and the error is returned alongside the payment.
func (s *BillService) PayBill(ctx context.Context, ownerID, billID, method string) (*models.Payment, error) {
	slog.Info("PayBill request received", "user_id", ownerID, "bill_id", billID, "method", method)

	canonical, ok := models.CanonicalPaymentMethod(method)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrInvalidArgument, method)
	}

	bill, ok := s.store.Bills.Get(ctx, billID)
	if !ok || bill.UserID != ownerID {
		return nil, fmt.Errorf("%w: bill %s", ErrNotFound, billID)
	}
	if bill.IsPaid() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPaid, billID)
	}

	payment := &models.Payment{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		BillID:    bill.ID,
		Amount:    bill.Amount,
		Method:    canonical,
		Reference: newPaymentReference(),
		Status:    models.PaymentStatusSuccessful,
		DatePaid:  models.Now(),
	}
	if err := s.store.Payments.Append(ctx, *payment); err != nil {
		slog.Error("PayBill failed to record payment", "bill_id", billID, "error", err)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	bill.Status = models.BillStatusPaid
	replaced, err := s.store.Bills.Replace(ctx, bill)
	if err != nil {
		slog.Error("Payment recorded but bill not marked paid", "bill_id", billID, "payment_id", payment.ID, "error", err)
		return payment, fmt.Errorf("payment %s recorded but bill update failed: %w", payment.ID, err)
	}
	if !replaced {
		slog.Warn("Bill disappeared before it could be marked paid", "bill_id", billID, "payment_id", payment.ID)
	}

	slog.Info("Bill paid", "bill_id", billID, "payment_id", payment.ID, "amount", payment.Amount)
	return payment, nil
}

// newPaymentReference returns a receipt code such as "RM-3F9A1C7B".
func newPaymentReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RM-" + strings.ToUpper(id[:8])
}
