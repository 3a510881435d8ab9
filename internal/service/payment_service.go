package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
)

// PaymentService exposes a tenant's payment history.
type PaymentService struct {
	store *storage.Store
}

// NewPaymentService creates a new PaymentService with the given store.
func NewPaymentService(store *storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// ListPayments returns the owner's payments, newest first. A non-empty
// method keeps only payments made with that method ("All" means no filter).
func (s *PaymentService) ListPayments(ctx context.Context, ownerID, method string) []models.Payment {
	payments := s.store.Payments.FilterByOwner(ctx, ownerID)

	if method != "" && !strings.EqualFold(method, "all") {
		kept := payments[:0]
		for _, p := range payments {
			if p.HasMethod(method) {
				kept = append(kept, p)
			}
		}
		payments = kept
	}

	slices.SortStableFunc(payments, func(a, b models.Payment) int {
		return strings.Compare(b.DatePaid, a.DatePaid)
	})
	return payments
}

// GetPayment returns one of the owner's payments.
func (s *PaymentService) GetPayment(ctx context.Context, ownerID, paymentID string) (models.Payment, error) {
	p, ok := s.store.Payments.Get(ctx, paymentID)
	if !ok || p.UserID != ownerID {
		return models.Payment{}, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
	}
	return p, nil
}

// TotalPaid sums every payment the owner has made.
func (s *PaymentService) TotalPaid(ctx context.Context, ownerID string) float64 {
	return models.TotalPaid(s.store.Payments.FilterByOwner(ctx, ownerID))
}
