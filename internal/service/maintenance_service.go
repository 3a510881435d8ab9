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

// MaintenanceService files and tracks repair requests.
type MaintenanceService struct {
	store *storage.Store
}

// NewMaintenanceService creates a new MaintenanceService with the given store.
func NewMaintenanceService(store *storage.Store) *MaintenanceService {
	return &MaintenanceService{store: store}
}

// ListRequests returns the owner's requests, newest first.
// With activeOnly, resolved requests are left out.
func (s *MaintenanceService) ListRequests(ctx context.Context, ownerID string, activeOnly bool) []models.MaintenanceRequest {
	requests := s.store.Maintenance.FilterByOwner(ctx, ownerID)
	if activeOnly {
		kept := requests[:0]
		for _, r := range requests {
			if r.IsActive() {
				kept = append(kept, r)
			}
		}
		requests = kept
	}
	slices.SortStableFunc(requests, func(a, b models.MaintenanceRequest) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return requests
}

// SubmitRequest files a new Pending request. Title and description must be
// non-empty; invalid input is rejected before anything is written.
func (s *MaintenanceService) SubmitRequest(ctx context.Context, ownerID, title, description string) (*models.MaintenanceRequest, error) {
	slog.Info("SubmitRequest request received", "user_id", ownerID, "title", title)

	req := &models.MaintenanceRequest{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      models.MaintenanceStatusPending,
		CreatedAt:   models.Now(),
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidArgument)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if err := s.store.Maintenance.Append(ctx, *req); err != nil {
		slog.Error("SubmitRequest failed", "user_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to save maintenance request: %w", err)
	}

	slog.Info("Maintenance request filed", "request_id", req.ID)
	return req, nil
}

// ResolveRequest marks the owner's request Resolved.
func (s *MaintenanceService) ResolveRequest(ctx context.Context, ownerID, requestID string) (*models.MaintenanceRequest, error) {
	return s.SetStatus(ctx, ownerID, requestID, models.MaintenanceStatusResolved)
}

// SetStatus moves the owner's request to status (pending, in-progress or resolved).
func (s *MaintenanceService) SetStatus(ctx context.Context, ownerID, requestID, status string) (*models.MaintenanceRequest, error) {
	canonical, ok := models.NormalizeMaintenanceStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}

	req, ok := s.store.Maintenance.Get(ctx, requestID)
	if !ok || req.UserID != ownerID {
		return nil, fmt.Errorf("%w: maintenance request %s", ErrNotFound, requestID)
	}
	if req.Status == canonical {
		return &req, nil
	}

	req.Status = canonical
	replaced, err := s.store.Maintenance.Replace(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update maintenance request: %w", err)
	}
	if !replaced {
		return nil, fmt.Errorf("%w: maintenance request %s", ErrNotFound, requestID)
	}

	slog.Info("Maintenance request updated", "request_id", requestID, "status", canonical)
	return &req, nil
}
