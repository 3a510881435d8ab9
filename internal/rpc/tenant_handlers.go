package rpc

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/middleware"
	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/service"
	"github.com/mmynk/rentalmanager/internal/storage"
	"github.com/mmynk/rentalmanager/internal/storage/jsonstore"
)

// TenantHandler serves the signed-in tenant's records. Unary calls pass
// through RequireAuth, so the caller's identity is in the context.
type TenantHandler struct {
	store       *storage.Store
	verifier    middleware.TokenVerifier
	logger      *slog.Logger
	bills       *service.BillService
	payments    *service.PaymentService
	maintenance *service.MaintenanceService
	profiles    *service.ProfileService
	notices     *service.NotificationService
	dashboard   *service.DashboardService
}

// NewTenantHandler wires the tenant services over store.
func NewTenantHandler(store *storage.Store, verifier middleware.TokenVerifier, currency string, logger *slog.Logger) *TenantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantHandler{
		store:       store,
		verifier:    verifier,
		logger:      logger,
		bills:       service.NewBillService(store),
		payments:    service.NewPaymentService(store),
		maintenance: service.NewMaintenanceService(store),
		profiles:    service.NewProfileService(store),
		notices:     service.NewNotificationService(store),
		dashboard:   service.NewDashboardService(store, currency),
	}
}

// owner maps the authenticated account to the tenant whose records it sees.
func (h *TenantHandler) owner(ctx context.Context) string {
	return h.profiles.ResolveOwner(ctx, middleware.GetEmail(ctx), middleware.GetUserID(ctx))
}

func (h *TenantHandler) GetDashboard(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[service.DashboardSummary], error) {
	summary := h.dashboard.Summary(ctx, h.owner(ctx))
	return connect.NewResponse(&summary), nil
}

func (h *TenantHandler) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	filter, err := service.ParseBillFilter(req.Msg.Filter)
	if err != nil {
		return nil, serviceError(err)
	}
	owner := h.owner(ctx)
	return connect.NewResponse(&ListBillsResponse{
		Bills:       h.bills.ListBills(ctx, owner, filter),
		TotalUnpaid: h.bills.TotalUnpaid(ctx, owner),
	}), nil
}

func (h *TenantHandler) PayBill(ctx context.Context, req *connect.Request[PayBillRequest]) (*connect.Response[PayBillResponse], error) {
	payment, err := h.bills.PayBill(ctx, h.owner(ctx), req.Msg.BillID, req.Msg.Method)
	if err != nil {
		cerr := serviceError(err)
		if payment != nil {
			// The payment is on file even though the bill was not updated.
			cerr.Meta().Set(PaymentIDHeader, payment.ID)
		}
		return nil, cerr
	}
	return connect.NewResponse(&PayBillResponse{Payment: *payment}), nil
}

func (h *TenantHandler) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	owner := h.owner(ctx)
	return connect.NewResponse(&ListPaymentsResponse{
		Payments:  h.payments.ListPayments(ctx, owner, req.Msg.Method),
		TotalPaid: h.payments.TotalPaid(ctx, owner),
	}), nil
}

func (h *TenantHandler) ListMaintenanceRequests(ctx context.Context, req *connect.Request[ListMaintenanceRequestsRequest]) (*connect.Response[ListMaintenanceRequestsResponse], error) {
	return connect.NewResponse(&ListMaintenanceRequestsResponse{
		Requests: h.maintenance.ListRequests(ctx, h.owner(ctx), req.Msg.ActiveOnly),
	}), nil
}

func (h *TenantHandler) SubmitMaintenanceRequest(ctx context.Context, req *connect.Request[SubmitMaintenanceRequestRequest]) (*connect.Response[MaintenanceRequestResponse], error) {
	mr, err := h.maintenance.SubmitRequest(ctx, h.owner(ctx), req.Msg.Title, req.Msg.Description)
	if err != nil {
		return nil, serviceError(err)
	}
	return connect.NewResponse(&MaintenanceRequestResponse{Request: *mr}), nil
}

func (h *TenantHandler) ResolveMaintenanceRequest(ctx context.Context, req *connect.Request[ResolveMaintenanceRequestRequest]) (*connect.Response[MaintenanceRequestResponse], error) {
	mr, err := h.maintenance.ResolveRequest(ctx, h.owner(ctx), req.Msg.RequestID)
	if err != nil {
		return nil, serviceError(err)
	}
	return connect.NewResponse(&MaintenanceRequestResponse{Request: *mr}), nil
}

// GetProfile returns the caller's profile. Accounts without one get the
// same placeholder the session builds at sign-in.
func (h *TenantHandler) GetProfile(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[ProfileResponse], error) {
	email := middleware.GetEmail(ctx)
	user, err := h.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		user = models.User{
			ID:         middleware.GetUserID(ctx),
			Name:       "Tenant User",
			Email:      email,
			UnitNumber: models.DefaultUnitNumber,
		}
	}
	return connect.NewResponse(&ProfileResponse{User: user}), nil
}

func (h *TenantHandler) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[ProfileResponse], error) {
	user, err := h.profiles.UpdateProfile(ctx, models.User{
		ID:           h.owner(ctx),
		Name:         req.Msg.Name,
		Email:        middleware.GetEmail(ctx),
		Phone:        req.Msg.Phone,
		UnitNumber:   req.Msg.UnitNumber,
		ProfileImage: req.Msg.ProfileImage,
	})
	if err != nil {
		return nil, serviceError(err)
	}
	return connect.NewResponse(&ProfileResponse{User: user}), nil
}

func (h *TenantHandler) ListNotifications(ctx context.Context, req *connect.Request[ListNotificationsRequest]) (*connect.Response[ListNotificationsResponse], error) {
	owner := h.owner(ctx)
	return connect.NewResponse(&ListNotificationsResponse{
		Notifications: h.notices.ListNotifications(ctx, owner, req.Msg.UnreadOnly),
		UnreadCount:   h.notices.UnreadCount(ctx, owner),
	}), nil
}

// WatchChanges streams collection changes until the client disconnects.
// Streams bypass unary interceptors, so the token is checked here.
//
// Events name a collection, not a record, so every tenant sees every write
// and is expected to refetch its own records. No record content is sent.
func (h *TenantHandler) WatchChanges(ctx context.Context, req *connect.Request[Empty], stream *connect.ServerStream[jsonstore.Change]) error {
	ctx, err := middleware.Authenticate(ctx, h.verifier, req.Header())
	if err != nil {
		return err
	}

	changes, err := jsonstore.Watch(ctx, h.store.Dir(), h.logger)
	if err != nil {
		return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to watch store: %w", err))
	}
	h.logger.Info("Change feed opened", "user_id", middleware.GetUserID(ctx))

	for change := range changes {
		if err := stream.Send(&change); err != nil {
			return err
		}
	}
	return nil
}
