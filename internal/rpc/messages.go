package rpc

import (
	"github.com/mmynk/rentalmanager/internal/identity"
	"github.com/mmynk/rentalmanager/internal/models"
)

const (
	AuthServiceName   = "rentalmanager.v1.AuthService"
	TenantServiceName = "rentalmanager.v1.TenantService"
)

// Procedure paths.
const (
	SignInProcedure         = "/" + AuthServiceName + "/SignIn"
	SignUpProcedure         = "/" + AuthServiceName + "/SignUp"
	SignOutProcedure        = "/" + AuthServiceName + "/SignOut"
	ResetPasswordProcedure  = "/" + AuthServiceName + "/ResetPassword"
	GetAuthStateProcedure   = "/" + AuthServiceName + "/GetAuthState"
	WatchAuthStateProcedure = "/" + AuthServiceName + "/WatchAuthState"

	GetDashboardProcedure              = "/" + TenantServiceName + "/GetDashboard"
	ListBillsProcedure                 = "/" + TenantServiceName + "/ListBills"
	PayBillProcedure                   = "/" + TenantServiceName + "/PayBill"
	ListPaymentsProcedure              = "/" + TenantServiceName + "/ListPayments"
	ListMaintenanceRequestsProcedure   = "/" + TenantServiceName + "/ListMaintenanceRequests"
	SubmitMaintenanceRequestProcedure  = "/" + TenantServiceName + "/SubmitMaintenanceRequest"
	ResolveMaintenanceRequestProcedure = "/" + TenantServiceName + "/ResolveMaintenanceRequest"
	GetProfileProcedure                = "/" + TenantServiceName + "/GetProfile"
	UpdateProfileProcedure             = "/" + TenantServiceName + "/UpdateProfile"
	ListNotificationsProcedure         = "/" + TenantServiceName + "/ListNotifications"
	WatchChangesProcedure              = "/" + TenantServiceName + "/WatchChanges"
)

// Empty is the request of parameterless calls.
type Empty struct{}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	User    models.User        `json:"user"`
	IDToken string             `json:"idToken"`
	State   identity.AuthState `json:"state"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordResponse struct {
	Message string `json:"message"`
}

type ListBillsRequest struct {
	// Filter is "all", "paid" or "unpaid".
	Filter string `json:"filter"`
}

type ListBillsResponse struct {
	Bills       []models.Bill `json:"bills"`
	TotalUnpaid float64       `json:"totalUnpaid"`
}

type PayBillRequest struct {
	BillID string `json:"billId"`
	Method string `json:"method"`
}

type PayBillResponse struct {
	Payment models.Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	Method string `json:"method"`
}

type ListPaymentsResponse struct {
	Payments  []models.Payment `json:"payments"`
	TotalPaid float64          `json:"totalPaid"`
}

type ListMaintenanceRequestsRequest struct {
	ActiveOnly bool `json:"activeOnly"`
}

type ListMaintenanceRequestsResponse struct {
	Requests []models.MaintenanceRequest `json:"requests"`
}

type SubmitMaintenanceRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ResolveMaintenanceRequestRequest struct {
	RequestID string `json:"requestId"`
}

type MaintenanceRequestResponse struct {
	Request models.MaintenanceRequest `json:"request"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	UnitNumber   string `json:"unitNumber"`
	ProfileImage string `json:"profileImage"`
}

type ProfileResponse struct {
	User models.User `json:"user"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool `json:"unreadOnly"`
}

type ListNotificationsResponse struct {
	Notifications []models.NotificationItem `json:"notifications"`
	UnreadCount   int                       `json:"unreadCount"`
}
