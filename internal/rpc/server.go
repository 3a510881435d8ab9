package rpc

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/metrics"
	"github.com/mmynk/rentalmanager/internal/middleware"
)

// NewMux registers the auth and tenant services plus /metrics.
func NewMux(auth *AuthHandler, tenant *TenantHandler) *http.ServeMux {
	mux := http.NewServeMux()
	logger := tenant.logger

	public := []connect.HandlerOption{
		WithJSON(),
		connect.WithInterceptors(middleware.LoggingInterceptor(logger)),
	}
	private := []connect.HandlerOption{
		WithJSON(),
		connect.WithInterceptors(middleware.LoggingInterceptor(logger), middleware.RequireAuth(tenant.verifier)),
	}

	mux.Handle(SignInProcedure, connect.NewUnaryHandler(SignInProcedure, auth.SignIn, public...))
	mux.Handle(SignUpProcedure, connect.NewUnaryHandler(SignUpProcedure, auth.SignUp, public...))
	mux.Handle(SignOutProcedure, connect.NewUnaryHandler(SignOutProcedure, auth.SignOut, private...))
	mux.Handle(ResetPasswordProcedure, connect.NewUnaryHandler(ResetPasswordProcedure, auth.ResetPassword, public...))
	mux.Handle(GetAuthStateProcedure, connect.NewUnaryHandler(GetAuthStateProcedure, auth.GetAuthState, private...))
	mux.Handle(WatchAuthStateProcedure, connect.NewServerStreamHandler(WatchAuthStateProcedure, auth.WatchAuthState, private...))

	mux.Handle(GetDashboardProcedure, connect.NewUnaryHandler(GetDashboardProcedure, tenant.GetDashboard, private...))
	mux.Handle(ListBillsProcedure, connect.NewUnaryHandler(ListBillsProcedure, tenant.ListBills, private...))
	mux.Handle(PayBillProcedure, connect.NewUnaryHandler(PayBillProcedure, tenant.PayBill, private...))
	mux.Handle(ListPaymentsProcedure, connect.NewUnaryHandler(ListPaymentsProcedure, tenant.ListPayments, private...))
	mux.Handle(ListMaintenanceRequestsProcedure, connect.NewUnaryHandler(ListMaintenanceRequestsProcedure, tenant.ListMaintenanceRequests, private...))
	mux.Handle(SubmitMaintenanceRequestProcedure, connect.NewUnaryHandler(SubmitMaintenanceRequestProcedure, tenant.SubmitMaintenanceRequest, private...))
	mux.Handle(ResolveMaintenanceRequestProcedure, connect.NewUnaryHandler(ResolveMaintenanceRequestProcedure, tenant.ResolveMaintenanceRequest, private...))
	mux.Handle(GetProfileProcedure, connect.NewUnaryHandler(GetProfileProcedure, tenant.GetProfile, private...))
	mux.Handle(UpdateProfileProcedure, connect.NewUnaryHandler(UpdateProfileProcedure, tenant.UpdateProfile, private...))
	mux.Handle(ListNotificationsProcedure, connect.NewUnaryHandler(ListNotificationsProcedure, tenant.ListNotifications, private...))
	mux.Handle(WatchChangesProcedure, connect.NewServerStreamHandler(WatchChangesProcedure, tenant.WatchChanges, private...))

	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// CORS adds the headers browsers need to call Connect endpoints.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+ErrorCodeHeader+", "+PaymentIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
