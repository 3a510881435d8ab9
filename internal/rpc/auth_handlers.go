package rpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/identity"
	"github.com/mmynk/rentalmanager/internal/middleware"
)

var errNotSessionOwner = errors.New("the current session belongs to another account")

// AuthHandler exposes the identity session over RPC. SignIn, SignUp and
// ResetPassword are public; the other calls need the ID token of the
// account that owns the session.
type AuthHandler struct {
	session  *identity.Session
	verifier middleware.TokenVerifier
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler bound to session.
func NewAuthHandler(session *identity.Session, verifier middleware.TokenVerifier, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{session: session, verifier: verifier, logger: logger}
}

func (h *AuthHandler) SignIn(ctx context.Context, req *connect.Request[CredentialsRequest]) (*connect.Response[SessionResponse], error) {
	res, err := h.session.SignIn(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, identityError(err)
	}
	return connect.NewResponse(sessionResponse(res)), nil
}

func (h *AuthHandler) SignUp(ctx context.Context, req *connect.Request[CredentialsRequest]) (*connect.Response[SessionResponse], error) {
	res, err := h.session.SignUp(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, identityError(err)
	}
	return connect.NewResponse(sessionResponse(res)), nil
}

// SignOut ends the session. Only the account that owns it may do so.
func (h *AuthHandler) SignOut(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[identity.AuthState], error) {
	if !ownsSession(ctx, h.session.State()) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotSessionOwner)
	}
	if err := h.session.SignOut(ctx); err != nil {
		return nil, identityError(err)
	}
	return connect.NewResponse(ptr(visibleState(ctx, h.session.State()))), nil
}

func (h *AuthHandler) ResetPassword(ctx context.Context, req *connect.Request[ResetPasswordRequest]) (*connect.Response[ResetPasswordResponse], error) {
	if err := h.session.ResetPassword(ctx, req.Msg.Email); err != nil {
		return nil, identityError(err)
	}
	return connect.NewResponse(&ResetPasswordResponse{
		Message: "Password reset email sent. Check your inbox.",
	}), nil
}

// GetAuthState reports the session as seen by the caller: another
// account's session reads as signed out.
func (h *AuthHandler) GetAuthState(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[identity.AuthState], error) {
	return connect.NewResponse(ptr(visibleState(ctx, h.session.State()))), nil
}

// WatchAuthState streams the current auth state, then every change, until
// the client disconnects. States of other accounts read as signed out.
// Streams bypass unary interceptors, so the token is checked here.
func (h *AuthHandler) WatchAuthState(ctx context.Context, req *connect.Request[Empty], stream *connect.ServerStream[identity.AuthState]) error {
	ctx, err := middleware.Authenticate(ctx, h.verifier, req.Header())
	if err != nil {
		return err
	}

	states, cancel := h.session.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			st = visibleState(ctx, st)
			if err := stream.Send(&st); err != nil {
				h.logger.Debug("Auth state stream closed", "error", err)
				return err
			}
		}
	}
}

// sessionResponse is built only from what the call itself established.
func sessionResponse(res *identity.SignInResult) *SessionResponse {
	return &SessionResponse{
		User:    res.User,
		IDToken: res.IDToken,
		State:   res.State,
	}
}

func ownsSession(ctx context.Context, st identity.AuthState) bool {
	email := middleware.GetEmail(ctx)
	return st.Authenticated && email != "" && strings.EqualFold(st.Email, email)
}

func visibleState(ctx context.Context, st identity.AuthState) identity.AuthState {
	if !ownsSession(ctx, st) {
		return identity.AuthState{}
	}
	return st
}

func ptr[T any](v T) *T { return &v }
