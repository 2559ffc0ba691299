package services

import (
	"context"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/core/domain"
)

// Routes the flows redirect to
const (
	RouteDashboard = "/"
	RouteSignIn    = "/signin"
)

// Default notification titles used when the backend sends no message
const (
	MsgGenericError   = "Something went wrong"
	MsgLoginOK        = "Login Successful"
	MsgSignUpOK       = "Account created successfully"
	MsgLogoutOK       = "Logout successful"
	MsgLogoutDesc     = "You have been logged out successfully"
	MsgTransactionsOK = "All Transactions Fetched Successfully...!!!"
)

// BackendAPI is the subset of the payment backend the services call.
// *backend.Client implements it.
type BackendAPI interface {
	Login(ctx context.Context, role domain.Role, email, password string, jar backend.Jar) (*backend.LoginResponse, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*backend.MessageResponse, error)
	CreateSchoolAdmin(ctx context.Context, name, email, password, schoolID string) (*backend.MessageResponse, error)
	Logout(ctx context.Context, jar backend.Jar) (*backend.MessageResponse, error)
	ListTransactions(ctx context.Context, page int, jar backend.Jar) (*backend.TransactionsResponse, error)
	ListSchoolTransactions(ctx context.Context, schoolID string, jar backend.Jar) ([]domain.PaymentTransaction, error)
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
