package services

import (
	"context"
	"fmt"
	"log"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/session"
	"edupayhub/internal/pkg/validation"
)

// AuthService runs the sign-in, sign-up and logout flows
type AuthService struct {
	api       BackendAPI
	manager   *session.Manager
	validator *validation.Validator
}

// NewAuthService creates a new auth service
func NewAuthService(api BackendAPI, manager *session.Manager, validator *validation.Validator) *AuthService {
	return &AuthService{
		api:       api,
		manager:   manager,
		validator: validator,
	}
}

// SignInInput represents the sign-in form
type SignInInput struct {
	Email    string `json:"email" form:"email" validate:"required,email" msg_required:"Email is required" msg_email:"Invalid email"`
	Password string `json:"password" form:"password" validate:"required,min=6" msg_required:"Password is required" msg_min:"Password must be at least 6 characters"`
	Type     string `json:"type" form:"type" validate:"required,oneof=Admin School" msg_required:"Account type is required" msg_oneof:"Account type must be Admin or School"`
}

// SignUpAdminInput represents the admin sign-up form
type SignUpAdminInput struct {
	Name     string `json:"name" form:"name" validate:"required,min=3,max=50" msg_required:"Name is required" msg_min:"Name must be at least 3 characters" msg_max:"Name must be at most 50 characters"`
	Email    string `json:"email" form:"email" validate:"required,email" msg_required:"Email is required" msg_email:"Invalid email"`
	Password string `json:"password" form:"password" validate:"required,min=6" msg_required:"Password is required" msg_min:"Password must be at least 6 characters"`
}

// SignUpSchoolAdminInput represents the school-admin sign-up form
type SignUpSchoolAdminInput struct {
	Name     string `json:"name" form:"name" validate:"required,min=3,max=50" msg_required:"Name is required" msg_min:"Name must be at least 3 characters" msg_max:"Name must be at most 50 characters"`
	Email    string `json:"email" form:"email" validate:"required,email" msg_required:"Email is required" msg_email:"Invalid email"`
	Password string `json:"password" form:"password" validate:"required,min=6" msg_required:"Password is required" msg_min:"Password must be at least 6 characters"`
	SchoolID string `json:"school_id" form:"school_id" validate:"required" msg_required:"School Id is required."`
}

// SignIn validates the form, logs in against the role's endpoint and on
// success stores the user in sess. It returns the route to navigate to.
// Validation failures are returned as validation.Errors and never reach
// the backend.
func (s *AuthService) SignIn(ctx context.Context, sess *session.Session, input SignInInput) (string, error) {
	if err := s.validator.Struct(input); err != nil {
		return "", err
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)

	resp, err := s.api.Login(ctx, domain.Role(input.Type), input.Email, input.Password, sess)
	if err != nil {
		s.notifyFailure(sess, err)
		return "", fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	sess.SetUser(resp.User())
	sess.ResetView()
	sess.Notify(domain.Notification{Title: orDefault(resp.Message, MsgLoginOK)})

	log.Printf("🔐 Signed in %s as %s", resp.Email, resp.Role)
	return RouteDashboard, nil
}

// SignUpAdmin creates a platform admin account
func (s *AuthService) SignUpAdmin(ctx context.Context, sess *session.Session, input SignUpAdminInput) (string, error) {
	if err := s.validator.Struct(input); err != nil {
		return "", err
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)

	resp, err := s.api.CreateAdmin(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		s.notifyFailure(sess, err)
		return "", fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	sess.Notify(domain.Notification{Title: orDefault(resp.Message, MsgSignUpOK)})
	return RouteSignIn, nil
}

// SignUpSchoolAdmin creates a school admin account
func (s *AuthService) SignUpSchoolAdmin(ctx context.Context, sess *session.Session, input SignUpSchoolAdminInput) (string, error) {
	if err := s.validator.Struct(input); err != nil {
		return "", err
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)

	resp, err := s.api.CreateSchoolAdmin(ctx, input.Name, input.Email, input.Password, input.SchoolID)
	if err != nil {
		s.notifyFailure(sess, err)
		return "", fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	sess.Notify(domain.Notification{Title: orDefault(resp.Message, MsgSignUpOK)})
	return RouteSignIn, nil
}

// Logout invalidates the backend session and tears down the local one.
// Without a signed-in user it only sends the browser to sign-in.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) (string, error) {
	if !sess.Exists() {
		return RouteSignIn, nil
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)

	resp, err := s.api.Logout(ctx, sess)
	if err != nil {
		s.notifyFailure(sess, err)
		return "", fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	if err := s.manager.Teardown(ctx, sess); err != nil {
		log.Printf("⚠️ Warning: failed to persist logout for session: %v", err)
	}
	sess.Notify(domain.Notification{
		Title:       orDefault(resp.Message, MsgLogoutOK),
		Description: MsgLogoutDesc,
	})
	return RouteSignIn, nil
}

func (s *AuthService) notifyFailure(sess *session.Session, err error) {
	sess.Notify(domain.Notification{
		Title:   backend.ErrorMessage(err, MsgGenericError),
		Variant: domain.VariantDestructive,
	})
}
