package handlers

import (
	"errors"
	"net/http"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/adapters/http/middleware"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/services"
	"edupayhub/internal/core/session"
	"edupayhub/internal/pkg/response"
	"edupayhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// render fills the layout bindings from the session and renders a page.
// Queued notifications are drained here, so each is shown once.
func render(c *fiber.Ctx, sess *session.Session, name string, data fiber.Map) error {
	data["Notifications"] = sess.DrainNotifications()
	if user, ok := sess.User(); ok {
		data["User"] = &user
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.Errors{}
	}
	return c.Render(name, data)
}

// sessionOf returns the request's session. The routes using it sit behind
// RequireSessionStore, so a missing session is a wiring error.
func sessionOf(c *fiber.Ctx) (*session.Session, error) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, middleware.MsgSessionUnavailable)
	}
	return sess, nil
}

// failureStatus maps a flow error to the status of the response
func failureStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest {
		return apiErr.StatusCode
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNoSchool), errors.Is(err, domain.ErrInvalidRole):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrStaleResponse):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}

// apiFailure answers a JSON flow error. Validation errors become 422 with
// the per-field messages; everything else carries the message the user
// would have seen as a notification.
func apiFailure(c *fiber.Ctx, sess *session.Session, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return response.ValidationError(c, verrs)
	}

	message := lastTitle(sess.DrainNotifications())
	if message == "" {
		message = backend.ErrorMessage(err, services.MsgGenericError)
	}
	return response.Error(c, failureStatus(err), message)
}

func lastTitle(ns []domain.Notification) string {
	if len(ns) == 0 {
		return ""
	}
	return ns[len(ns)-1].Title
}
