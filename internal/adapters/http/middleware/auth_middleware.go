package middleware

import (
	"edupayhub/internal/core/session"
	"edupayhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DefaultRedirect is where anonymous visitors are sent
const DefaultRedirect = "/signin"

// MsgSessionUnavailable is returned while the session store is down
const MsgSessionUnavailable = "session unavailable"

// Decision is the guard's verdict for a request
type Decision int

const (
	// Allow renders the protected view
	Allow Decision = iota
	// Redirect sends the visitor to the redirect target
	Redirect
	// Unavailable answers 503 because identity is undetermined
	Unavailable
)

// Verdict is a decision plus the location for Redirect
type Verdict struct {
	Decision Decision
	Location string
}

// Decide maps a session state to a verdict. An empty redirect means
// DefaultRedirect.
func Decide(state session.State, redirect string) Verdict {
	if redirect == "" {
		redirect = DefaultRedirect
	}

	switch state {
	case session.StateAuthenticated:
		return Verdict{Decision: Allow}
	case session.StateAnonymous:
		return Verdict{Decision: Redirect, Location: redirect}
	default:
		return Verdict{Decision: Unavailable}
	}
}

// RequireSession guards pages: anonymous visitors are redirected
func RequireSession(redirect string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := Decide(CurrentState(c), redirect)
		switch v.Decision {
		case Allow:
			return c.Next()
		case Redirect:
			return c.Redirect(v.Location, fiber.StatusSeeOther)
		default:
			c.Set(fiber.HeaderRetryAfter, "5")
			return fiber.NewError(fiber.StatusServiceUnavailable, MsgSessionUnavailable)
		}
	}
}

// RequireAPISession guards JSON routes: anonymous callers get 401
func RequireAPISession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := Decide(CurrentState(c), "")
		switch v.Decision {
		case Allow:
			return c.Next()
		case Redirect:
			return response.Unauthorized(c, "Not authenticated")
		default:
			c.Set(fiber.HeaderRetryAfter, "5")
			return response.Error(c, fiber.StatusServiceUnavailable, MsgSessionUnavailable)
		}
	}
}

// RequireSessionStore answers 503 when no session could be resolved. Used
// by the public auth routes, which need a session to hold notifications.
func RequireSessionStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentSession(c); ok {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "5")
		if IsAPI(c) {
			return response.Error(c, fiber.StatusServiceUnavailable, MsgSessionUnavailable)
		}
		return fiber.NewError(fiber.StatusServiceUnavailable, MsgSessionUnavailable)
	}
}
