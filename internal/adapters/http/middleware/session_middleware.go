package middleware

import (
	"log"
	"time"

	"edupayhub/internal/config"
	"edupayhub/internal/core/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the browser cookie carrying the signed session token
const SessionCookie = "edupay_session"

// Locals keys
const (
	LocalSession = "session"
	LocalState   = "sessionState"
)

// Sessions resolves the browser's session for every request, creating one
// on first visit. The session is saved after the handler ran. When the
// session store cannot be reached the request continues with
// StateUnresolved and no session, and the guards answer 503.
func Sessions(manager *session.Manager, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		sess, state, err := manager.Resolve(ctx, c.Cookies(SessionCookie))
		if err != nil {
			log.Printf("⚠️ Session store unavailable: %v", err)
			c.Locals(LocalState, session.StateUnresolved)
			return c.Next()
		}

		if sess == nil {
			var token string
			sess, token, err = manager.Create(ctx)
			if err != nil {
				log.Printf("⚠️ Failed to create session: %v", err)
				c.Locals(LocalState, session.StateUnresolved)
				return c.Next()
			}
			setSessionCookie(c, cfg, token, sess.ExpiresAt())
			state = session.StateAnonymous
		}

		c.Locals(LocalSession, sess)
		c.Locals(LocalState, state)

		err = c.Next()

		if saveErr := manager.Save(ctx, sess); saveErr != nil {
			log.Printf("⚠️ Failed to save session: %v", saveErr)
		}
		return err
	}
}

// CurrentSession returns the session resolved for this request
func CurrentSession(c *fiber.Ctx) (*session.Session, bool) {
	sess, ok := c.Locals(LocalSession).(*session.Session)
	return sess, ok && sess != nil
}

// CurrentState returns the live guard state of the request's session
func CurrentState(c *fiber.Ctx) session.State {
	if sess, ok := CurrentSession(c); ok {
		return sess.State()
	}
	if state, ok := c.Locals(LocalState).(session.State); ok {
		return state
	}
	return session.StateUnresolved
}

func setSessionCookie(c *fiber.Ctx, cfg *config.Config, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
	})
}
