package handlers

import (
	"errors"

	"edupayhub/internal/core/services"
	"edupayhub/internal/core/session"
	"edupayhub/internal/pkg/response"
	"edupayhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles sign-in, sign-up and logout
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SessionResponse is the JSON view of the browser's session
type SessionResponse struct {
	Exists  bool        `json:"exists"`
	State   string      `json:"state"`
	Loading bool        `json:"loading"`
	User    interface{} `json:"user"`
}

// SignInPage renders the sign-in form
func (h *AuthHandler) SignInPage(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	return render(c, sess, "signin", fiber.Map{
		"Title": "Sign In",
		"Form":  services.SignInInput{Type: "Admin"},
	})
}

// SignIn handles the sign-in form
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignInInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form data")
	}

	next, err := h.authService.SignIn(c.UserContext(), sess, input)
	if err != nil {
		input.Password = ""
		return h.formFailure(c, sess, "signin", "Sign In", input, err)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// SignUpAdminPage renders the admin sign-up form
func (h *AuthHandler) SignUpAdminPage(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	return render(c, sess, "signup_admin", fiber.Map{
		"Title": "Create Admin",
		"Form":  services.SignUpAdminInput{},
	})
}

// SignUpAdmin handles the admin sign-up form
func (h *AuthHandler) SignUpAdmin(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignUpAdminInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form data")
	}
	next, err := h.authService.SignUpAdmin(c.UserContext(), sess, input)
	if err != nil {
		input.Password = ""
		return h.formFailure(c, sess, "signup_admin", "Create Admin", input, err)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// SignUpSchoolAdminPage renders the school-admin sign-up form
func (h *AuthHandler) SignUpSchoolAdminPage(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	return render(c, sess, "signup_school_admin", fiber.Map{
		"Title": "Create School Admin",
		"Form":  services.SignUpSchoolAdminInput{},
	})
}

// SignUpSchoolAdmin handles the school-admin sign-up form
func (h *AuthHandler) SignUpSchoolAdmin(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignUpSchoolAdminInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form data")
	}
	next, err := h.authService.SignUpSchoolAdmin(c.UserContext(), sess, input)
	if err != nil {
		input.Password = ""
		return h.formFailure(c, sess, "signup_school_admin", "Create School Admin", input, err)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// Logout handles the header's logout control. A failed logout keeps the
// user on the dashboard with the error notification.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	next, err := h.authService.Logout(c.UserContext(), sess)
	if err != nil {
		return c.Redirect(services.RouteDashboard, fiber.StatusSeeOther)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// formFailure re-renders a form with its inline errors. Backend failures
// were already queued as notifications by the service.
func (h *AuthHandler) formFailure(c *fiber.Ctx, sess *session.Session, page, title string, form interface{}, err error) error {
	errs := validation.Errors{}
	status := fiber.StatusUnprocessableEntity
	if !errors.As(err, &errs) {
		status = failureStatus(err)
	}

	c.Status(status)
	return render(c, sess, page, fiber.Map{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

// APISignIn signs in with a JSON body
// @Summary Sign in
// @Description Validates the credentials and signs in against the backend endpoint for the account type
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignInInput true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /auth/signin [post]
func (h *AuthHandler) APISignIn(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignInInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	next, err := h.authService.SignIn(c.UserContext(), sess, input)
	if err != nil {
		return apiFailure(c, sess, err)
	}

	user, _ := sess.User()
	return response.Success(c, lastTitle(sess.DrainNotifications()), fiber.Map{
		"redirect": next,
		"user":     user,
	})
}

// APISignUpAdmin creates an admin account with a JSON body
// @Summary Create admin account
// @Description Registers a platform admin with the backend
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignUpAdminInput true "Account"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /auth/signup/admin [post]
func (h *AuthHandler) APISignUpAdmin(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignUpAdminInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	next, err := h.authService.SignUpAdmin(c.UserContext(), sess, input)
	if err != nil {
		return apiFailure(c, sess, err)
	}
	return response.Created(c, lastTitle(sess.DrainNotifications()), fiber.Map{"redirect": next})
}

// APISignUpSchoolAdmin creates a school admin account with a JSON body
// @Summary Create school admin account
// @Description Registers a school admin bound to a school id with the backend
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignUpSchoolAdminInput true "Account"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /auth/signup/school-admin [post]
func (h *AuthHandler) APISignUpSchoolAdmin(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var input services.SignUpSchoolAdminInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	next, err := h.authService.SignUpSchoolAdmin(c.UserContext(), sess, input)
	if err != nil {
		return apiFailure(c, sess, err)
	}
	return response.Created(c, lastTitle(sess.DrainNotifications()), fiber.Map{"redirect": next})
}

// APILogout logs out
// @Summary Logout
// @Description Invalidates the backend session and clears the dashboard session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) APILogout(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	next, err := h.authService.Logout(c.UserContext(), sess)
	if err != nil {
		return apiFailure(c, sess, err)
	}
	return response.Success(c, lastTitle(sess.DrainNotifications()), fiber.Map{"redirect": next})
}

// APISession returns the current session
// @Summary Current session
// @Description Returns whether a user is signed in and who it is
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=SessionResponse}
// @Failure 503 {object} response.Response
// @Router /session [get]
func (h *AuthHandler) APISession(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	out := SessionResponse{
		Exists:  sess.Exists(),
		State:   sess.State().String(),
		Loading: sess.Loading(),
	}
	if user, ok := sess.User(); ok {
		out.User = user
	}
	return response.Success(c, "", out)
}
