package handlers

import (
	"errors"
	"log"
	"net/url"
	"strconv"

	"edupayhub/internal/adapters/http/views"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/services"
	"edupayhub/internal/core/viewmodel"
	"edupayhub/internal/pkg/pagination"
	"edupayhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the transaction dashboard
type DashboardHandler struct {
	txService *services.TransactionService
	perPage   int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(txService *services.TransactionService, perPage int) *DashboardHandler {
	if perPage < 1 {
		perPage = pagination.DefaultPerPage
	}
	return &DashboardHandler{txService: txService, perPage: perPage}
}

// TransactionsResponse is the JSON dashboard view
type TransactionsResponse struct {
	viewmodel.Snapshot
	Meta pagination.Meta `json:"meta"`
}

// Dashboard renders the transaction table
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	snap, err := h.txService.View(c.UserContext(), sess, viewRequest(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Redirect(services.RouteSignIn, fiber.StatusSeeOther)
		}
		log.Printf("⚠️ Dashboard load: %v", err)
	}

	user, _ := sess.User()
	isAdmin := user.Role == domain.RoleAdmin

	var rows []views.Row
	if isAdmin {
		rows = views.Rows(snap.Filtered, snap.CurrentPage, h.perPage)
	} else {
		// School accounts see the whole list on one page without filters
		rows = views.Rows(snap.Items, 1, h.perPage)
	}

	return render(c, sess, "dashboard", fiber.Map{
		"Title":      "Dashboard",
		"IsAdmin":    isAdmin,
		"Snapshot":   snap,
		"Rows":       rows,
		"Meta":       pagination.NewMeta(snap.CurrentPage, snap.TotalPages, h.perPage),
		"PrevURL":    pageURL(snap.CurrentPage-1, snap.Criteria, false),
		"NextURL":    pageURL(snap.CurrentPage+1, snap.Criteria, false),
		"RefreshURL": pageURL(snap.CurrentPage, snap.Criteria, true),
	})
}

// APITransactions returns the filtered transaction view
// @Summary List transactions
// @Description Returns the session's transaction view. Admins get one backend page, school admins their whole school. Filters apply to the held items.
// @Tags Transactions
// @Produce json
// @Param page query int false "Page to show (admins)"
// @Param search query string false "Case-insensitive substring of the order id"
// @Param status query string false "Exact status"
// @Param school query string false "School name, case-insensitive"
// @Param refresh query int false "1 forces a reload"
// @Success 200 {object} response.Response{data=TransactionsResponse}
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /transactions [get]
func (h *DashboardHandler) APITransactions(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	snap, err := h.txService.View(c.UserContext(), sess, viewRequest(c))
	switch {
	case err == nil, errors.Is(err, domain.ErrNoSchool), errors.Is(err, domain.ErrStaleResponse):
	default:
		return apiFailure(c, sess, err)
	}

	return response.Success(c, lastTitle(sess.DrainNotifications()), TransactionsResponse{
		Snapshot: snap,
		Meta:     pagination.NewMeta(snap.CurrentPage, snap.TotalPages, h.perPage),
	})
}

func viewRequest(c *fiber.Ctx) services.ViewRequest {
	return services.ViewRequest{
		Page: pagination.RequestedPage(c),
		Criteria: domain.FilterCriteria{
			SearchTerm: c.Query("search"),
			Status:     c.Query("status"),
			School:     c.Query("school"),
		},
		Refresh: c.Query("refresh") == "1",
	}
}

// pageURL links to page keeping the active filters
func pageURL(page int, criteria domain.FilterCriteria, refresh bool) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if criteria.SearchTerm != "" {
		q.Set("search", criteria.SearchTerm)
	}
	if criteria.Status != "" {
		q.Set("status", criteria.Status)
	}
	if criteria.School != "" {
		q.Set("school", criteria.School)
	}
	if refresh {
		q.Set("refresh", "1")
	}
	return services.RouteDashboard + "?" + q.Encode()
}
