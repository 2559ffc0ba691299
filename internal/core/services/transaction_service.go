package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/session"
	"edupayhub/internal/core/viewmodel"
	"edupayhub/internal/pkg/metrics"
)

// TransactionService loads transactions into a session's view model
type TransactionService struct {
	api BackendAPI
}

// NewTransactionService creates a new transaction service
func NewTransactionService(api BackendAPI) *TransactionService {
	return &TransactionService{api: api}
}

// ViewRequest is one dashboard render: the page asked for, the filter
// criteria and whether a reload was forced
type ViewRequest struct {
	Page     int
	Criteria domain.FilterCriteria
	Refresh  bool
}

// View applies req to the session's view model and returns the derived
// snapshot. A fetch happens only when the view was never loaded, the page
// moved or Refresh is set; criteria alone are re-derived from held items.
// A failed fetch still returns the snapshot together with the error.
func (s *TransactionService) View(ctx context.Context, sess *session.Session, req ViewRequest) (viewmodel.Snapshot, error) {
	if !sess.Exists() {
		return viewmodel.Snapshot{}, domain.ErrUnauthorized
	}

	view := sess.View()
	view.SetCriteria(req.Criteria)

	if req.Page > 0 && req.Page != view.CurrentPage() {
		view.RequestPage(req.Page)
	}

	var err error
	if req.Refresh || view.NeedsFetch() {
		err = s.Load(ctx, sess)
	}
	return view.Snapshot(), err
}

// ChangePage moves the cursor and fetches the new page. Out-of-range pages
// are ignored without a fetch.
func (s *TransactionService) ChangePage(ctx context.Context, sess *session.Session, page int) error {
	view := sess.View()
	if !view.RequestPage(page) {
		return nil
	}
	if !view.NeedsFetch() {
		return nil
	}
	return s.Load(ctx, sess)
}

// Load fetches transactions for the signed-in user: one page for Admin,
// the whole school list for School. Items are left untouched on failure.
func (s *TransactionService) Load(ctx context.Context, sess *session.Session) error {
	user, ok := sess.User()
	if !ok {
		return domain.ErrUnauthorized
	}

	switch user.Role {
	case domain.RoleAdmin:
		return s.loadPage(ctx, sess)
	case domain.RoleSchool:
		if user.SchoolID == "" {
			return domain.ErrNoSchool
		}
		return s.loadSchool(ctx, sess, user.SchoolID)
	default:
		return domain.ErrInvalidRole
	}
}

func (s *TransactionService) loadPage(ctx context.Context, sess *session.Session) error {
	view := sess.View()
	page := view.CurrentPage()
	tok := view.Begin()

	resp, err := s.api.ListTransactions(ctx, page, sess)
	if err != nil {
		view.Fail(tok)
		s.notifyFailure(sess, err)
		return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	if err := view.ApplyPage(tok, resp.Page()); err != nil {
		s.discard(err)
		return err
	}

	sess.Notify(domain.Notification{Title: orDefault(resp.Message, MsgTransactionsOK)})
	return nil
}

func (s *TransactionService) loadSchool(ctx context.Context, sess *session.Session, schoolID string) error {
	view := sess.View()
	tok := view.Begin()

	items, err := s.api.ListSchoolTransactions(ctx, schoolID, sess)
	if err != nil {
		view.Fail(tok)
		s.notifyFailure(sess, err)
		return fmt.Errorf("%w: %w", domain.ErrRequestFailed, err)
	}

	if err := view.ApplyAll(tok, items); err != nil {
		s.discard(err)
		return err
	}

	// The school endpoint returns a bare array, so there is no message
	sess.Notify(domain.Notification{Title: MsgTransactionsOK})
	return nil
}

func (s *TransactionService) discard(err error) {
	if errors.Is(err, domain.ErrStaleResponse) {
		metrics.StaleResponses.Inc()
		log.Println("⚠️ Discarded transaction response from a superseded request")
	}
}

func (s *TransactionService) notifyFailure(sess *session.Session, err error) {
	sess.Notify(domain.Notification{
		Title:   backend.ErrorMessage(err, MsgGenericError),
		Variant: domain.VariantDestructive,
	})
}
