// Package viewmodel holds the per-session transaction table state: the
// loaded items, the pagination cursor and the active filter criteria.
package viewmodel

import (
	"sync"

	"edupayhub/internal/core/domain"
)

// Token identifies one fetch. Tokens increase monotonically per view; a
// response is applied only if its token is the latest one issued.
type Token uint64

// TransactionView owns fetched transactions and derives the filtered view
type TransactionView struct {
	mu          sync.Mutex
	items       []domain.PaymentTransaction
	currentPage int
	totalPages  int
	loadedPage  int
	loaded      bool
	loading     bool
	criteria    domain.FilterCriteria
	issued      Token
}

// Snapshot is an immutable copy of the view for rendering
type Snapshot struct {
	Items       []domain.PaymentTransaction `json:"-"`
	Filtered    []domain.PaymentTransaction `json:"data"`
	CurrentPage int                         `json:"current_page"`
	TotalPages  int                         `json:"total_pages"`
	HasPrev     bool                        `json:"has_prev"`
	HasNext     bool                        `json:"has_next"`
	Loaded      bool                        `json:"loaded"`
	Loading     bool                        `json:"loading"`
	Criteria    domain.FilterCriteria       `json:"criteria"`
	Schools     []string                    `json:"schools"`
	Statuses    []string                    `json:"statuses"`
}

// New creates an empty view positioned on page 1 of 1
func New() *TransactionView {
	return &TransactionView{currentPage: 1, totalPages: 1}
}

// RequestPage moves the cursor to page. It is a no-op and returns false
// when page is outside [1, totalPages].
func (v *TransactionView) RequestPage(page int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if page < 1 || page > v.totalPages {
		return false
	}
	v.currentPage = page
	return true
}

// SetCriteria replaces the filter criteria
func (v *TransactionView) SetCriteria(c domain.FilterCriteria) {
	v.mu.Lock()
	v.criteria = c
	v.mu.Unlock()
}

// NeedsFetch reports whether the view has to (re)load for the current cursor
func (v *TransactionView) NeedsFetch() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.loaded || v.loadedPage != v.currentPage
}

// CurrentPage returns the page cursor
func (v *TransactionView) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentPage
}

// Begin issues a new fetch token and marks the view loading
func (v *TransactionView) Begin() Token {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.issued++
	v.loading = true
	return v.issued
}

// ApplyPage stores a paginated response. Stale tokens are discarded with
// domain.ErrStaleResponse and leave the view untouched.
func (v *TransactionView) ApplyPage(tok Token, page domain.TransactionPage) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if tok != v.issued {
		return domain.ErrStaleResponse
	}
	v.items = page.Items
	v.currentPage = page.CurrentPage
	v.totalPages = page.TotalPages
	v.loadedPage = page.CurrentPage
	v.loaded = true
	v.loading = false
	return nil
}

// ApplyAll stores an unpaginated response (school accounts)
func (v *TransactionView) ApplyAll(tok Token, items []domain.PaymentTransaction) error {
	return v.ApplyPage(tok, domain.TransactionPage{Items: items, CurrentPage: 1, TotalPages: 1})
}

// Fail clears the loading flag for the latest fetch. Items are kept.
func (v *TransactionView) Fail(tok Token) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if tok == v.issued {
		v.loading = false
	}
}

// Snapshot derives the filtered view from the current items and criteria
func (v *TransactionView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	items := make([]domain.PaymentTransaction, len(v.items))
	copy(items, v.items)

	return Snapshot{
		Items:       items,
		Filtered:    domain.ApplyFilter(items, v.criteria),
		CurrentPage: v.currentPage,
		TotalPages:  v.totalPages,
		HasPrev:     v.currentPage > 1,
		HasNext:     v.currentPage < v.totalPages,
		Loaded:      v.loaded,
		Loading:     v.loading,
		Criteria:    v.criteria,
		Schools:     domain.SchoolOptions(items),
		Statuses:    domain.KnownStatuses,
	}
}
