package domain

import "github.com/shopspring/decimal"

// Role is the account type of a dashboard user
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleSchool Role = "School"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSchool
}

// User is the identity returned by the backend on login
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
}

// Transaction statuses reported by the backend. The set is open; unknown
// values are displayed as-is.
const (
	StatusSuccess = "SUCCESS"
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
)

// KnownStatuses lists the statuses offered by the status filter
var KnownStatuses = []string{StatusSuccess, StatusPending, StatusFailed}

// SchoolInfo describes the school a payment belongs to
type SchoolInfo struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// StudentInfo describes the paying student
type StudentInfo struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
}

// FullName joins the non-empty name parts with single spaces
func (s StudentInfo) FullName() string {
	name := ""
	for _, part := range []string{s.FirstName, s.MiddleName, s.LastName} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

// PaymentTransaction is a single payment as served by the backend.
// Bank reference keeps the backend's field spelling on the wire.
type PaymentTransaction struct {
	ID                string          `json:"_id"`
	BankReference     string          `json:"bank_refrence"`
	Gateway           string          `json:"gateway"`
	PaymentMethod     string          `json:"payment_method"`
	Status            string          `json:"status"`
	SchoolInfo        SchoolInfo      `json:"school_info"`
	StudentInfo       StudentInfo     `json:"student_info"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
}

// TransactionPage is one fetch worth of transactions
type TransactionPage struct {
	Items       []PaymentTransaction `json:"items"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
}

// FilterCriteria are the three ANDed predicates of the transaction table.
// Empty strings mean "unset".
type FilterCriteria struct {
	SearchTerm string `json:"search"`
	Status     string `json:"status"`
	School     string `json:"school"`
}

// Notification variants
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a toast-style message shown on the next render
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant"`
}
