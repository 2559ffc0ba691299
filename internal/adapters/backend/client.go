// Package backend is the HTTP client for the school-payment API. The API
// owns authentication, persistence and authorization; this client only
// shapes requests and classifies responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"edupayhub/internal/core/domain"
	"edupayhub/internal/pkg/metrics"
)

// Backend paths
const (
	PathLoginAdmin        = "/api/auth/admin/login"
	PathLoginSchoolAdmin  = "/api/auth/school-admin/login"
	PathCreateAdmin       = "/api/auth/admin/create"
	PathCreateSchoolAdmin = "/api/auth/school-admin/create"
	PathLogout            = "/api/auth/logout"
	PathTransactions      = "/api/transactions"
	PathSchoolTxPrefix    = "/api/transactions/school/"
)

// ErrTransport wraps network failures (no HTTP response)
var ErrTransport = errors.New("backend unreachable")

// APIError is a response with an unexpected status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// ErrorMessage returns the backend-supplied message of err, or fallback
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Jar supplies and receives cookies for credentialed calls
type Jar interface {
	Cookies() []*http.Cookie
	SetCookies([]*http.Cookie)
}

// LoginResponse is the body of a successful login
type LoginResponse struct {
	Message  string      `json:"message"`
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	SchoolID string      `json:"school_id"`
}

// User converts the response to a session user
func (r *LoginResponse) User() domain.User {
	return domain.User{ID: r.ID, Email: r.Email, Role: r.Role, SchoolID: r.SchoolID}
}

// MessageResponse is a body carrying only a message
type MessageResponse struct {
	Message string `json:"message"`
}

// TransactionsResponse is the paginated transaction list
type TransactionsResponse struct {
	Data        []domain.PaymentTransaction `json:"data"`
	CurrentPage int                         `json:"currentPage"`
	TotalPages  int                         `json:"totalPages"`
	Message     string                      `json:"message"`
}

// Page converts the response to a domain page
func (r *TransactionsResponse) Page() domain.TransactionPage {
	return domain.TransactionPage{Items: r.Data, CurrentPage: r.CurrentPage, TotalPages: r.TotalPages}
}

// Client calls the payment backend
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// LoginPath returns the login endpoint for a role
func LoginPath(role domain.Role) (string, error) {
	switch role {
	case domain.RoleAdmin:
		return PathLoginAdmin, nil
	case domain.RoleSchool:
		return PathLoginSchoolAdmin, nil
	default:
		return "", domain.ErrInvalidRole
	}
}

// Login signs in with the role-specific endpoint. Cookies set by the
// backend are stored in jar.
func (c *Client) Login(ctx context.Context, role domain.Role, email, password string, jar Jar) (*LoginResponse, error) {
	path, err := LoginPath(role)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, path, "login", body, jar, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAdmin registers a platform admin (not credentialed)
func (c *Client) CreateAdmin(ctx context.Context, name, email, password string) (*MessageResponse, error) {
	var out MessageResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, PathCreateAdmin, "create_admin", body, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSchoolAdmin registers a school admin (not credentialed)
func (c *Client) CreateSchoolAdmin(ctx context.Context, name, email, password, schoolID string) (*MessageResponse, error) {
	var out MessageResponse
	body := map[string]string{"name": name, "email": email, "password": password, "school_id": schoolID}
	if err := c.do(ctx, http.MethodPost, PathCreateSchoolAdmin, "create_school_admin", body, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the backend session
func (c *Client) Logout(ctx context.Context, jar Jar) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodGet, PathLogout, "logout", nil, jar, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions fetches one page of all transactions (admin)
func (c *Client) ListTransactions(ctx context.Context, page int, jar Jar) (*TransactionsResponse, error) {
	path := PathTransactions + "?page=" + strconv.Itoa(page)

	var out TransactionsResponse
	if err := c.do(ctx, http.MethodGet, path, "transactions", nil, jar, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSchoolTransactions fetches every transaction of one school
func (c *Client) ListSchoolTransactions(ctx context.Context, schoolID string, jar Jar) ([]domain.PaymentTransaction, error) {
	path := PathSchoolTxPrefix + url.PathEscape(schoolID)

	var out []domain.PaymentTransaction
	if err := c.do(ctx, http.MethodGet, path, "school_transactions", nil, jar, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, body interface{}, jar Jar, expect int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if jar != nil {
		for _, cookie := range jar.Cookies() {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(endpoint, metrics.OutcomeTransport).Inc()
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if jar != nil {
		jar.SetCookies(resp.Cookies())
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(endpoint, metrics.OutcomeTransport).Inc()
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode != expect {
		metrics.BackendRequests.WithLabelValues(endpoint, metrics.OutcomeAPIError).Inc()
		var msg MessageResponse
		_ = json.Unmarshal(raw, &msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	metrics.BackendRequests.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
