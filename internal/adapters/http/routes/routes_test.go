package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/adapters/http/middleware"
	"edupayhub/internal/adapters/http/views"
	"edupayhub/internal/adapters/persistence/repositories"
	"edupayhub/internal/config"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/session"

	"github.com/gofiber/fiber/v2"
)

type fakeBackend struct {
	srv   *httptest.Server
	calls int32

	mu      sync.Mutex
	created []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fb.calls, 1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case backend.PathLoginAdmin:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "backend-session", Path: "/"})
			_, _ = w.Write([]byte(`{"id":"u1","email":"` + body["email"] + `","role":"Admin"}`))
		case backend.PathTransactions:
			if c, err := r.Cookie("token"); err != nil || c.Value != "backend-session" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Not authenticated"}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":[{"_id":"ORD-1","status":"SUCCESS","transaction_amount":250,"school_info":{"name":"Green Valley"},"student_info":{"first_name":"Ada"}}],"currentPage":1,"totalPages":1}`))
		case backend.PathLogout:
			_, _ = w.Write([]byte(`{"message":"Logged out"}`))
		case backend.PathCreateAdmin:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			fb.mu.Lock()
			fb.created = append(fb.created, body["name"])
			fb.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Admin created"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) Calls() int {
	return int(atomic.LoadInt32(&fb.calls))
}

func (fb *fakeBackend) Created() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.created...)
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode:      "dev",
		ItemsPerPage: 20,
		Session:      config.SessionConfig{Store: config.StoreMemory},
		Cookie:       config.CookieConfig{SameSite: "lax"},
	}
}

func newTestApp(manager *session.Manager, backendURL string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
		Views:        views.New(),
		ViewsLayout:  views.Layout,
	})
	Setup(app, testConfig(), manager, backend.NewClient(backendURL, time.Second))
	return app
}

func newManager() *session.Manager {
	return session.NewManager(repositories.NewMemorySessionRepository(), "secret", time.Hour)
}

// browser replays the session cookie between requests
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("request failed: %v", err)
	}
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			b.cookie = c
		}
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) postJSON(path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return b.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestDashboardRedirectsAnonymousVisitor(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	resp := b.get("/")
	if resp.StatusCode != fiber.StatusSeeOther || resp.Header.Get("Location") != "/signin" {
		t.Fatalf("expected redirect to /signin, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if b.cookie == nil {
		t.Fatalf("expected a session cookie")
	}
	if fb.Calls() != 0 {
		t.Fatalf("expected no backend call")
	}
}

func TestSignInThenDashboard(t *testing.T) {
	fb := newFakeBackend(t)
	manager := newManager()
	b := &browser{t: t, app: newTestApp(manager, fb.srv.URL)}

	resp := b.postForm("/signin", url.Values{"email": {"admin@school.io"}, "password": {"secret1"}, "type": {"Admin"}})
	if resp.StatusCode != fiber.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = b.get("/api/v1/session")
	var out struct {
		Data struct {
			Exists bool        `json:"exists"`
			User   domain.User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(readBody(t, resp)), &out); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !out.Data.Exists || out.Data.User.Role != domain.RoleAdmin || out.Data.User.Email != "admin@school.io" {
		t.Fatalf("unexpected session %+v", out.Data)
	}

	resp = b.get("/")
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected dashboard, got %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"ORD-1", "Green Valley", "Login Successful", "Transaction Dashboard", "<td>1</td>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in dashboard", want)
		}
	}
	if resp.Header.Get("Cache-Control") != "no-store, no-cache, must-revalidate" {
		t.Fatalf("expected no-cache headers on session pages")
	}
}

func TestSignInInvalidEmailMakesNoBackendCall(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	resp := b.postForm("/signin", url.Values{"email": {"nope"}, "password": {"secret1"}, "type": {"Admin"}})
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusUnprocessableEntity || !strings.Contains(body, "Invalid email") {
		t.Fatalf("expected inline validation error, got %d", resp.StatusCode)
	}
	if fb.Calls() != 0 {
		t.Fatalf("expected no backend call, got %d", fb.Calls())
	}
}

func TestSignInBackendRejection(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	resp := b.postForm("/signin", url.Values{"email": {"admin@school.io"}, "password": {"wrong-pass"}, "type": {"Admin"}})
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusUnauthorized || !strings.Contains(body, "Invalid credentials") {
		t.Fatalf("expected backend message, got %d", resp.StatusCode)
	}
}

func TestAPISignInValidation(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	resp := b.postJSON("/api/v1/auth/signin", `{"email":"","password":"123","type":"Admin"}`)
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal([]byte(readBody(t, resp)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if out.Fields["email"] != "Email is required" || out.Fields["password"] != "Password must be at least 6 characters" {
		t.Fatalf("unexpected fields %v", out.Fields)
	}
}

func TestAPITransactionsRequiresUser(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	if resp := b.get("/api/v1/transactions"); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAPITransactionsFilters(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	b.postJSON("/api/v1/auth/signin", `{"email":"admin@school.io","password":"secret1","type":"Admin"}`)

	resp := b.get("/api/v1/transactions?search=ord")
	var out struct {
		Data struct {
			Data []domain.PaymentTransaction `json:"data"`
			Meta struct {
				TotalPages int `json:"total_pages"`
			} `json:"meta"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(readBody(t, resp)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data.Data) != 1 || out.Data.Meta.TotalPages != 1 {
		t.Fatalf("unexpected view %+v", out.Data)
	}

	calls := fb.Calls()
	resp = b.get("/api/v1/transactions?search=zzz")
	if err := json.Unmarshal([]byte(readBody(t, resp)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data.Data) != 0 || fb.Calls() != calls {
		t.Fatalf("filter change must not refetch, got %d rows and %d calls", len(out.Data.Data), fb.Calls()-calls)
	}
}

func TestLogout(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	b.postForm("/signin", url.Values{"email": {"admin@school.io"}, "password": {"secret1"}, "type": {"Admin"}})

	resp := b.postForm("/logout", url.Values{})
	if resp.StatusCode != fiber.StatusSeeOther || resp.Header.Get("Location") != "/signin" {
		t.Fatalf("expected redirect to /signin, got %d", resp.StatusCode)
	}

	resp = b.get("/signin")
	body := readBody(t, resp)
	if !strings.Contains(body, "Logged out") || !strings.Contains(body, ">Login<") {
		t.Fatalf("expected logout notification and login control")
	}
	if resp := b.get("/"); resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected dashboard to redirect after logout, got %d", resp.StatusCode)
	}
}

type failingRepo struct {
	repositories.SessionRepository
}

func (failingRepo) Get(context.Context, string) (*domain.SessionRecord, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) Save(context.Context, string, *domain.SessionRecord) error {
	return errors.New("connection refused")
}

func (failingRepo) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestUnresolvedSessionAnswers503(t *testing.T) {
	fb := newFakeBackend(t)

	// A token signed by a healthy instance, presented to one whose store is down
	healthy := newManager()
	_, token, err := healthy.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	down := session.NewManager(failingRepo{}, "secret", time.Hour)
	b := &browser{t: t, app: newTestApp(down, fb.srv.URL), cookie: &http.Cookie{Name: middleware.SessionCookie, Value: token}}

	resp := b.get("/")
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 instead of redirect, got %d", resp.StatusCode)
	}
	if resp := b.get("/api/v1/transactions"); resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected JSON 503, got %d", resp.StatusCode)
	}
	if resp := b.get("/health"); resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected degraded health, got %d", resp.StatusCode)
	}
}

func TestHealthAndMetricsSkipSessions(t *testing.T) {
	fb := newFakeBackend(t)
	manager := newManager()
	b := &browser{t: t, app: newTestApp(manager, fb.srv.URL)}

	if resp := b.get("/health"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected healthy, got %d", resp.StatusCode)
	}
	resp := b.get("/metrics")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(readBody(t, resp), "edupayhub_live_sessions") {
		t.Fatalf("expected metrics exposition")
	}
	if b.cookie != nil || manager.LiveCount() != 0 {
		t.Fatalf("infrastructure routes must not create sessions")
	}
}

func TestAPISignUpAdminSendsNameAsTyped(t *testing.T) {
	fb := newFakeBackend(t)
	b := &browser{t: t, app: newTestApp(newManager(), fb.srv.URL)}

	resp := b.postJSON("/api/v1/auth/signup/admin", `{"name":"ab ","email":"new@x.co","password":"secret1"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected sign-up to pass validation, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	created := fb.Created()
	if len(created) != 1 || created[0] != "ab " {
		t.Fatalf("expected the untrimmed name forwarded, got %q", created)
	}
}
