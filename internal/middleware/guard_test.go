package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidrigs/partsdb-console/internal/model"
	"github.com/aidrigs/partsdb-console/internal/session"
)

// --- モック定義 ---

type mockSessionReader struct {
	snapshotFunc func() session.Snapshot
}

func (m *mockSessionReader) Snapshot() session.Snapshot {
	return m.snapshotFunc()
}

var _ SessionReader = (*mockSessionReader)(nil)

func loadingReader() *mockSessionReader {
	return &mockSessionReader{
		snapshotFunc: func() session.Snapshot {
			return session.Snapshot{Phase: session.PhaseLoading}
		},
	}
}

func unauthenticatedReader() *mockSessionReader {
	return &mockSessionReader{
		snapshotFunc: func() session.Snapshot {
			return session.Snapshot{Phase: session.PhaseUnauthenticated}
		},
	}
}

func authenticatedReader(identity *model.Identity) *mockSessionReader {
	return &mockSessionReader{
		snapshotFunc: func() session.Snapshot {
			return session.Snapshot{
				Phase:    session.PhaseAuthenticated,
				Identity: identity,
				Token:    "tok-abc",
			}
		},
	}
}

// --- テスト ---

func TestGuard_LoadingPhase_RendersLoadingPage(t *testing.T) {
	handlerCalled := false
	guard := NewGuardMiddleware(loadingReader())
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if handlerCalled {
		t.Error("protected handler should not run during loading phase")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Checking session") {
		t.Errorf("body should contain loading message, got %q", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `http-equiv="refresh"`) {
		t.Error("loading page should auto-refresh")
	}
}

func TestGuard_Unauthenticated_RedirectsToLoginWithNext(t *testing.T) {
	guard := NewGuardMiddleware(unauthenticatedReader())
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler should not run for unauthenticated request")
	}))

	req := httptest.NewRequest(http.MethodGet, "/price-tiers?search=bulk", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login?next=") {
		t.Errorf("Location = %q, want /login?next=...", location)
	}
	if !strings.Contains(location, "price-tiers") {
		t.Errorf("Location = %q, should carry the original path", location)
	}
}

func TestGuard_Authenticated_InjectsIdentity(t *testing.T) {
	identity := &model.Identity{ID: "u-1", Username: "operator"}

	var gotID string
	guard := NewGuardMiddleware(authenticatedReader(identity))
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Fatalf("IdentityFromContext() error: %v", err)
		}
		gotID = got.ID
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "u-1" {
		t.Errorf("identity ID = %q, want u-1", gotID)
	}
}

func TestGuestOnly_AuthenticatedRedirectsToDashboard(t *testing.T) {
	guard := NewGuestOnlyMiddleware(authenticatedReader(&model.Identity{ID: "u-1"}))
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("login page handler should not run for authenticated user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", got)
	}
}

func TestGuestOnly_UnauthenticatedPassesThrough(t *testing.T) {
	handlerCalled := false
	guard := NewGuestOnlyMiddleware(unauthenticatedReader())
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !handlerCalled {
		t.Error("login page handler should run for unauthenticated user")
	}
}

func TestSafeNextPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty falls back", raw: "", want: "/dashboard"},
		{name: "local path allowed", raw: "/categories", want: "/categories"},
		{name: "local path with query allowed", raw: "/parts?page=2", want: "/parts?page=2"},
		{name: "absolute URL rejected", raw: "https://evil.example/", want: "/dashboard"},
		{name: "scheme-relative URL rejected", raw: "//evil.example/", want: "/dashboard"},
		{name: "backslash variant rejected", raw: "/\\evil.example", want: "/dashboard"},
		{name: "header injection rejected", raw: "/ok\r\nSet-Cookie: x", want: "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeNextPath(tt.raw); got != tt.want {
				t.Errorf("SafeNextPath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIdentityFromContext_MissingReturnsError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := IdentityFromContext(req.Context()); err == nil {
		t.Error("expected error for context without identity")
	}
}
