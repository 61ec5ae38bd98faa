package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

func withCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCreateAndResolve(t *testing.T) {
	r := NewRegistry("test-key-0123456789abcdef", time.Hour)
	rec := httptest.NewRecorder()
	user := domain.User{ID: "u1", Email: "a@example.com"}

	created, err := r.Create(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), "bearer-tok", user)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Token != "bearer-tok" {
		t.Fatalf("token not kept: %+v", created)
	}

	got, err := r.Resolve(withCookies(t, rec))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != created.ID || got.User.Email != "a@example.com" {
		t.Fatalf("wrong session: %+v", got)
	}
}

func TestResolveWithoutCookie(t *testing.T) {
	r := NewRegistry("test-key-0123456789abcdef", time.Hour)
	_, err := r.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	r := NewRegistry("test-key-0123456789abcdef", 10*time.Millisecond)
	rec := httptest.NewRecorder()
	if _, err := r.Create(rec, httptest.NewRequest(http.MethodPost, "/", nil), "tok", domain.User{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := r.Resolve(withCookies(t, rec)); err != ErrExpired {
		t.Fatalf("want ErrExpired, got %v", err)
	}
	// Expired sessions are pruned; a second resolve sees nothing at all.
	if _, err := r.Resolve(withCookies(t, rec)); err != ErrNotFound {
		t.Fatalf("want ErrNotFound after prune, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	r := NewRegistry("test-key-0123456789abcdef", time.Hour)
	rec := httptest.NewRecorder()
	if _, err := r.Create(rec, httptest.NewRequest(http.MethodPost, "/", nil), "tok", domain.User{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out := httptest.NewRecorder()
	if err := r.Destroy(out, withCookies(t, rec)); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := r.Resolve(withCookies(t, rec)); err == nil {
		t.Fatal("session should be gone after destroy")
	}
}
