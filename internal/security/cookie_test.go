package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewCookieManagerSameSiteMapping(t *testing.T) {
	if got := NewCookieManager("", true, "strict").SameSite; got != http.SameSiteStrictMode {
		t.Fatalf("strict mapping mismatch: %v", got)
	}
	if got := NewCookieManager("", true, "none").SameSite; got != http.SameSiteNoneMode {
		t.Fatalf("none mapping mismatch: %v", got)
	}
	if got := NewCookieManager("", true, "unexpected").SameSite; got != http.SameSiteLaxMode {
		t.Fatalf("default mapping mismatch: %v", got)
	}
}

func TestCookieManagerSetAccessCookieFlags(t *testing.T) {
	mgr := NewCookieManager("example.com", true, "strict")
	rr := httptest.NewRecorder()
	mgr.SetAccessCookie(rr, "a", 15*time.Minute)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	access := cookies[0]
	if access.Name != AccessTokenCookie || access.Path != "/" || !access.HttpOnly || !access.Secure || access.Domain != "example.com" || access.MaxAge != 900 {
		t.Fatalf("unexpected access cookie: %#v", access)
	}
	if access.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected access same-site: %v", access.SameSite)
	}
}

func TestCookieManagerClearAccessCookie(t *testing.T) {
	mgr := NewCookieManager("example.com", false, "lax")
	rr := httptest.NewRecorder()
	mgr.ClearAccessCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cleared cookie, got %d", len(cookies))
	}
	if c := cookies[0]; c.MaxAge != -1 || c.Value != "" || c.Name != AccessTokenCookie {
		t.Fatalf("expected cleared access cookie, got %#v", c)
	}
}

func TestGetCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "x"})

	if got := GetCookie(req, AccessTokenCookie); got != "x" {
		t.Fatalf("unexpected cookie value %q", got)
	}
	if got := GetCookie(req, "missing"); got != "" {
		t.Fatalf("expected empty cookie value for missing cookie, got %q", got)
	}
}
