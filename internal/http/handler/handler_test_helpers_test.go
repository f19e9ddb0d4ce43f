package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func withClaims(req *http.Request, subject string) *http.Request {
	claims := &security.Claims{Email: "ops@example.com", Role: "admin"}
	claims.Subject = subject
	claims.ID = "jti-" + subject
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey, claims))
}
