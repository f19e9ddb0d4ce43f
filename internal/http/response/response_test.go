package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONWrapsDataInSuccessEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rr := httptest.NewRecorder()

	JSON(rr, req, http.StatusOK, map[string]int{"total": 3})

	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected status/content-type: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Meta    Meta           `json:"meta"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data["total"] != 3 || env.Meta.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestErrorEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	Error(rr, req, http.StatusForbidden, "FORBIDDEN", "insufficient permission", map[string]string{"required": "users:administer"})

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	var env map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env["success"] != false {
		t.Fatalf("expected success=false, got %v", env["success"])
	}
	errObj, _ := env["error"].(map[string]any)
	if errObj["code"] != "FORBIDDEN" {
		t.Fatalf("unexpected error object: %v", errObj)
	}
	if _, ok := env["data"]; ok {
		t.Fatal("did not expect data on error envelope")
	}
	if _, ok := env["meta"]; ok {
		t.Fatal("did not expect meta without request id")
	}
}
