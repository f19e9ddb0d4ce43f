package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAuditTaxonomyForListingEndpoints(t *testing.T) {
	var logBuf syncBuffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() {
		slog.SetDefault(previous)
	})

	ts := newTestServer(t, testServerOptions{demoUsers: 2})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	resp, _ := doJSON(t, ts.Client, http.MethodGet, ts.URL+"/api/v1/admin/filters", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("filters listing failed: status=%d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts.Client, http.MethodGet, ts.URL+"/api/v1/admin/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard failed: status=%d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts.Client, http.MethodPost, ts.URL+"/api/v1/auth/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed: status=%d", resp.StatusCode)
	}

	member := ts.Client
	createUser(t, ts.DB, "member@example.com", domain.RoleUser, "Member#Pass1234")
	login(t, member, ts.URL, "member@example.com", "Member#Pass1234")
	resp, _ = doJSON(t, member, http.MethodGet, ts.URL+"/api/v1/admin/dashboard", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected member dashboard 403, got %d", resp.StatusCode)
	}

	events := parseAuditEvents(t, logBuf.String())
	if len(events) == 0 {
		t.Fatal("expected audit events, found none")
	}
	for _, event := range events {
		assertAuditRequiredFields(t, event)
	}

	assertAuditEventOutcome(t, events, "auth.login", "success")
	assertAuditEventOutcome(t, events, "admin.listing.viewed", "success")
	assertAuditEventOutcome(t, events, "auth.logout", "success")
	assertAuditEventOutcome(t, events, "admin.dashboard.viewed", "denied")
}

func parseAuditEvents(t *testing.T, logs string) []map[string]any {
	t.Helper()
	events := make([]map[string]any, 0)
	scanner := bufio.NewScanner(strings.NewReader(logs))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if msg, _ := entry["msg"].(string); msg == "audit" {
			events = append(events, entry)
		}
	}
	return events
}

func assertAuditRequiredFields(t *testing.T, event map[string]any) {
	t.Helper()
	required := []string{
		"event_name", "event_version", "actor_user_id", "actor_ip", "target_type", "target_id",
		"action", "outcome", "reason", "request_id",
	}
	for _, key := range required {
		v, ok := event[key]
		if !ok {
			t.Fatalf("missing required audit field %q in event %#v", key, event)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" && key != "request_id" {
			t.Fatalf("empty required audit field %q in event %#v", key, event)
		}
	}
}

func assertAuditEventOutcome(t *testing.T, events []map[string]any, eventName, outcome string) {
	t.Helper()
	for _, event := range events {
		gotEventName, _ := event["event_name"].(string)
		gotOutcome, _ := event["outcome"].(string)
		if gotEventName == eventName && gotOutcome == outcome {
			return
		}
	}
	t.Fatalf("expected audit event_name=%q outcome=%q, got events=%#v", eventName, outcome, events)
}
