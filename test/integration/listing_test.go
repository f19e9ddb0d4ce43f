package integration

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
)

type sortView struct {
	Attribute string `json:"attribute"`
	Direction string `json:"direction"`
}

type userPage struct {
	Name  string `json:"name"`
	Items []struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"items"`
	Total       int64    `json:"total"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	TotalPages  int      `json:"total_pages"`
	Sort        sortView `json:"sort"`
	PageClamped bool     `json:"page_clamped"`
}

type filterPage struct {
	Name  string `json:"name"`
	Items []struct {
		Title        string `json:"title"`
		CdmUserCount int64  `json:"cdm_user_count"`
		Author       *struct {
			Email string `json:"email"`
		} `json:"author"`
	} `json:"items"`
	Total int64    `json:"total"`
	Sort  sortView `json:"sort"`
}

type dashboardData struct {
	Listings []struct {
		Name     string   `json:"name"`
		Total    int64    `json:"total"`
		Page     int      `json:"page"`
		PageSize int      `json:"page_size"`
		Sort     sortView `json:"sort"`
	} `json:"listings"`
}

func listingURL(base, name string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return base + "/api/v1/admin/" + name + "?" + q.Encode()
}

func TestUsersListingSortAndPage(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 12})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	resp, env := doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "users", map[string]string{
		"users[sort][email]": "asc",
		"users[page]":        "2",
		"users[per_page]":    "5",
	}), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("users listing failed: status=%d", resp.StatusCode)
	}
	var page userPage
	decodeData(t, env, &page)
	if page.Total != 13 || page.TotalPages != 3 || page.Page != 2 || page.PageSize != 5 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
	if page.Sort.Attribute != "email" || page.Sort.Direction != "asc" {
		t.Fatalf("unexpected sort: %+v", page.Sort)
	}
	for i, item := range page.Items {
		want := fmt.Sprintf("demo%03d@example.com", i+5)
		if item.Email != want {
			t.Fatalf("item %d: got %s want %s", i, item.Email, want)
		}
	}
}

func TestUsersListingClampsPastLastPage(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 12})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	_, env := doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "users", map[string]string{
		"users[sort][email]": "desc",
		"users[page]":        "99",
		"users[per_page]":    "5",
	}), nil)
	var page userPage
	decodeData(t, env, &page)
	if page.Page != 3 || !page.PageClamped || len(page.Items) != 3 {
		t.Fatalf("expected clamp to page 3 with 3 items, got %+v", page)
	}
	if page.Items[2].Email != adminEmail {
		t.Fatalf("expected admin last in email desc order, got %s", page.Items[2].Email)
	}
}

func TestListingFallsBackToDefaultSort(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 3})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	_, env := doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "reports", map[string]string{
		"reports[sort][password_hash]": "asc",
		"reports[page]":                "-4",
	}), nil)
	var page userPage
	decodeData(t, env, &page)
	if page.Sort.Attribute != "updated" || page.Sort.Direction != "desc" {
		t.Fatalf("expected default sort, got %+v", page.Sort)
	}
	if page.Page != 1 || page.Total != 3 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}

func TestFiltersListingSortsByCountAndAuthor(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 12})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	_, env := doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "filters", map[string]string{
		"filters[sort][cdm_user_count]": "desc",
	}), nil)
	var page filterPage
	decodeData(t, env, &page)
	if page.Total != 12 || len(page.Items) != 10 {
		t.Fatalf("unexpected page: total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Title != "Demo filter 012" {
		t.Fatalf("expected highest count first, got %s", page.Items[0].Title)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].CdmUserCount < page.Items[i].CdmUserCount {
			t.Fatalf("items not in descending count order at %d", i)
		}
	}

	_, env = doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "filters", map[string]string{
		"filters[sort_by]":    "author",
		"filters[sort_order]": "asc",
	}), nil)
	decodeData(t, env, &page)
	if page.Sort.Attribute != "author" || page.Items[0].Author == nil || page.Items[0].Author.Email != "demo001@example.com" {
		t.Fatalf("expected author sort starting at demo001, got %+v", page)
	}
}

func TestDashboardBuildsEveryListingFromOneQuery(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 4})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	resp, env := doJSON(t, ts.Client, http.MethodGet, ts.URL+"/api/v1/admin/dashboard?"+url.Values{
		"users[sort][sign_in_count]": {"asc"},
		"reports[per_page]":          {"2"},
	}.Encode(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard failed: status=%d", resp.StatusCode)
	}
	var dash dashboardData
	decodeData(t, env, &dash)
	if len(dash.Listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(dash.Listings))
	}
	byName := map[string]int{}
	for i, l := range dash.Listings {
		byName[l.Name] = i
	}
	users := dash.Listings[byName["users"]]
	if users.Sort.Attribute != "sign_in_count" || users.Total != 5 {
		t.Fatalf("unexpected users listing: %+v", users)
	}
	filters := dash.Listings[byName["filters"]]
	if filters.Sort.Attribute != "updated" || filters.PageSize != 10 {
		t.Fatalf("filters listing should be untouched by other namespaces: %+v", filters)
	}
	if dash.Listings[byName["reports"]].PageSize != 2 {
		t.Fatalf("reports per_page not applied: %+v", dash.Listings[byName["reports"]])
	}
}

func TestNonAdminIsForbidden(t *testing.T) {
	ts := newTestServer(t, testServerOptions{demoUsers: 2})
	createUser(t, ts.DB, "member@example.com", domain.RoleUser, "Member#Pass1234")
	login(t, ts.Client, ts.URL, "member@example.com", "Member#Pass1234")

	for _, path := range []string{"users", "filters", "reports", "dashboard"} {
		resp, env := doJSON(t, ts.Client, http.MethodGet, ts.URL+"/api/v1/admin/"+path, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "FORBIDDEN" {
			t.Fatalf("%s: unexpected error body %#v", path, env.Error)
		}
	}
}

func TestEmptyListing(t *testing.T) {
	ts := newTestServer(t, testServerOptions{})
	login(t, ts.Client, ts.URL, adminEmail, adminPassword)

	_, env := doJSON(t, ts.Client, http.MethodGet, listingURL(ts.URL, "reports", map[string]string{"reports[page]": "3"}), nil)
	var page userPage
	decodeData(t, env, &page)
	if page.Total != 0 || page.Page != 1 || page.TotalPages != 0 || page.Items == nil {
		t.Fatalf("unexpected empty listing: %+v", page)
	}
}
