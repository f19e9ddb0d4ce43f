package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

type Config struct {
	BaseURL     string
	Token       string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
}

// sortable lists, per dashboard, the sort attributes a browsing admin clicks.
var sortable = map[string][]string{
	"users":   {"email", "role", "last_seen", "sign_in_count", "current_sign_in_ip", "updated_at"},
	"filters": {"title", "description", "type", "cdm_user_count", "author", "created", "updated"},
	"reports": {"title", "description", "author", "created", "updated"},
}

var listingNames = []string{"users", "filters", "reports"}

// MaxRPS bounds the request rate so the ticker interval stays positive.
const MaxRPS = 10000

// Run replays listing traffic against a running API until cfg.Duration
// elapses or ctx is cancelled.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.RPS > MaxRPS {
		return Result{}, fmt.Errorf("rps %d exceeds maximum %d", cfg.RPS, MaxRPS)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	next, err := pathGenerator(cfg.Profile, cfg.Seed)
	if err != nil {
		return Result{}, err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx atomic.Int64
	jobs := make(chan string, cfg.Concurrency*2)
	var wg sync.WaitGroup

	for range cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+path, nil)
				if err != nil {
					failures.Add(1)
					continue
				}
				if cfg.Token != "" && !strings.HasPrefix(path, "/anonymous") {
					req.Header.Set("Authorization", "Bearer "+cfg.Token)
				}
				req.URL.Path = strings.TrimPrefix(req.URL.Path, "/anonymous")
				resp, err := client.Do(req)
				if err != nil {
					failures.Add(1)
					continue
				}
				_ = resp.Body.Close()
				total.Add(1)
				switch {
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					s2xx.Add(1)
				case resp.StatusCode >= 400 && resp.StatusCode < 500:
					s4xx.Add(1)
				case resp.StatusCode >= 500:
					s5xx.Add(1)
				}
			}
		}()
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return Result{
				TotalRequests: total.Load(),
				Failures:      failures.Load(),
				Status2xx:     s2xx.Load(),
				Status4xx:     s4xx.Load(),
				Status5xx:     s5xx.Load(),
			}, nil
		case <-ticker.C:
			select {
			case jobs <- next():
			case <-ctx.Done():
			}
		}
	}
}

// pathGenerator returns a deterministic request path sequence for profile.
// Paths prefixed with /anonymous are sent without credentials.
func pathGenerator(profile string, seed int64) (func() string, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	switch strings.ToLower(profile) {
	case "", "mixed":
		return func() string {
			switch rng.IntN(10) {
			case 0:
				return "/health/ready"
			case 1, 2, 3:
				return dashboardPath(rng)
			default:
				return listingPath(rng, listingNames[rng.IntN(len(listingNames))])
			}
		}, nil
	case "browse":
		return func() string { return listingPath(rng, listingNames[rng.IntN(len(listingNames))]) }, nil
	case "dashboard":
		return func() string { return dashboardPath(rng) }, nil
	case "error-heavy":
		return func() string {
			switch rng.IntN(4) {
			case 0:
				return "/anonymous" + listingPath(rng, "users")
			case 1:
				return "/api/v1/admin/unknown"
			case 2:
				return "/api/v1/admin/filters?filters[page]=-3&filters[sort][bogus]=sideways"
			default:
				return "/api/v1/admin/reports?reports[per_page]=100000&reports[page]=99999"
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown profile: %s", profile)
	}
}

func listingPath(rng *rand.Rand, name string) string {
	q := url.Values{}
	addListingParams(rng, q, name)
	return "/api/v1/admin/" + name + "?" + q.Encode()
}

func dashboardPath(rng *rand.Rand) string {
	q := url.Values{}
	for _, name := range listingNames {
		if rng.IntN(2) == 0 {
			addListingParams(rng, q, name)
		}
	}
	return "/api/v1/admin/dashboard?" + q.Encode()
}

func addListingParams(rng *rand.Rand, q url.Values, name string) {
	attrs := sortable[name]
	dir := "asc"
	if rng.IntN(2) == 0 {
		dir = "desc"
	}
	q.Set(name+"[sort]["+attrs[rng.IntN(len(attrs))]+"]", dir)
	q.Set(name+"[page]", strconv.Itoa(1+rng.IntN(5)))
	if rng.IntN(3) == 0 {
		q.Set(name+"[per_page]", strconv.Itoa([]int{10, 20, 50}[rng.IntN(3)]))
	}
}

// Login exchanges credentials for an access token using the API's login
// endpoint. The token is read from the access cookie the endpoint sets.
func Login(ctx context.Context, baseURL, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == security.AccessTokenCookie && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", errors.New("login response carried no access token")
}
