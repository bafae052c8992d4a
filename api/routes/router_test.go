package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/synergyrm/rm-copilot/internal/collector"
	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/internal/recommendations"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRedis struct {
	stubPinger
	hits int64
}

func (s *stubRedis) FixedWindowAllow(_ context.Context, _ string, limit int64, _ time.Duration) (bool, int64, error) {
	s.hits++
	return s.hits <= limit, s.hits, nil
}

type stubAlerts struct{}

func (stubAlerts) Current(context.Context) ([]performance.Alert, error) { return nil, nil }
func (stubAlerts) Scan(context.Context) ([]performance.Alert, error)    { return nil, nil }

type stubWorkflow struct{}

func (stubWorkflow) Suggest(_ context.Context, id int64) (*recommendations.SuggestResult, error) {
	return &recommendations.SuggestResult{ListingID: id}, nil
}

func (stubWorkflow) Apply(_ context.Context, id int64) (*models.AIRecommendation, error) {
	return &models.AIRecommendation{ID: id}, nil
}

type stubCollector struct{}

func (stubCollector) Run(context.Context) (collector.Result, error) {
	return collector.Result{Listings: 1, NightlyRows: 30}, nil
}

func (stubCollector) SyncListings(context.Context) (collector.SyncResult, error) {
	return collector.SyncResult{Synced: 1, Total: 1}, nil
}

func newTestRouter(t *testing.T, redis *stubRedis) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App:            config.AppConfig{Env: "test"},
		AdminRateLimit: config.AdminRateLimitConfig{Window: time.Minute, Limit: 2},
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)
	m.IncSuccess("data-collection")
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, redis, reg, nil, stubAlerts{}, stubWorkflow{}, nil, stubCollector{})
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, &stubRedis{})

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "rm_copilot_cron_job_success_total") {
		t.Fatalf("expected registered metrics exposed")
	}
}

func TestRouterWiresAPIRoutes(t *testing.T) {
	router := newTestRouter(t, &stubRedis{})

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/alerts", "", http.StatusOK},
		{http.MethodPost, "/api/ai/suggest", `{"listingId":3}`, http.StatusCreated},
		{http.MethodPost, "/api/ai/apply/8", "", http.StatusOK},
		{http.MethodPost, "/api/ai/apply/zero", "", http.StatusBadRequest},
		// listings and actions services are not wired in this router
		{http.MethodGet, "/api/dashboard", "", http.StatusInternalServerError},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		var body io.Reader
		if tc.body != "" {
			body = strings.NewReader(tc.body)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, body))
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestRouterThrottlesAdminRoutes(t *testing.T) {
	redis := &stubRedis{}
	router := newTestRouter(t, redis)

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/refreshNow", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("non-admin routes must not be throttled, got %d", rec.Code)
	}
}
