package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"matchdeck/internal/api"
	"matchdeck/internal/config"
	"matchdeck/internal/entry"
	"matchdeck/internal/match"
	"matchdeck/internal/metrics"
	"matchdeck/internal/server"
	"matchdeck/internal/store"
	"matchdeck/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*httptest.Server, *store.Store, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	srv := server.New(cfg, st, metrics.NewCollector(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st, cfg
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var payload T
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestListMatchesEndpoint(t *testing.T) {
	ts, st, _ := newTestServer(t)
	testsupport.SeedMatch(t, st, "top.mkv", 95, match.StatusMatched)
	testsupport.SeedMatch(t, st, "mid.mkv", 60, match.StatusPossible)

	resp, err := http.Get(ts.URL + "/api/matches?page=1&limit=20&status=POSSIBLE")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	payload := decode[api.MatchListResponse](t, resp)
	if payload.Total != 1 || payload.Items[0].NASFilename != "mid.mkv" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestListMatchesRejectsUnknownStatus(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/matches?status=BOGUS")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/matches/999")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	payload := decode[api.ErrorResponse](t, resp)
	if payload.Error != "match not found" {
		t.Fatalf("error = %q", payload.Error)
	}
}

func TestPatchMatchTransitions(t *testing.T) {
	ts, st, _ := newTestServer(t)
	seeded := testsupport.SeedMatch(t, st, "file.mkv", 80, match.StatusLikely)

	body, _ := json.Marshal(map[string]string{"match_status": "VERIFIED"})
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/matches/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	payload := decode[api.Match](t, resp)
	if payload.ID != seeded.ID || payload.MatchStatus != "VERIFIED" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.VerifiedAt == "" {
		t.Fatal("reviewer transition missing verified_at stamp")
	}
}

func TestBulkUpdateRejectsEmptyIDs(t *testing.T) {
	ts, _, _ := newTestServer(t)

	body, _ := json.Marshal(api.BulkUpdateRequest{IDs: nil, Status: "VERIFIED"})
	resp, err := http.Post(ts.URL+"/api/matches/bulk-update", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	payload := decode[api.ErrorResponse](t, resp)
	if payload.Error != "no ids provided" {
		t.Fatalf("error = %q", payload.Error)
	}
}

func TestBulkUpdateTransitionsRows(t *testing.T) {
	ts, st, _ := newTestServer(t)
	a := testsupport.SeedMatch(t, st, "a.mkv", 70, match.StatusLikely)
	b := testsupport.SeedMatch(t, st, "b.mkv", 75, match.StatusLikely)

	body, _ := json.Marshal(api.BulkUpdateRequest{IDs: []int64{a.ID, b.ID}, Status: "UPLOAD_PLANNED"})
	resp, err := http.Post(ts.URL+"/api/matches/bulk-update", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	payload := decode[api.BulkUpdateResponse](t, resp)
	if payload.Updated != 2 || payload.Status != "UPLOAD_PLANNED" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestVerifyBatchEndpointIsIdempotent(t *testing.T) {
	ts, st, _ := newTestServer(t)
	a := testsupport.SeedEntry(t, st, "Event A", 80, entry.TypeExact)
	b := testsupport.SeedEntry(t, st, "Event B", 70, entry.TypePartial)

	post := func() api.VerifyBatchResponse {
		t.Helper()
		body, _ := json.Marshal(api.VerifyBatchRequest{EntryIDs: []int64{a.ID, b.ID}, VerifiedBy: "alex"})
		resp, err := http.Post(ts.URL+"/api/entries/verify-batch", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		return decode[api.VerifyBatchResponse](t, resp)
	}

	first := post()
	if first.VerifiedCount != 2 || first.TotalRequested != 2 {
		t.Fatalf("first = %+v", first)
	}
	second := post()
	if second.VerifiedCount != 0 || second.TotalRequested != 2 {
		t.Fatalf("second = %+v", second)
	}
}

func TestAuthMiddleware(t *testing.T) {
	ts, _, _ := newTestServer(t, testsupport.WithAPIToken("hunter2"))

	resp, err := http.Get(ts.URL + "/api/matches")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/matches", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// Health stays open for probes.
	resp, err = http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}

func TestScoreDistributionEndpoint(t *testing.T) {
	ts, st, _ := newTestServer(t)
	testsupport.SeedMatch(t, st, "a.mkv", 5, match.StatusNotUploaded)
	testsupport.SeedMatch(t, st, "b.mkv", 97, match.StatusMatched)

	resp, err := http.Get(ts.URL + "/api/stats/score-distribution?bins=5")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	payload := decode[api.ScoreDistribution](t, resp)
	if len(payload.Bins) != 5 || payload.Counts[0] != 1 || payload.Counts[4] != 1 {
		t.Fatalf("payload = %+v", payload)
	}

	resp, err = http.Get(ts.URL + "/api/stats/score-distribution?bins=0")
	if err != nil {
		t.Fatalf("GET bad bins: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatsSummaryEndpoint(t *testing.T) {
	ts, st, _ := newTestServer(t)
	testsupport.SeedMatch(t, st, "a.mkv", 95, match.StatusMatched)
	testsupport.SeedMatch(t, st, "b.mkv", 20, match.StatusNotUploaded)

	resp, err := http.Get(ts.URL + "/api/stats/summary")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	payload := decode[api.StatsSummary](t, resp)
	if payload.Total != 2 || payload.MatchRate != 50.0 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestStatsSummaryServedFromCacheUntilMutation(t *testing.T) {
	ts, st, _ := newTestServer(t)
	testsupport.SeedMatch(t, st, "a.mkv", 95, match.StatusMatched)

	fetch := func() api.StatsSummary {
		t.Helper()
		resp, err := http.Get(ts.URL + "/api/stats/summary")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		return decode[api.StatsSummary](t, resp)
	}

	if got := fetch().Total; got != 1 {
		t.Fatalf("total = %d, want 1", got)
	}

	// A row inserted behind the API's back stays invisible while the cached
	// aggregate is fresh.
	seeded := testsupport.SeedMatch(t, st, "b.mkv", 60, match.StatusPossible)
	if got := fetch().Total; got != 1 {
		t.Fatalf("total = %d, want cached 1", got)
	}

	// Any mutation through the API drops the cached aggregates.
	body, _ := json.Marshal(map[string]string{"match_status": "VERIFIED"})
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/matches/"+strconv.FormatInt(seeded.ID, 10), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	resp.Body.Close()

	if got := fetch().Total; got != 2 {
		t.Fatalf("total = %d, want 2 after mutation", got)
	}
}

func TestExportCSV(t *testing.T) {
	ts, st, _ := newTestServer(t)
	testsupport.SeedMatch(t, st, "file.mkv", 88, match.StatusMatched)

	resp, err := http.Get(ts.URL + "/api/export/report?format=csv")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("content type = %q", got)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(buf.String(), "file.mkv") {
		t.Fatalf("csv = %q", buf.String())
	}
}

func TestExportNotUploadedCarriesEveryRow(t *testing.T) {
	ts, st, _ := newTestServer(t)

	// More rows than the stats breakdown samples per directory. The download
	// must not be clipped to that sample.
	for i := 0; i < 7; i++ {
		testsupport.SeedMatch(t, st, "old.mkv", 10, match.StatusNotUploaded)
	}
	testsupport.SeedMatch(t, st, "done.mkv", 95, match.StatusMatched)

	resp, err := http.Get(ts.URL + "/api/export/not-uploaded?format=csv")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("csv has %d lines, want header plus 7 rows", len(lines))
	}
	if strings.Contains(buf.String(), "done.mkv") {
		t.Fatal("matched row leaked into not-uploaded export")
	}

	jsonResp, err := http.Get(ts.URL + "/api/export/not-uploaded?format=json")
	if err != nil {
		t.Fatalf("GET json: %v", err)
	}
	payload := decode[[]api.Match](t, jsonResp)
	if len(payload) != 7 {
		t.Fatalf("json rows = %d, want 7", len(payload))
	}
}

func TestExportUnknownReport(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/export/bogus")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, st, cfg := newTestServer(t)
	testsupport.SeedMatch(t, st, "a.mkv", 50, match.StatusPossible)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	payload := decode[api.Health](t, resp)
	if payload.Status != "ok" || payload.TotalMatches != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.DBPath != cfg.DatabasePath() {
		t.Fatalf("db path = %q", payload.DBPath)
	}
}
