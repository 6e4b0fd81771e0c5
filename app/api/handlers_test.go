package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/verify"
)

type mockCollector struct {
	stored     int
	fake       int
	err        error
	configured bool
	calls      int
}

func (m *mockCollector) CollectOnce(context.Context) (int, int, error) {
	m.calls++
	return m.stored, m.fake, m.err
}

func (m *mockCollector) HasConfiguredSources() bool { return m.configured }

type mockClaimVerifier struct {
	result verify.Result
	err    error
}

func (m *mockClaimVerifier) VerifyClaim(context.Context, string) (verify.Result, error) {
	return m.result, m.err
}

type mockArticleReader struct {
	articles []database.CollectedArticle
	newest   *time.Time
	count    int
	deleted  int64
	lastDays int
}

func (m *mockArticleReader) GetRecent(limit int) ([]database.CollectedArticle, error) {
	if limit < len(m.articles) {
		return m.articles[:limit], nil
	}
	return m.articles, nil
}

func (m *mockArticleReader) NewestCollectedAt() (*time.Time, error) { return m.newest, nil }
func (m *mockArticleReader) Count() (int, error)                    { return m.count, nil }

func (m *mockArticleReader) DeleteOlderThan(days int) (int64, error) {
	m.lastDays = days
	return m.deleted, nil
}

type mockRunReader struct {
	runs []database.CollectionRun
}

func (m *mockRunReader) Latest() (*database.CollectionRun, error) {
	if len(m.runs) == 0 {
		return nil, nil
	}
	return &m.runs[0], nil
}

func (m *mockRunReader) Recent(int) ([]database.CollectionRun, error) { return m.runs, nil }

type mockClaimWriter struct {
	inserted []database.ClaimCheck
}

func (m *mockClaimWriter) Insert(c database.ClaimCheck) error {
	m.inserted = append(m.inserted, c)
	return nil
}

func (m *mockClaimWriter) Recent(limit int) ([]database.ClaimCheck, error) {
	if limit < len(m.inserted) {
		return m.inserted[:limit], nil
	}
	return m.inserted, nil
}

func newTestServer(coll *mockCollector, cv *mockClaimVerifier, articles *mockArticleReader,
	runs *mockRunReader, claims *mockClaimWriter, apiKey string) *httptest.Server {
	handler := NewHandler(coll, cv, articles, runs, claims)
	return httptest.NewServer(NewServer(handler, apiKey))
}

func TestCollectEndpoint(t *testing.T) {
	coll := &mockCollector{stored: 5, fake: 2, configured: true}
	server := newTestServer(coll, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/collect", nil)
	req.Header.Set("X-API-Key", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status       string `json:"status"`
		Stored       int    `json:"stored"`
		FakeDetected int    `json:"fake_detected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Stored != 5 || body.FakeDetected != 2 {
		t.Errorf("Unexpected response: %+v", body)
	}
	if coll.calls != 1 {
		t.Errorf("Expected 1 collector call, got %d", coll.calls)
	}
}

func TestCollectEndpointRequiresAPIKey(t *testing.T) {
	coll := &mockCollector{configured: true}
	server := newTestServer(coll, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/collect", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", resp.StatusCode)
	}
	if coll.calls != 0 {
		t.Errorf("Expected collector never called, got %d", coll.calls)
	}
}

func TestCollectEndpointAcceptsBearerToken(t *testing.T) {
	coll := &mockCollector{configured: true}
	server := newTestServer(coll, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/collect", nil)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", resp.StatusCode)
	}
}

func TestCollectEndpointNoSourcesConfigured(t *testing.T) {
	server := newTestServer(&mockCollector{configured: false}, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/collect", nil)
	req.Header.Set("X-API-Key", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without configured sources, got %d", resp.StatusCode)
	}
}

func TestCollectEndpointFailure(t *testing.T) {
	coll := &mockCollector{configured: true, err: fmt.Errorf("store unavailable")}
	server := newTestServer(coll, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/collect", nil)
	req.Header.Set("X-API-Key", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 on collection failure, got %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	newest := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	runs := &mockRunReader{runs: []database.CollectionRun{{
		RunAt:             newest,
		ArticlesFetched:   10,
		ArticlesStored:    7,
		DuplicatesSkipped: 2,
		FakeDetected:      1,
	}}}

	server := newTestServer(&mockCollector{configured: true}, &mockClaimVerifier{},
		&mockArticleReader{count: 42, newest: &newest}, runs, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body["articles"].(float64) != 42 {
		t.Errorf("Expected 42 articles, got %v", body["articles"])
	}
	lastRun, ok := body["last_run"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected last_run in response")
	}
	if lastRun["articles_stored"].(float64) != 7 {
		t.Errorf("Expected 7 stored in last run, got %v", lastRun["articles_stored"])
	}
}

func TestRecordsEndpoint(t *testing.T) {
	articles := &mockArticleReader{articles: []database.CollectedArticle{{
		Headline:    "Stored headline",
		URL:         "https://example.com/a",
		Verdict:     "REAL NEWS",
		Confidence:  83,
		Impacts:     `[{"icon":"📚","title":"Educates Citizens","description":"d"}]`,
		CollectedAt: time.Now().UTC(),
	}}}

	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, articles, &mockRunReader{}, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/records")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Records []map[string]interface{} `json:"records"`
		Total   int                      `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body.Total != 1 {
		t.Fatalf("Expected 1 record, got %d", body.Total)
	}
	if body.Records[0]["headline"] != "Stored headline" {
		t.Errorf("Unexpected record: %+v", body.Records[0])
	}
	if _, ok := body.Records[0]["impacts"]; !ok {
		t.Error("Expected impacts decoded into the response")
	}
}

func TestRecordsEndpointInvalidLimit(t *testing.T) {
	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/records?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid limit, got %d", resp.StatusCode)
	}
}

func TestPruneEndpoint(t *testing.T) {
	articles := &mockArticleReader{deleted: 12}
	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, articles, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/prune", strings.NewReader(`{"days": 30}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Deleted != 12 {
		t.Errorf("Expected 12 deleted, got %d", body.Deleted)
	}
	if articles.lastDays != 30 {
		t.Errorf("Expected prune days 30, got %d", articles.lastDays)
	}
}

func TestPruneEndpointRejectsNonPositiveDays(t *testing.T) {
	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "secret")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/prune", strings.NewReader(`{"days": 0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for zero days, got %d", resp.StatusCode)
	}
}

func TestCheckClaimEndpoint(t *testing.T) {
	cv := &mockClaimVerifier{result: verify.Result{
		Verdict:     verify.VerdictFakeNews,
		Confidence:  88,
		Explanation: "ML prediction based on model confidence of 88.00%",
		ClaimType:   "GENERAL",
	}}
	claims := &mockClaimWriter{}

	server := newTestServer(&mockCollector{}, cv, &mockArticleReader{}, &mockRunReader{}, claims, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/check", "application/json",
		strings.NewReader(`{"claim": "Drinking bleach cures every disease"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Verdict string  `json:"verdict"`
		IsFake  bool    `json:"is_fake"`
		Conf    float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Verdict != string(verify.VerdictFakeNews) || !body.IsFake {
		t.Errorf("Unexpected response: %+v", body)
	}

	if len(claims.inserted) != 1 {
		t.Fatalf("Expected 1 persisted claim check, got %d", len(claims.inserted))
	}
	if !claims.inserted[0].IsFake {
		t.Error("Expected persisted check flagged fake")
	}
	if claims.inserted[0].ClientIP == "" {
		t.Error("Expected client IP recorded")
	}
}

func TestCheckClaimEndpointRequiresClaim(t *testing.T) {
	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, &mockArticleReader{}, &mockRunReader{}, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/check", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing claim, got %d", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	runs := &mockRunReader{runs: []database.CollectionRun{
		{RunAt: time.Now().UTC(), ArticlesFetched: 10, ArticlesStored: 7, DuplicatesSkipped: 2, FakeDetected: 1},
		{RunAt: time.Now().UTC().Add(-time.Hour), ArticlesFetched: 8, ArticlesStored: 5, DuplicatesSkipped: 3, FakeDetected: 0},
	}}

	server := newTestServer(&mockCollector{}, &mockClaimVerifier{}, &mockArticleReader{}, runs, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Runs   []map[string]interface{} `json:"runs"`
		Totals map[string]float64       `json:"totals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if len(body.Runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(body.Runs))
	}
	if body.Totals["articles_stored"] != 12 {
		t.Errorf("Expected 12 total stored, got %v", body.Totals["articles_stored"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&mockCollector{configured: true}, &mockClaimVerifier{},
		&mockArticleReader{count: 3}, &mockRunReader{}, &mockClaimWriter{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["articles"].(float64) != 3 {
		t.Errorf("Expected 3 articles, got %v", body["articles"])
	}
	if body["sources_configured"] != true {
		t.Errorf("Expected sources_configured true, got %v", body["sources_configured"])
	}
}
