package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prPMDev/elevateli/internal/config"
	"github.com/prPMDev/elevateli/internal/pipeline"
)

const profileHTML = `<html><body>
<h1>Jane Doe</h1>
<main>
  <div class="ph5"><div class="text-body-medium break-words">Staff Engineer building data platforms that scale</div></div>
  <section><div id="about"></div><div><span aria-hidden="true">A summary of a long career.</span></div></section>
</main>
</body></html>`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyze_CompletesFromHTML(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := postJSON(t, ts.URL+"/api/analyze", analyzeRequest{
		ProfileHTML: profileHTML,
		ProfileID:   "jane-doe",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var accepted map[string]string
	decodeBody(t, resp, &accepted)
	require.NotEmpty(t, accepted["run_id"])

	var run Run
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("%s/api/runs/%s", ts.URL, accepted["run_id"]))
		if err != nil {
			return false
		}
		decodeBody(t, resp, &run)
		return run.Status == pipeline.StateComplete
	}, 5*time.Second, 20*time.Millisecond)

	require.NotNil(t, run.Result)
	assert.Equal(t, "jane-doe", run.Result.ProfileID)
	assert.NotNil(t, run.Result.Completeness)
	assert.NotEmpty(t, run.Events)
}

func TestAnalyze_Validation(t *testing.T) {
	ts := newTestServer(t, Config{})

	cases := []analyzeRequest{
		{}, // neither input
		{ProfileHTML: "<html></html>", ProfileURL: "https://www.linkedin.com/in/jane/"}, // both
		{ProfileURL: "https://www.linkedin.com/company/initech/"},                       // not a profile
		{ProfileHTML: "<html></html>"},                                                  // html without profile_id
	}
	for i, req := range cases {
		resp := postJSON(t, ts.URL+"/api/analyze", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "case %d", i)
		resp.Body.Close()
	}
}

func TestGetRun_NotFound(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/api/runs/00000000-0000-0000-0000-000000000001")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/runs/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRuns(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := postJSON(t, ts.URL+"/api/analyze", analyzeRequest{ProfileHTML: profileHTML, ProfileID: "jane-doe"})
	resp.Body.Close()

	listResp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	var runs []Run
	decodeBody(t, listResp, &runs)
	assert.Len(t, runs, 1)
	assert.Equal(t, "jane-doe", runs[0].ProfileID)
}

func TestInvalidateCache(t *testing.T) {
	ts := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/cache/jane-doe", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "invalidated", body["status"])
}

func TestAuth_ProtectsAPIWhenConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	passwords, err := config.NewPasswordConfig()
	require.NoError(t, err)
	hash, err := passwords.HashPassword("hunter2")
	require.NoError(t, err)

	ts := newTestServer(t, Config{OperatorHash: hash})

	// No token: rejected.
	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong password: rejected.
	resp = postJSON(t, ts.URL+"/api/auth/token", tokenRequest{Password: "wrong"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Right password: token issued.
	resp = postJSON(t, ts.URL+"/api/auth/token", tokenRequest{Password: "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token tokenResponse
	decodeBody(t, resp, &token)
	require.NotEmpty(t, token.Token)

	// Token grants access.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/runs", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Health stays public.
	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	claims := &Claims{}
	token, err := svc.GenerateToken(claims.SessionID)
	require.NoError(t, err)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, parsed.SessionID)
}

func TestJWTService_RejectsForgedToken(t *testing.T) {
	issuer := NewJWTService(&config.JWTConfig{Secret: "secret-a", ExpirationHours: 1})
	verifier := NewJWTService(&config.JWTConfig{Secret: "secret-b", ExpirationHours: 1})

	token, err := issuer.GenerateToken(Claims{}.SessionID)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	_, err = verifier.ValidateToken("")
	assert.Error(t, err)

	_, err = verifier.ValidateToken("not.a.token")
	assert.Error(t, err)
}
