package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/chat-relay-api/api"
	"github.com/linesmerrill/chat-relay-api/api/handlers"
	"github.com/linesmerrill/chat-relay-api/config"
	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/databases/embedded"
	"github.com/linesmerrill/chat-relay-api/models"
)

func testConfig() config.Config {
	return config.Config{
		StoreDriver:         config.StoreBadger,
		ReaperPeriod:        15 * time.Second,
		InactivityThreshold: 10 * time.Second,
		DefaultMessageLimit: 100,
		QueryTimeout:        10 * time.Second,
		SlowRequest:         time.Second,
		AllowedOrigins:      []string{"*"},
	}
}

func newTestApp(t *testing.T) (*handlers.App, http.Handler) {
	t.Helper()
	store, err := embedded.Open("")
	require.NoError(t, err)

	a := &handlers.App{Config: testConfig()}
	a.UseStore(store.Participants(), store.Messages())
	t.Cleanup(func() {
		_ = a.Close(context.Background())
		_ = store.Close()
	})
	return a, a.Handler()
}

func newMockedApp(t *testing.T, pdb databases.ParticipantDatabase, mdb databases.MessageDatabase) http.Handler {
	t.Helper()
	a := &handlers.App{Config: testConfig()}
	a.UseStore(pdb, mdb)
	return a.Handler()
}

func do(t *testing.T, h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set(api.UserHeader, user)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.MessageError {
	t.Helper()
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Response
}

func TestApp_RootHandler(t *testing.T) {
	_, h := newTestApp(t)

	rr := do(t, h, "GET", "/", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestApp_HealthCheckHandler(t *testing.T) {
	_, h := newTestApp(t)

	rr := do(t, h, "GET", "/health", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive":true}`, rr.Body.String())
}

func TestApp_CORS(t *testing.T) {
	_, h := newTestApp(t)

	req := httptest.NewRequest("GET", "/participants", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_UnknownRoute(t *testing.T) {
	_, h := newTestApp(t)

	rr := do(t, h, "DELETE", "/participants", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestApp_MetricsHandler(t *testing.T) {
	_, h := newTestApp(t)

	rr := do(t, h, "POST", "/participants", "", `{"name":"Ana"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(api.RequestIDHeader))
	do(t, h, "POST", "/participants", "", `{"name":"Ana"}`)
	do(t, h, "GET", "/messages", "Ana", "")

	rr = do(t, h, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var summary api.MetricsSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, int64(3), summary.TotalRequests)
	assert.Equal(t, int64(1), summary.TotalErrors)
	require.Len(t, summary.Routes, 2)
	assert.Equal(t, "/messages", summary.Routes[0].Path)
	assert.Equal(t, "POST", summary.Routes[1].Method)
	assert.Equal(t, int64(2), summary.Routes[1].Count)
	assert.Equal(t, int64(1), summary.Routes[1].ErrorCount)
}

func TestApp_ReaperEvictsOverHTTP(t *testing.T) {
	a, h := newTestApp(t)

	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/participants", "", `{"name":"Ana"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/participants", "", `{"name":"Bruno"}`).Code)

	later := time.Now().Add(11 * time.Second)
	a.Scheduler.Reaper.Clock = func() time.Time { return later }
	a.Scheduler.Reaper.Registry.Clock = func() time.Time { return later }
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/status", "Bruno", "").Code)
	a.Scheduler.Sweep()

	rr := do(t, h, "GET", "/participants", "", "")
	var participants []models.Participant
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participants))
	require.Len(t, participants, 1)
	assert.Equal(t, "Bruno", participants[0].Name)

	rr = do(t, h, "GET", "/messages?limit=1", "Bruno", "")
	var messages []models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, models.Message{From: "Ana", To: models.Broadcast, Text: models.StatusLeft, Type: models.MessageTypeStatus, Time: messages[0].Time}, messages[0])

	assert.Equal(t, int64(1), a.Metrics.Summary().Reaper.Evictions)
}
