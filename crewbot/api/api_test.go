package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/metrics"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

const (
	testGuild = "100"
	testToken = "secret"
)

type fixture struct {
	server *Server
	shifts *crew.ShiftTracker
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	f := &fixture{now: now}
	clock := crew.ClockFunc(func() time.Time { return f.now })

	store := crew.NewStore(storage.NewMemory())
	f.shifts = crew.NewShiftTracker(store, clock)
	boards := services.NewBoards(nil, store, crew.NewSetup(store), nil, clock, "footer")

	f.server = New(Options{
		Addr:    ":0",
		Token:   testToken,
		Version: "v1.2.3",
		Metrics: metrics.NewPrometheusRecorder(nil).Handler(),
	}, boards)
	return f
}

func (f *fixture) do(t *testing.T, path string, authorized bool) (int, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := f.server.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out Response
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(body, &out), string(body))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	status, resp := f.do(t, "/healthz", false)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "v1.2.3", data["version"])
}

func TestAuth(t *testing.T) {
	f := newFixture(t)

	status, resp := f.do(t, "/api/communities/"+testGuild+"/leaderboard", false)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	status, _ = f.do(t, "/metrics", false)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.shifts.AdjustTotal(ctx, testGuild, "201", "Ally", 90)
	require.NoError(t, err)
	_, err = f.shifts.AdjustTotal(ctx, testGuild, "202", "Bo", 120)
	require.NoError(t, err)

	status, resp := f.do(t, "/api/communities/"+testGuild+"/leaderboard", true)
	require.Equal(t, http.StatusOK, status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, testGuild, data["community_id"])
	entries := data["entries"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "Bo", first["display_name"])
	assert.EqualValues(t, 120, first["minutes"])
	assert.EqualValues(t, 1, first["rank"])

	status, _ = f.do(t, "/api/communities/"+testGuild+"/leaderboard?limit=1", true)
	assert.Equal(t, http.StatusOK, status)
}

func TestLeaderboard_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "non numeric id", path: "/api/communities/abc/leaderboard"},
		{name: "limit too large", path: "/api/communities/" + testGuild + "/leaderboard?limit=1000"},
		{name: "limit zero", path: "/api/communities/" + testGuild + "/leaderboard?limit=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := f.do(t, tt.path, true)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, resp := f.do(t, "/api/communities/"+testGuild+"/status", true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, resp.Data.(map[string]any)["empty"])

	_, err := f.shifts.StartShift(ctx, testGuild, "201", "Ally", "IRFD")
	require.NoError(t, err)
	f.now = f.now.Add(45 * time.Minute)

	status, resp = f.do(t, "/api/communities/"+testGuild+"/status", true)
	require.Equal(t, http.StatusOK, status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["empty"])
	onDuty := data["on_duty"].([]any)
	require.Len(t, onDuty, 1)
	entry := onDuty[0].(map[string]any)
	assert.Equal(t, "IRFD", entry["airport"])
	assert.EqualValues(t, 45, entry["elapsed_minutes"])
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := f.server.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestErrorHandler_CrewKinds(t *testing.T) {
	f := newFixture(t)
	f.server.app.Get("/boom/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "conflict":
			return crew.ErrAlreadyActive
		case "external":
			return crew.ErrNotConfigured
		default:
			return io.ErrUnexpectedEOF
		}
	})

	tests := []struct {
		kind   string
		status int
		code   string
	}{
		{kind: "conflict", status: http.StatusConflict, code: "CONFLICT"},
		{kind: "external", status: http.StatusNotFound, code: "NOT_FOUND"},
		{kind: "other", status: http.StatusInternalServerError, code: "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			status, resp := f.do(t, "/boom/"+tt.kind, false)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
