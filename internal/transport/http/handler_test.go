package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truetalent/internal/talent"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testDataset() *talent.Dataset {
	return &talent.Dataset{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Season:      2024,
		Batters: []talent.BatterRecord{
			{PlayerID: 1001, Name: "Corbin Ray", Team: "COL", PA: 600, WOBA: 0.315,
				WOBATrueTalent: 0.262, TotalContextAdj: 0.058,
				WRCPlusTrueTalent: talent.Float(64), WRAATrueTalent: talent.Float(-23.2),
				HeartPct: talent.Float(0.21)},
			{PlayerID: 1002, Name: "Dee Alvarez", Team: "MIA", PA: 550, WOBA: 0.355,
				WOBATrueTalent: 0.371, TotalContextAdj: -0.020,
				WRCPlusTrueTalent: talent.Float(138), WRAATrueTalent: talent.Float(27.0),
				HeartPct: talent.Float(0.14)},
			{PlayerID: 1003, Name: "Lou Okada", Team: "SEA", PA: 120, WOBA: 0.290,
				WOBATrueTalent: 0.292, TotalContextAdj: 0.0,
				WRCPlusTrueTalent: talent.NullFloat(), WRAATrueTalent: talent.NullFloat(),
				HeartPct: talent.NullFloat()},
		},
		References: talent.LeagueReferences{WOBA: 0.320, ProtectionScore: 0.331, HeartPct: 0.15, FIPMinus: 100},
		Audit:      talent.Audit{BattersWithoutPitchData: 1},
	}
}

func testServer(t *testing.T, ds *talent.Dataset) *httptest.Server {
	t.Helper()
	router := NewRouter(NewStore(ds), NewMetrics(), testLogger(), RouterConfig{})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp.StatusCode
}

func TestGetDataset(t *testing.T) {
	srv := testServer(t, testDataset())

	var got talent.Dataset
	status := getJSON(t, srv.URL+"/api/dataset", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2024, got.Season)
	assert.Len(t, got.Batters, 3)
}

func TestGetBatter(t *testing.T) {
	srv := testServer(t, testDataset())

	t.Run("found", func(t *testing.T) {
		var got talent.BatterRecord
		status := getJSON(t, srv.URL+"/api/batters/1002", &got)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Dee Alvarez", got.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		var body map[string]any
		status := getJSON(t, srv.URL+"/api/batters/999", &body)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "BATTER_NOT_FOUND", body["error_code"])
	})

	t.Run("non-integer id", func(t *testing.T) {
		var body map[string]any
		status := getJSON(t, srv.URL+"/api/batters/trout", &body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PARAMETER", body["error_code"])
	})
}

func TestGetLeaders(t *testing.T) {
	srv := testServer(t, testDataset())

	t.Run("default ranking", func(t *testing.T) {
		var got leadersResponse
		status := getJSON(t, srv.URL+"/api/leaders", &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "woba_true_talent", got.By)
		require.NotEmpty(t, got.Batters)
		assert.Equal(t, 1002, got.Batters[0].PlayerID)
	})

	t.Run("most inflated by context", func(t *testing.T) {
		var got leadersResponse
		status := getJSON(t, srv.URL+"/api/leaders?by=total_context_adj&limit=1", &got)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, got.Batters, 1)
		assert.Equal(t, 1001, got.Batters[0].PlayerID)
	})

	t.Run("ascending order", func(t *testing.T) {
		var got leadersResponse
		status := getJSON(t, srv.URL+"/api/leaders?by=woba_true_talent&order=asc&limit=1", &got)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, got.Batters, 1)
		assert.Equal(t, 1001, got.Batters[0].PlayerID)
	})

	t.Run("undefined values sort last", func(t *testing.T) {
		var got leadersResponse
		status := getJSON(t, srv.URL+"/api/leaders?by=wrc_plus_true_talent&limit=3", &got)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, got.Batters, 3)
		assert.Equal(t, 1003, got.Batters[2].PlayerID)
	})

	t.Run("unknown column", func(t *testing.T) {
		status := getJSON(t, srv.URL+"/api/leaders?by=launch_angle", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("bad limit", func(t *testing.T) {
		status := getJSON(t, srv.URL+"/api/leaders?limit=0", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestGetReferencesAndAudit(t *testing.T) {
	srv := testServer(t, testDataset())

	var refs talent.LeagueReferences
	status := getJSON(t, srv.URL+"/api/references", &refs)
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.320, refs.WOBA, 1e-9)

	var audit talent.Audit
	status = getJSON(t, srv.URL+"/api/audit", &audit)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, audit.BattersWithoutPitchData)
}

func TestHealth(t *testing.T) {
	t.Run("serving", func(t *testing.T) {
		srv := testServer(t, testDataset())
		var body healthResponse
		status := getJSON(t, srv.URL+"/healthz", &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, 3, body.Batters)
	})

	t.Run("before first build", func(t *testing.T) {
		srv := testServer(t, nil)
		var body healthResponse
		status := getJSON(t, srv.URL+"/healthz", &body)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "starting", body.Status)
	})
}

func TestDatasetUnavailable(t *testing.T) {
	srv := testServer(t, nil)

	for _, path := range []string{"/api/dataset", "/api/batters/1001", "/api/leaders", "/api/references", "/api/audit"} {
		var body map[string]any
		status := getJSON(t, srv.URL+path, &body)
		assert.Equal(t, http.StatusServiceUnavailable, status, path)
		assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"], path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, testDataset())

	// Generate one API hit so the counter appears.
	status := getJSON(t, srv.URL+"/api/dataset", nil)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "truetalent_http_requests_total")
}

func TestStoreReplace(t *testing.T) {
	store := NewStore(nil)
	assert.Nil(t, store.Dataset())

	ds := testDataset()
	store.Replace(ds)
	assert.Equal(t, ds, store.Dataset())
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t, testDataset())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	id := resp.Header.Get("X-Request-ID")
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "X-Request-ID should be a UUID, got %q", id)
}

func TestRateLimit(t *testing.T) {
	router := NewRouter(NewStore(testDataset()), NewMetrics(), testLogger(),
		RouterConfig{RateLimitRPS: 1, RateLimitBurst: 2})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	limited := false
	for i := 0; i < 10; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/healthz", srv.URL))
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "burst of requests should trip the rate limiter")
}
