package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mincerdash/app"
	"mincerdash/domain/artifacts"
	"mincerdash/internal/generator"
	"mincerdash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *testkit.InMemoryLedger) {
	t.Helper()
	ledger := testkit.NewInMemoryLedger()
	svc := app.NewDashboardService(
		generator.NewCache(generator.DefaultConfig()),
		app.WithLedger(ledger),
		app.WithClock(func() time.Time { return time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC) }),
	)
	s, err := NewServer(svc)
	require.NoError(t, err)
	return s, ledger
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Education Return (Mincer Equation) Dashboard")
	assert.Contains(t, body, "Return to education")
	assert.Contains(t, body, "/export/report?")
	assert.Contains(t, body, "</html>")
}

func TestIndex_InvertedRangeShowsWarning(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/?edu_min=14&edu_max=10")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maximum adjusted to 15")
}

func TestIndex_InsufficientDataStillRenders(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/?filtered=1&gender=female&edu_min=20&edu_max=20")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "insufficient data")
	assert.Contains(t, body, "Exports are unavailable")
	assert.Contains(t, body, "Data Overview")
}

func TestIndex_InvalidNumber(t *testing.T) {
	s, _ := newTestServer(t)
	for _, q := range []string{"edu_min=abc", "robust=maybe", "gender=other", "seed=x"} {
		w := get(t, s.Handler(), "/?"+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestDashboardAPI(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/api/dashboard?gender=male&robust=false")
	require.Equal(t, http.StatusOK, w.Code)

	body := gjson.ParseBytes(w.Body.Bytes())
	assert.Equal(t, "male", body.Get("criteria.criteria.genders.0").String())
	assert.Equal(t, int64(1), body.Get("criteria.criteria.genders.#").Int())
	assert.False(t, body.Get("robust").Bool())
	// a single gender makes the dummy constant
	assert.False(t, body.Get("regression").Exists())
	assert.False(t, body.Get("forest").Exists())
	assert.Contains(t, body.Get("regression_error").String(), "gender is constant")
	assert.Equal(t, int64(1), body.Get("scatter.#").Int())
	assert.Equal(t, "Male", body.Get("scatter.0.label").String())
}

func TestDashboardAPI_DefaultSelection(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	body := gjson.ParseBytes(w.Body.Bytes())
	assert.True(t, body.Get("regression").Exists())
	assert.Empty(t, body.Get("regression_error").String())
	assert.Equal(t, int64(4), body.Get("forest.entries.#").Int())
	assert.Equal(t, "education", body.Get("forest.entries.0.term").String())
	assert.Equal(t, int64(2), body.Get("scatter.#").Int())
	assert.Greater(t, body.Get("overview.observations").Int(), int64(0))
}

func TestExportReport(t *testing.T) {
	s, ledger := newTestServer(t)
	w := get(t, s.Handler(), "/export/report?edu_min=8&edu_max=16")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, artifacts.MIMEText, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="education_return_report_20240601093015.txt"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "# Education Return"))
	assert.Equal(t, 1, ledger.Len())
}

func TestExportData(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s.Handler(), "/export/data")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, artifacts.MIMEXLSX, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Export-ID"))
	assert.Greater(t, w.Body.Len(), 0)
}

func TestExports_InsufficientDataIs422(t *testing.T) {
	s, ledger := newTestServer(t)
	for _, path := range []string{"/export/report", "/export/data"} {
		w := get(t, s.Handler(), path+"?filtered=1&gender=female&edu_min=20&edu_max=20")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_DATA")
	}
	assert.Equal(t, 0, ledger.Len())
}

func TestRecentExports(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, get(t, s.Handler(), "/export/report").Code)
	require.Equal(t, http.StatusOK, get(t, s.Handler(), "/export/data").Code)

	w := get(t, s.Handler(), "/api/exports?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Exports []artifacts.Record `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Exports, 1)

	assert.Equal(t, http.StatusBadRequest, get(t, s.Handler(), "/api/exports?limit=0").Code)
}

func TestHealthAndStatic(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/static/dashboard.js").Code)
}

func TestAdminRouter(t *testing.T) {
	h := NewAdminRouter()
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/debug/pprof/").Code)
}
