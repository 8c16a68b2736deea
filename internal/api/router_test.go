package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/towerjump-backend-go/internal/analysis/towerjump"
	"github.com/jengzang/towerjump-backend-go/internal/config"
	"github.com/jengzang/towerjump-backend-go/internal/database"
	"github.com/jengzang/towerjump-backend-go/internal/handler"
	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/middleware"
	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/repository"
	"github.com/jengzang/towerjump-backend-go/internal/service"
)

const sampleCSV = "Page,Item,UTCDateTime,LocalDateTime,Latitude,Longitude,TimeZone,City,County,State,Country,CellType\n" +
	"1,1,01/26/22 22:00,,40.7128,-74.0060,EST,,,New York,US,LTE\n" +
	"1,2,01/26/22 22:01,,41.2033,-73.1234,EST,,,Connecticut,US,LTE\n" +
	"1,3,01/26/22 22:02,,40.7589,-73.9851,EST,,,New York,US,LTE\n" +
	"1,4,01/26/22 22:03,,41.2033,-73.1234,EST,,,Connecticut,US,LTE\n" +
	"1,5,01/27/22 10:00,,41.2033,-73.1234,EST,,,Connecticut,US,LTE\n"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router   *gin.Engine
	analysis *service.AnalysisService
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	conn, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, database.MigrateUp(conn))
	t.Cleanup(func() { conn.Close() })

	detector, err := towerjump.NewDetector(cfg.Detector)
	require.NoError(t, err)

	jobRepo := repository.NewAnalysisJobRepository(conn)
	periodRepo := repository.NewPeriodRepository(conn)
	registry := jobs.NewRegistry(jobRepo)
	datasets := service.NewDatasetService()
	analysis := service.NewAnalysisService(datasets, detector, registry, periodRepo)
	results := service.NewResultService(registry, jobRepo, periodRepo)
	t.Cleanup(analysis.Close)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	t.Cleanup(limiter.Close)

	router := SetupRouter(cfg, Handlers{
		Dataset:  handler.NewDatasetHandler(datasets, cfg.MaxUpload),
		Analysis: handler.NewAnalysisHandler(analysis, results),
	}, limiter)

	return &testServer{router: router, analysis: analysis}
}

func testConfig() *config.Config {
	return &config.Config{
		MaxUpload:  1 << 20,
		RateLimit:  100,
		RateWindow: time.Minute,
		Detector:   towerjump.DefaultConfig(),
	}
}

func uploadRequest(t *testing.T, filename, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRoundTrip(t *testing.T) {
	s := newTestServer(t, testConfig())

	// nothing uploaded yet
	w := s.do(httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/results", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// upload
	w = s.do(uploadRequest(t, "records.csv", sampleCSV))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded models.UploadResult
	decode(t, w, &uploaded)
	assert.Equal(t, 5, uploaded.Records)
	assert.Equal(t, "2022-01-27 10:00:00", uploaded.DateRange.End)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/dataset/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.DatasetStats
	decode(t, w, &stats)
	assert.Equal(t, map[string]int{"New York": 2, "Connecticut": 3}, stats.States)

	// analyze
	w = s.do(httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var started handler.StartResponse
	decode(t, w, &started)
	assert.Equal(t, models.JobStatusPending, started.Status)
	require.NotEmpty(t, started.JobID)

	s.analysis.Wait()

	// status
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/status/"+started.JobID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var job models.AnalysisJob
	decode(t, w, &job)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.TotalPeriods)
	assert.Equal(t, 1, job.TowerJumpsDetected)
	require.NotNil(t, job.Summary)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/status/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// results
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/results?filter=jumps&per_page=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var page models.ResultPage
	decode(t, w, &page)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsTowerJump)
	assert.Equal(t, "New York, Connecticut", page.Results[0].AllStates)
	assert.Equal(t, models.Pagination{CurrentPage: 1, PerPage: 5, TotalCount: 1, TotalPages: 1}, page.Pagination)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/results?job_id="+started.JobID+"&sort_by=ConfidenceLevel&sort_order=asc", nil))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Results, 2)
	assert.LessOrEqual(t, page.Results[0].ConfidenceLevel, page.Results[1].ConfidenceLevel)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/results?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// summary
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.Summary
	decode(t, w, &summary)
	assert.Equal(t, 2, summary.TotalPeriods)
	assert.Equal(t, 50.0, summary.TowerJumpPercentage)

	// export
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), service.ExportFilename)
	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, service.ExportHeader, rows[0])
}

func TestUploadValidation(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(httptest.NewRequest(http.MethodPost, "/api/upload", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(uploadRequest(t, "records.txt", sampleCSV))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "File must be a CSV", env.Message)

	w = s.do(uploadRequest(t, "records.csv", "Page,Item\n1,2\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w, nil)
	assert.Contains(t, env.Message, "missing required columns")

	// uppercase extension accepted
	w = s.do(uploadRequest(t, "RECORDS.CSV", sampleCSV))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUpload = 64
	s := newTestServer(t, cfg)

	w := s.do(uploadRequest(t, "records.csv", sampleCSV))
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestMutatingRoutesRequireTokenWhenSecretSet(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "secret"
	s := newTestServer(t, cfg)

	w := s.do(uploadRequest(t, "records.csv", sampleCSV))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "analyst",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	req := uploadRequest(t, "records.csv", sampleCSV)
	req.Header.Set("Authorization", "Bearer "+signed)
	w = s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	// reads stay open
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/dataset/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	s := newTestServer(t, cfg)

	w := s.do(uploadRequest(t, "records.csv", sampleCSV))
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(uploadRequest(t, "records.csv", sampleCSV))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
