package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsbrief/internal/api"
	"github.com/jonesrussell/newsbrief/internal/domain"
	"github.com/jonesrussell/newsbrief/internal/logger"
	"github.com/jonesrussell/newsbrief/internal/metrics"
	"github.com/jonesrussell/newsbrief/internal/store"
)

func newTestServer(t *testing.T) (*api.Server, *store.FileStore) {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return api.NewServer(fs, metrics.New(), logger.NewNop()), fs
}

func doRequest(t *testing.T, srv *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Dates(t *testing.T) {
	t.Parallel()

	srv, fs := newTestServer(t)

	_, err := fs.SaveRecords(context.Background(), nil, "2024-01-02")
	require.NoError(t, err)
	_, err = fs.SaveRecords(context.Background(), nil, "2024-01-01")
	require.NoError(t, err)

	rec := doRequest(t, srv, "/api/v1/dates")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, payload.Dates)
}

func TestServer_DatesEmptyStore(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/dates")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dates":[]}`, rec.Body.String())
}

func TestServer_Snapshot(t *testing.T) {
	t.Parallel()

	srv, fs := newTestServer(t)

	articles := []domain.Article{{
		ID:     "https://example.com/a",
		Source: "example",
		Title:  "A Story",
		URL:    "https://example.com/a",
		Score:  1,
	}}

	_, err := fs.SaveRecords(context.Background(), articles, "2024-01-01")
	require.NoError(t, err)

	rec := doRequest(t, srv, "/api/v1/snapshots/2024-01-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Date     string           `json:"date"`
		Articles []domain.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "2024-01-01", payload.Date)
	require.Len(t, payload.Articles, 1)
	assert.Equal(t, "A Story", payload.Articles[0].Title)
}

func TestServer_SnapshotBadDate(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/snapshots/not-a-date")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SnapshotMissingDate(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/api/v1/snapshots/2024-06-01")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
