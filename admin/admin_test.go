package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zayro/models"
	"zayro/store"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newRouter(s store.Store) *httprouter.Router {
	h := NewHandler(s, func() time.Time { return now })
	router := httprouter.New()
	router.GET("/api/admin/jobs", h.GetJobs)
	router.POST("/api/admin/jobs", h.CreateJob)
	router.PUT("/api/admin/jobs/:id", h.UpdateJob)
	router.DELETE("/api/admin/jobs/:id", h.DeleteJob)
	router.GET("/api/admin/applications", h.GetApplications)
	router.GET("/api/admin/exports/applications.pdf", h.ExportApplications)
	router.DELETE("/api/admin/applications/:id", h.DeleteApplication)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreateThenList(t *testing.T) {
	router := newRouter(store.NewMemory())

	rec := do(router, http.MethodPost, "/api/admin/jobs", `{
		"title":"Producer","department":"Operations","location":"Remote","type":"Contract",
		"hasDuration":true,"startDate":"2026-06-01","endDate":"2026-07-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created jobRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Active", created.Schedule)

	rec = do(router, http.MethodGet, "/api/admin/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []jobRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ID)
	assert.Equal(t, "Producer", rows[0].Title)
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	s := store.NewMemory()
	router := newRouter(s)

	rec := do(router, http.MethodPost, "/api/admin/jobs", `{
		"title":"Producer","department":"Operations","type":"Contract",
		"hasDuration":true,"startDate":"2026-07-01","endDate":"2026-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"endDate"`)

	jobs, err := s.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestUpdateAndDeleteJob(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	f := models.DefaultJobFields()
	f.Title = "Editor"
	job, err := s.CreateJob(ctx, f)
	require.NoError(t, err)
	_, err = s.CreateApplication(ctx, models.Application{JobID: job.ID, JobTitle: job.Title, FullName: "Ana", Email: "ana@example.com", ResumeURL: "cv.example.com"})
	require.NoError(t, err)
	router := newRouter(s)

	rec := do(router, http.MethodPut, "/api/admin/jobs/"+job.ID, `{"title":"Senior Editor","department":"Design","type":"Full-time"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Senior Editor")

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPut, "/api/admin/jobs/missing", `{"title":"X","department":"Design","type":"Full-time"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/admin/jobs/"+job.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/admin/jobs/"+job.ID, "").Code)

	rec = do(router, http.MethodGet, "/api/admin/applications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var apps []applicationRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	require.Len(t, apps, 1, "applications survive their job")
	assert.Equal(t, "https://cv.example.com", apps[0].ResumeLink)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/admin/applications/"+apps[0].ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/admin/applications/"+apps[0].ID, "").Code)
}

func TestExportApplications(t *testing.T) {
	rec := do(newRouter(store.NewMemory()), http.MethodGet, "/api/admin/exports/applications.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
