package careers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*httprouter.Router, *countingStore, map[string]string) {
	t.Helper()
	s := newCountingStore()
	ids := seed(t, s)
	h := NewHandler(NewListing(s, clock), NewDetail(s, clock), "https://zayro.studio/")

	router := httprouter.New()
	router.GET("/api/careers/jobs", h.ListOpen)
	router.GET("/api/careers/jobs/:id", h.GetJob)
	router.POST("/api/careers/jobs/:id/applications", h.Apply)
	router.GET("/api/careers/jobs/:id/flyer.pdf", h.Flyer)
	router.GET("/api/careers/jobs/:id/qr.png", h.QRCode)
	return router, s, ids
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestListOpenHandler(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/careers/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var positions Positions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &positions))
	assert.Len(t, positions.Jobs, 2)
}

func TestGetJobHandlerRedirects(t *testing.T) {
	router, _, ids := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/careers/jobs/"+ids["Expired"], "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/careers", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"redirect":"/careers"}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/careers/jobs/"+ids["Active"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Active"`)
}

func TestApplyHandler(t *testing.T) {
	router, s, ids := newTestRouter(t)
	path := "/api/careers/jobs/" + ids["Unscheduled"] + "/applications"

	rec := serve(router, http.MethodPost, path, `{"fullName":"Ana","email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please provide a resume link.","field":"resumeUrl"}`, rec.Body.String())
	assert.Zero(t, s.appWrites.Load())

	rec = serve(router, http.MethodPost, path, `{"fullName":"Ana","email":"ana@example.com","resumeUrl":"cv.example.com/ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int32(1), s.appWrites.Load())

	rec = serve(router, http.MethodPost, "/api/careers/jobs/"+ids["Scheduled"]+"/applications", `{"resumeUrl":"x.com"}`)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, int32(1), s.appWrites.Load())
}

func TestFlyerAndQRHandlers(t *testing.T) {
	router, _, ids := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/careers/jobs/"+ids["Active"]+"/flyer.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = serve(router, http.MethodGet, "/api/careers/jobs/"+ids["Active"]+"/qr.png?size=128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = serve(router, http.MethodGet, "/api/careers/jobs/"+ids["Expired"]+"/qr.png", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestJobLink(t *testing.T) {
	h := NewHandler(nil, nil, "https://zayro.studio/")
	assert.Equal(t, "https://zayro.studio/careers/abc", h.JobLink("abc"))
}
