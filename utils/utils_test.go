package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatURL(t *testing.T) {
	assert.Equal(t, "#", FormatURL(""))
	assert.Equal(t, "#", FormatURL("   "))
	assert.Equal(t, "https://cv.example.com/me.pdf", FormatURL("cv.example.com/me.pdf"))
	assert.Equal(t, "http://example.com", FormatURL("http://example.com"))
	assert.Equal(t, "HTTPS://example.com", FormatURL("HTTPS://example.com"))
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, ContainsIgnoreCase("Senior Backend Engineer", "backend"))
	assert.True(t, ContainsIgnoreCase("Design", ""))
	assert.False(t, ContainsIgnoreCase("Marketing", "sales"))
	assert.True(t, ContainsIgnoreCase("Frontend Engineer", " eng"))
	assert.False(t, ContainsIgnoreCase("Engineering", " eng"))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, "nope")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", ClientIP(r))
	r.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", ClientIP(r))
}
