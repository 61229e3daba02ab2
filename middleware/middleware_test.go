package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zayro/auth"
	"zayro/utils"
)

func protected(tokens *auth.Tokens, revoker auth.Revoker) httprouter.Handle {
	return Authenticate(tokens, revoker)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"userId": utils.GetUserIDFromRequest(r)})
	})
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokens("secret", "zayro", time.Hour)
	revoker := auth.NewMemoryRevoker()
	h := protected(tokens, revoker)
	token, claims, err := tokens.Issue(auth.Identity{UserID: "u1", Email: "admin@zayro.studio"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/jobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateSetsUserID(t *testing.T) {
	tokens := auth.NewTokens("secret", "zayro", time.Hour)
	token, _, err := tokens.Issue(auth.Identity{UserID: "u42"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(tokens, auth.NewMemoryRevoker())(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u42"}`, rec.Body.String())
}

func TestSecurityHeadersAndLogging(t *testing.T) {
	h := Logging(SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
