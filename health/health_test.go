package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zayro/store"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestReady(t *testing.T) {
	ok := NewService(NewStoreChecker(store.NewMemory()), stubChecker{name: "redis"})
	require.NoError(t, ok.Ready(context.Background()))

	down := NewService(NewStoreChecker(store.NewMemory()), stubChecker{name: "redis", err: errors.New("connection refused")})
	err := down.Ready(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: connection refused")
}

func TestHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewService(stubChecker{name: "store", err: store.ErrUnavailable}).ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	NewService().ReadyHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewService().Live(rec, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
