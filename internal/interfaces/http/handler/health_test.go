package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping() error {
	return s.err
}

type stubViewSource struct {
	ready bool
}

func (s *stubViewSource) Ready() bool {
	return s.ready
}

func newHealthRouter(db Pinger, views ViewSource) *gin.Engine {
	engine := gin.New()
	NewHealthHandler(db, views).RegisterRoutes(engine)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	engine := newHealthRouter(&stubPinger{}, &stubViewSource{})
	assert.Equal(t, http.StatusOK, get(engine, "/healthz").Code)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		ready    bool
		expected int
	}{
		{"ready", nil, true, http.StatusOK},
		{"database down", errors.New("connection refused"), true, http.StatusServiceUnavailable},
		{"no view published yet", nil, false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newHealthRouter(&stubPinger{err: tt.dbErr}, &stubViewSource{ready: tt.ready})
			assert.Equal(t, tt.expected, get(engine, "/readyz").Code)
		})
	}
}
