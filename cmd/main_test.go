package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"chesslab/internal/bootstrap"
	repo "chesslab/internal/repository"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &bootstrap.Config{
		EnginePath:     "/nonexistent/stockfish",
		EngineMoveTime: 10,
		EngineTimeout:  1000,
	}
	r := chi.NewRouter()
	initializeDeliveryHandlers(cfg, zap.NewNop().Sugar(), repo.NewMemoryHistoryStorage()).Router(r, true)
	return r
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/analyze", `{"fen":""}`, http.StatusBadRequest},
		{http.MethodPost, "/analyze", `{"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"}`, http.StatusInternalServerError},
		{http.MethodPost, "/review", `{"moves":["e4","Ke2"]}`, http.StatusBadRequest},
		{http.MethodGet, "/history/alice", "", http.StatusOK},
		{http.MethodGet, "/history/alice/last", "", http.StatusNotFound},
		{http.MethodOptions, "/analyze", "", http.StatusNoContent},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
		assert.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.path)
	}
}
