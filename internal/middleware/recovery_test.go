package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"drivebox/internal/config"
	"drivebox/internal/httputil"
)

func TestRecoveryTurnsPanicsInto500(t *testing.T) {
	handler := Recovery(config.NewTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/folders", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if problem.Detail != "internal server error" {
		t.Errorf("detail = %q", problem.Detail)
	}
}

func TestRecoveryLeavesNormalRequestsAlone(t *testing.T) {
	handler := Recovery(config.NewTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/files/abc", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
