package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireSyncToken_OpenWhenUnset(t *testing.T) {
	called := false
	handler := RequireSyncToken("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil))

	if !called {
		t.Fatal("expected next handler to run when token is not configured")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestRequireSyncToken_RejectsMismatch(t *testing.T) {
	handler := RequireSyncToken("secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run on token mismatch")
	}))

	for _, provided := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil)
		if provided != "" {
			req.Header.Set("X-Sync-Token", provided)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected status 401, got %d", provided, rec.Code)
		}
	}
}

func TestRequireSyncToken_AcceptsMatch(t *testing.T) {
	called := false
	handler := RequireSyncToken("secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil)
	req.Header.Set("X-Sync-Token", " secret ")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected next handler to run on matching token")
	}
}
