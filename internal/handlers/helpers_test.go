package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/secure-notes/internal/middleware"
	"github.com/crucial707/secure-notes/internal/models"
)

var (
	alice = &models.User{ID: 1, Username: "alice"}
	bob   = &models.User{ID: 2, Username: "bob"}
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

// asUser returns r authenticated as user, as the Authenticate middleware would leave it.
func asUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return out
}

func fieldErrors(t *testing.T, out map[string]interface{}) map[string]interface{} {
	t.Helper()
	fields, ok := out["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("no fields in %v", out)
	}
	return fields
}
