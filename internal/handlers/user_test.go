package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/secure-notes/internal/repo"
)

func TestUserHandler_Me(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, owner_id\s+FROM notes\s+WHERE owner_id = \$1\s+ORDER BY id`).
		WithArgs(alice.ID).
		WillReturnRows(sqlmock.NewRows(noteColumns).
			AddRow(1, "first", "x", alice.ID).
			AddRow(2, "second", nil, alice.ID))

	h := &UserHandler{Notes: repo.NewNoteRepo(db)}
	rr := httptest.NewRecorder()
	h.Me(rr, asUser(httptest.NewRequest("GET", "/users/me", nil), alice))

	if rr.Code != http.StatusOK {
		t.Fatalf("Me status: got %d, want 200", rr.Code)
	}
	var out UserResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != alice.ID || out.Username != "alice" || len(out.Notes) != 2 {
		t.Errorf("unexpected user: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_Me_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, owner_id`).
		WithArgs(alice.ID).
		WillReturnError(errors.New("disk I/O error"))

	h := &UserHandler{Notes: repo.NewNoteRepo(db)}
	rr := httptest.NewRecorder()
	h.Me(rr, asUser(httptest.NewRequest("GET", "/users/me", nil), alice))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Me status: got %d, want 500", rr.Code)
	}
}

func TestUserHandler_Me_Unauthenticated(t *testing.T) {
	h := &UserHandler{}
	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest("GET", "/users/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Me status: got %d, want 401", rr.Code)
	}
}

func TestWelcomeAndHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Welcome(rr, httptest.NewRequest("GET", "/", nil))
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["message"] != WelcomeMessage {
		t.Errorf("welcome: got %v", out)
	}

	rr = httptest.NewRecorder()
	Health(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Errorf("health: got %d %q", rr.Code, rr.Body.String())
	}
}

func TestReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	rr := httptest.NewRecorder()
	Ready(db)(rr, httptest.NewRequest("GET", "/ready", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("ready: got %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	Ready(db)(rr, httptest.NewRequest("GET", "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready: got %d, want 503", rr.Code)
	}
}
