package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwalczak/noteboard/internal/database"
	"github.com/bwalczak/noteboard/internal/response"
	"github.com/bwalczak/noteboard/internal/service"
	"github.com/bwalczak/noteboard/internal/store"
)

func setupHandler(t *testing.T) *NoteHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := service.NewNoteService(store.NewNoteStore(db), slog.Default())
	return NewNoteHandler(svc, nil, slog.Default())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func TestCreateValidation(t *testing.T) {
	h := setupHandler(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing title",
			body: `{"description":"d"}`,
			want: "Invalid fields: Title should not be null",
		},
		{
			name: "empty title",
			body: `{"title":"","description":"d"}`,
			want: "Invalid fields: Title should not be empty",
		},
		{
			name: "missing description",
			body: `{"title":"t"}`,
			want: "Invalid fields: Description should not be null",
		},
		{
			name: "empty description",
			body: `{"title":"t","description":""}`,
			want: "Invalid fields: Description should not be empty",
		},
		{
			name: "both missing",
			body: `{}`,
			want: "Invalid fields: Title should not be null, Description should not be null",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/notes/add", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Reason != tc.want {
				t.Errorf("reason = %q, want %q", env.Reason, tc.want)
			}

			// Nothing may have been persisted.
			all, err := h.service.GetAllNotes()
			if err != nil {
				t.Fatalf("get all: %v", err)
			}
			if len(all.Data) != 0 {
				t.Errorf("store not empty after rejected create: %v", all.Data)
			}
		})
	}
}

func TestCreateIgnoresClientIDAndCreatedAt(t *testing.T) {
	h := setupHandler(t)

	body := `{"id":9999,"title":"t","description":"d","createdAt":"01-01-2020 01:01:01"}`
	req := httptest.NewRequest("POST", "/api/notes/add", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	n := env.Data[0]
	if n.ID == 9999 {
		t.Error("client-supplied id was honored")
	}
	if n.CreatedAt.Year() == 2020 {
		t.Error("client-supplied createdAt was honored")
	}
}

func TestCreateSetsLocationHeader(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("POST", "http://example.com/api/notes/add",
		strings.NewReader(`{"title":"t","description":"d"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if got := rec.Header().Get("Location"); got != "http://example.com/api/notes/add" {
		t.Errorf("Location = %q", got)
	}
}

func TestCreateMalformedBody(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("POST", "/api/notes/add", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.HasPrefix(env.Reason, "Internal error occured: ") {
		t.Errorf("reason = %q, want internal error prefix", env.Reason)
	}
}

func TestCreateBadLevel(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("POST", "/api/notes/add",
		strings.NewReader(`{"title":"t","description":"d","level":"URGENT"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Reason, `invalid level "URGENT"`) {
		t.Errorf("reason = %q", env.Reason)
	}
}

func TestFilterBadLevel(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("GET", "/api/notes/filter?level=bogus", nil)
	rec := httptest.NewRecorder()
	h.Filter(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Reason != `Internal error occured: invalid level "bogus"` {
		t.Errorf("reason = %q", env.Reason)
	}
}

func TestUpdateMissingNote(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("PUT", "/api/notes/update",
		strings.NewReader(`{"id":777,"title":"t","description":"d"}`))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	want := "Internal error occured: The note was not found on the server!"
	if env.Reason != want {
		t.Errorf("reason = %q, want %q", env.Reason, want)
	}
}

func TestUpdateWithoutID(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("PUT", "/api/notes/update",
		strings.NewReader(`{"title":"t","description":"d"}`))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Reason, "was not found") {
		t.Errorf("reason = %q", env.Reason)
	}
}

func TestDeleteMissingNote(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("DELETE", "/api/notes/777", nil)
	req.SetPathValue("noteId", "777")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	want := "Internal error occured: The note was not found on the server!"
	if env.Reason != want {
		t.Errorf("reason = %q, want %q", env.Reason, want)
	}
}

func TestDeleteNonNumericID(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("DELETE", "/api/notes/abc", nil)
	req.SetPathValue("noteId", "abc")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.HasPrefix(env.Reason, "Internal error occured: ") {
		t.Errorf("reason = %q", env.Reason)
	}
}

func TestUnrouted(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest("POST", "/api/notes/error", nil)
	rec := httptest.NewRecorder()
	h.Unrouted(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	want := "There is no mapping for a POST request for this path on the server!"
	if env.Reason != want {
		t.Errorf("reason = %q, want %q", env.Reason, want)
	}
}
