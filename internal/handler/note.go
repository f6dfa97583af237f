package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwalczak/noteboard/internal/model"
	"github.com/bwalczak/noteboard/internal/response"
	"github.com/bwalczak/noteboard/internal/service"
	"github.com/bwalczak/noteboard/internal/websocket"
)

type NoteHandler struct {
	service *service.NoteService
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewNoteHandler(svc *service.NoteService, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{service: svc, hub: hub, logger: logger}
}

func (h *NoteHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NoteEvent(action, id))
	}
}

// noteRequest is the decoded note body. Pointer fields distinguish a
// missing field from an empty one; the validation messages differ.
// CreatedAt and ID are decoded so clients sending them get no decode
// error, but create ignores both.
type noteRequest struct {
	ID          *int64           `json:"id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Level       *model.Level     `json:"level"`
	CreatedAt   *model.Timestamp `json:"createdAt"`
}

// fieldErrors returns one message per invalid required field, in field
// declaration order.
func (r *noteRequest) fieldErrors() []string {
	var msgs []string
	switch {
	case r.Title == nil:
		msgs = append(msgs, "Title should not be null")
	case *r.Title == "":
		msgs = append(msgs, "Title should not be empty")
	}
	switch {
	case r.Description == nil:
		msgs = append(msgs, "Description should not be null")
	case *r.Description == "":
		msgs = append(msgs, "Description should not be empty")
	}
	return msgs
}

// List handles GET /api/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	env, err := h.service.GetAllNotes()
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Write(w, env)
}

// Filter handles GET /api/notes/filter?level=LEVEL.
func (h *NoteHandler) Filter(w http.ResponseWriter, r *http.Request) {
	level, err := model.ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	env, err := h.service.GetNotesByLevel(level)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Write(w, env)
}

// Create handles POST /api/notes/add.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, err)
		return
	}
	if msgs := req.fieldErrors(); len(msgs) > 0 {
		h.writeInvalidFields(w, msgs)
		return
	}

	env, err := h.service.CreateNote(*req.Title, *req.Description, req.Level)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast("created", env.Data[0].ID)

	w.Header().Set("Location", requestBaseURL(r)+"/api/notes/add")
	response.Write(w, env)
}

// Update handles PUT /api/notes/update.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, err)
		return
	}
	if msgs := req.fieldErrors(); len(msgs) > 0 {
		h.writeInvalidFields(w, msgs)
		return
	}

	// A body without an id can never match a stored note; id 0 is
	// unassignable, so the lookup reports not-found.
	var id int64
	if req.ID != nil {
		id = *req.ID
	}

	env, err := h.service.UpdateNote(id, *req.Title, *req.Description, req.Level)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast("updated", id)

	response.Write(w, env)
}

// Delete handles DELETE /api/notes/{noteId}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("noteId"), 10, 64)
	if err != nil {
		h.writeError(w, err)
		return
	}

	env, err := h.service.DeleteNote(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast("deleted", id)

	response.Write(w, env)
}

// Unrouted answers any request that matched no route, and the /error
// path itself, with the 404 envelope.
func (h *NoteHandler) Unrouted(w http.ResponseWriter, r *http.Request) {
	response.Write(w, h.service.UnroutedRequest(r.Method))
}

// writeError translates every non-validation failure — not-found,
// malformed body, unparseable level, storage errors — to a 400 with the
// underlying message. The uniform 400 and the "occured" spelling are
// contract; callers depend on both.
func (h *NoteHandler) writeError(w http.ResponseWriter, err error) {
	h.logger.Error(err.Error())
	response.Write(w, response.Failure(http.StatusBadRequest, "Internal error occured: "+err.Error(), time.Now()))
}

func (h *NoteHandler) writeInvalidFields(w http.ResponseWriter, msgs []string) {
	reason := "Invalid fields: " + strings.Join(msgs, ", ")
	h.logger.Error(reason)
	response.Write(w, response.Failure(http.StatusBadRequest, reason, time.Now()))
}

// requestBaseURL reconstructs the scheme and authority the client used.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
