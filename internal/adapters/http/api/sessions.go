package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fairway/internal/adapters/export"
	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/domain/model"
)

// multipartMemory caps the in-memory part of a parsed upload form.
const multipartMemory = 1 << 20

// SessionsHandler serves the /api/sessions resource.
type SessionsHandler struct {
	sessions Sessions
}

// NewSessionsHandler creates a handler backed by sessions.
func NewSessionsHandler(sessions Sessions) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// fileUpload adapts a multipart file header to ingest.Upload.
type fileUpload struct {
	header *multipart.FileHeader
}

func (u fileUpload) Filename() string    { return u.header.Filename }
func (u fileUpload) ContentType() string { return u.header.Header.Get("Content-Type") }
func (u fileUpload) Size() int64         { return u.header.Size }

func (u fileUpload) Open() (io.ReadCloser, error) { return u.header.Open() }

// HandleUpload handles POST /api/sessions/upload.
func (h *SessionsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, Wrap(op, err))
			return
		}
		writeError(w, r, WrapKind(op, KindInvalidArgument, fmt.Errorf("%w: %w", ErrBadRequest, err)))
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	form := uploadForm{
		Title:    r.FormValue("title"),
		Location: r.FormValue("location"),
		Source:   r.FormValue("source"),
	}
	if err := check(op, form); err != nil {
		writeError(w, r, err)
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, Wrap(op, ErrMissingFile))
		return
	}

	var source model.Source
	if form.Source != "" {
		// Already validated.
		source, _ = model.ParseSource(form.Source)
	}

	out, err := h.sessions.Upload(r.Context(), service.UploadRequest{
		File:     fileUpload{header: header},
		Title:    form.Title,
		Location: form.Location,
		Source:   source,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, r, http.StatusCreated, out,
		fmt.Sprintf("Session uploaded successfully with %d shots", out.Session.ShotCount))
}

// HandleList handles GET /api/sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.List(r.Context())
	if err != nil {
		writeError(w, r, Wrap("api.list", err))
		return
	}
	writeJSON(w, r, http.StatusOK, list, "Sessions retrieved successfully")
}

// HandleSearch handles GET /api/sessions/search?title=.
func (h *SessionsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"

	title, ok := r.URL.Query()["title"]
	if !ok {
		writeError(w, r, NewKind(op, KindInvalidArgument, "title query parameter is required"))
		return
	}
	list, err := h.sessions.Search(r.Context(), strings.Join(title, " "))
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, r, http.StatusOK, list, "Sessions retrieved successfully")
}

// HandleGet handles GET /api/sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, Wrap("api.get", err))
		return
	}
	writeJSON(w, r, http.StatusOK, sess, "Session retrieved successfully")
}

// HandleUpdate handles PUT /api/sessions/{id}.
func (h *SessionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update"

	var req updateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, WrapKind(op, KindInvalidArgument, fmt.Errorf("%w: invalid JSON body", ErrBadRequest)))
		return
	}
	if err := check(op, req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.sessions.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateRequest{
		Title:       req.Title,
		Location:    req.Location,
		SessionDate: req.SessionDate,
	})
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, r, http.StatusOK, sess, "Session updated successfully")
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, Wrap("api.delete", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleShots handles GET /api/sessions/{id}/shots.
func (h *SessionsHandler) HandleShots(w http.ResponseWriter, r *http.Request) {
	shots, err := h.sessions.Shots(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, Wrap("api.shots", err))
		return
	}
	writeJSON(w, r, http.StatusOK, shots, "Shots retrieved successfully")
}

// HandleStats handles GET /api/sessions/{id}/stats.
func (h *SessionsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, Wrap("api.stats", err))
		return
	}
	writeJSON(w, r, http.StatusOK, st, "Statistics retrieved successfully")
}

// HandleExport handles GET /api/sessions/{id}/export?format=xlsx|csv. The
// file is buffered so a failure can still be reported as JSON.
func (h *SessionsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}

	var buf bytes.Buffer
	sess, err := h.sessions.Export(r.Context(), chi.URLParam(r, "id"), format, &buf)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(sess)))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
