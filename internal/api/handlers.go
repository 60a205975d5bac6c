package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/transformai/transformai/internal/extract"
	"github.com/transformai/transformai/internal/languages"
	"github.com/transformai/transformai/internal/models"
	"github.com/transformai/transformai/internal/pipeline"
	"github.com/transformai/transformai/internal/session"
)

// maxUploadBytes caps a single uploaded document or recording.
const maxUploadBytes = 32 << 20 // 32 MB

type Handler struct {
	store    *session.Store
	pipeline *pipeline.Pipeline
}

func NewHandler(store *session.Store, p *pipeline.Pipeline) *Handler {
	return &Handler{
		store:    store,
		pipeline: p,
	}
}

// CreateSession handles POST /v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	respondJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /v1/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	h.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// PasteInput handles POST /v1/sessions/{id}/input
func (h *Handler) PasteInput(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.PasteInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess = h.pipeline.Paste(sess, req.Text, req.ExtraInstructions)
	h.saveAndRespond(w, sess)
}

// UploadInput handles POST /v1/sessions/{id}/upload
// Expects a multipart form with a single "file" part. The content type is
// taken from the part header, falling back to the filename extension.
func (h *Handler) UploadInput(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)

	sess, err = h.pipeline.Extract(r.Context(), sess, data, contentType)
	if err != nil {
		respondActionError(w, err)
		return
	}

	h.saveAndRespond(w, sess)
}

// Generate handles POST /v1/sessions/{id}/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.pipeline.Generate(r.Context(), sess, req)
	if err != nil {
		respondActionError(w, err)
		return
	}

	if err := h.store.Put(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}

	respondJSON(w, http.StatusOK, models.GenerateResponse{
		SessionID: sess.ID,
		Result:    sess.LastResult,
	})
}

// Speech handles POST /v1/sessions/{id}/speech. The response body is the
// synthesized MP3 track.
func (h *Handler) Speech(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	// An empty body means "use the session's language".
	var req models.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Language == "" {
		req.Language = sess.SelectedLanguage
	}

	sess, audio, err := h.pipeline.Speak(r.Context(), sess, req.Language)
	if err != nil {
		respondActionError(w, err)
		return
	}

	if err := h.store.Put(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// Video handles POST /v1/sessions/{id}/video. The response body is the
// rendered MP4 slideshow.
func (h *Handler) Video(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Language == "" {
		req.Language = sess.SelectedLanguage
	}

	video, err := h.pipeline.RenderVideo(r.Context(), sess, req.Language)
	if err != nil {
		respondActionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusOK)
	w.Write(video)
}

// ExportDocx handles GET /v1/sessions/{id}/export/docx
func (h *Handler) ExportDocx(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	doc, err := h.pipeline.ExportDocx(sess)
	if err != nil {
		respondActionError(w, err)
		return
	}

	w.Header().Set("Content-Type", extract.TypeDOCX)
	w.Header().Set("Content-Disposition", `attachment; filename="result.docx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// ListLanguages handles GET /v1/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, languages.All())
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return models.Session{}, false
	}

	sess, err := h.store.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return models.Session{}, false
	}
	return sess, true
}

func (h *Handler) saveAndRespond(w http.ResponseWriter, sess models.Session) {
	if err := h.store.Put(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// uploadContentType normalizes the declared part content type, falling back
// to the filename extension when the client sent a generic type.
func uploadContentType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return mt
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extract.TypePlainText
	case ".docx":
		return extract.TypeDOCX
	case ".pptx":
		return extract.TypePPTX
	case ".pdf":
		return extract.TypePDF
	case ".mp3":
		return extract.TypeMP3
	case ".wav":
		return extract.TypeWAV
	default:
		return declared
	}
}

// respondActionError maps the pipeline error taxonomy onto HTTP statuses:
// invalid user input is 400, a missing credential is 503, an upstream
// failure is 502.
func respondActionError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var cerr *models.ConfigurationError
	var serr *models.ServiceError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Error(), Kind: "validation"})
	case errors.As(err, &cerr):
		respondJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: cerr.Error(), Kind: "configuration"})
	case errors.As(err, &serr):
		respondJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: serr.Error(), Kind: "service"})
	default:
		respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
