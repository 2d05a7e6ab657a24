package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/menulens/menulens-api/internal/domain"
	"github.com/menulens/menulens-api/internal/events"
	"github.com/menulens/menulens-api/internal/pipeline"
)

// maxUploadSize bounds the menu photo upload.
const maxUploadSize = 10 << 20 // 10 MiB

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// ProcessMenuRequest represents the non-file fields of the multipart
// ingress request.
type ProcessMenuRequest struct {
	TargetLanguage string `validate:"required,min=2,max=32"`
	GenerateImages bool
}

// ProcessMenuResponse acknowledges an accepted session.
type ProcessMenuResponse struct {
	SessionID string `json:"sessionId"`
}

// MenuHandler handles menu processing HTTP requests.
type MenuHandler struct {
	runner    *pipeline.Runner
	hub       *events.SessionHub
	validator *validator.Validate
	logger    *slog.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(runner *pipeline.Runner, hub *events.SessionHub, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		runner:    runner,
		hub:       hub,
		validator: validator.New(),
		logger:    logger.With("component", "menu_handler"),
	}
}

// ProcessMenu handles POST /api/menus requests. It validates the upload,
// acknowledges with 202 and a session ID, and hands the session to the
// pipeline runner; all further outcomes stream via the events endpoint.
func (h *MenuHandler) ProcessMenu(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer func() { _ = file.Close() }()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported image type %q", mimeType))
		return
	}

	// Read one byte past the limit to tell "exactly at the cap" apart from
	// "over it" instead of silently truncating the image.
	image, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image upload")
		return
	}
	if len(image) > maxUploadSize {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Image exceeds the 10 MiB upload limit")
		return
	}

	req := ProcessMenuRequest{
		TargetLanguage: r.FormValue("targetLanguage"),
		GenerateImages: r.FormValue("generateImages") != "false",
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, err := domain.NewSession(image, mimeType, req.TargetLanguage, req.GenerateImages)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.runner.Submit(session); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			respondWithError(w, http.StatusServiceUnavailable, "Server busy, try again later")
			return
		}
		h.logger.Error("failed to submit session", "error", err, "session_id", session.ID)
		respondWithError(w, http.StatusInternalServerError, "Failed to start processing")
		return
	}

	h.logger.Info("session accepted",
		"session_id", session.ID,
		"target_language", session.TargetLanguage,
		"image_bytes", len(image))

	respondWithJSON(w, http.StatusAccepted, ProcessMenuResponse{SessionID: session.ID.String()})
}

// StreamEvents handles GET /api/menus/{sessionID}/events requests,
// streaming the session's progress events as server-sent events until the
// terminal event or client disconnect. A disconnect does not stop the
// pipeline; subsequent events are dropped.
func (h *MenuHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ch, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event",
					"error", err, "session_id", sessionID, "event_type", event.Type)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}
