package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menulens/menulens-api/internal/config"
	"github.com/menulens/menulens-api/internal/domain"
	"github.com/menulens/menulens-api/internal/events"
	"github.com/menulens/menulens-api/internal/extraction"
	"github.com/menulens/menulens-api/internal/imagecache"
	"github.com/menulens/menulens-api/internal/pipeline"
)

type fixedExtractor struct{}

func (fixedExtractor) ExtractText(context.Context, []byte, string) (extraction.Result, error) {
	return extraction.Result{Text: "a menu with several dishes on it", Confidence: 0.9}, nil
}

type fixedTranslator struct{}

func (fixedTranslator) TranslateMenu(context.Context, string, string) ([]domain.MenuItem, error) {
	return []domain.MenuItem{
		{Name: "Pad Thai", OriginalName: "ผัดไทย", Category: domain.CategoryMainCourses},
	}, nil
}

type fixedSynthesizer struct{}

func (fixedSynthesizer) SynthesizeImage(context.Context, string, string) (string, error) {
	return "https://cdn.example.com/dish.png", nil
}

type aliveProber struct{}

func (aliveProber) Alive(context.Context, string) bool { return true }

type handlerFixture struct {
	handler *MenuHandler
	hub     *events.SessionHub
	router  *chi.Mux
}

func newHandlerFixture(t *testing.T, start bool, queueSize int) *handlerFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := events.NewSessionHub(logger)
	cache := imagecache.New(nil, imagecache.NewMemory(), aliveProber{}, nil,
		7*24*time.Hour, logger, nil)
	cfg := config.PipelineConfig{
		WorkerCount:          1,
		QueueSize:            queueSize,
		BatchSize:            2,
		TranslationAttempts:  1,
		TranslationBackoff:   time.Millisecond,
		SynthesisAttempts:    1,
		SynthesisBackoff:     time.Millisecond,
		MinExtractedTextSize: 10,
	}
	orchestrator := pipeline.NewOrchestrator(fixedExtractor{}, fixedTranslator{},
		fixedSynthesizer{}, cache, hub, nil, cfg, logger)
	runner := pipeline.NewRunner(orchestrator, cfg, logger)
	if start {
		runner.Start()
		t.Cleanup(runner.Stop)
	}

	handler := NewMenuHandler(runner, hub, logger)
	router := chi.NewRouter()
	router.Post("/api/menus", handler.ProcessMenu)
	router.Get("/api/menus/{sessionID}/events", handler.StreamEvents)
	return &handlerFixture{handler: handler, hub: hub, router: router}
}

func menuUpload(t *testing.T, mimeType, targetLanguage string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if mimeType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="menu.jpg"`)
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	if targetLanguage != "" {
		require.NoError(t, writer.WriteField("targetLanguage", targetLanguage))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestProcessMenuAcceptsUpload(t *testing.T) {
	f := newHandlerFixture(t, true, 4)

	body, contentType := menuUpload(t, "image/jpeg", "English")
	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp ProcessMenuResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err, "sessionId must be a valid UUID")
}

func TestProcessMenuRejectsUnsupportedMimeType(t *testing.T) {
	f := newHandlerFixture(t, true, 4)

	body, contentType := menuUpload(t, "application/pdf", "English")
	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "Unsupported image type")
}

func TestProcessMenuRejectsOversizedImage(t *testing.T) {
	f := newHandlerFixture(t, true, 4)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="menu.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), maxUploadSize+1))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("targetLanguage", "English"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "limit")
}

func TestProcessMenuRejectsMissingImage(t *testing.T) {
	f := newHandlerFixture(t, true, 4)

	body, contentType := menuUpload(t, "", "English")
	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessMenuRejectsMissingTargetLanguage(t *testing.T) {
	f := newHandlerFixture(t, true, 4)

	body, contentType := menuUpload(t, "image/jpeg", "")
	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "Validation error")
}

func TestProcessMenuReturns503WhenQueueFull(t *testing.T) {
	// Workers never start, so the single queue slot stays occupied.
	f := newHandlerFixture(t, false, 1)

	submit := func() *httptest.ResponseRecorder {
		body, contentType := menuUpload(t, "image/jpeg", "English")
		req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, submit().Code)
	rec := submit()
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "busy")
}

func TestStreamEventsRejectsInvalidSessionID(t *testing.T) {
	f := newHandlerFixture(t, false, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/menus/not-a-uuid/events", nil)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamEventsWritesServerSentEvents(t *testing.T) {
	f := newHandlerFixture(t, false, 1)
	sessionID := uuid.New()

	go func() {
		// Give the handler a moment to subscribe.
		time.Sleep(100 * time.Millisecond)
		ctx := context.Background()
		f.hub.Emit(ctx, sessionID, events.StageStarted(events.StageExtraction))
		f.hub.Emit(ctx, sessionID, events.ProcessingComplete(time.Second, events.Summary{ItemCount: 1}))
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/menus/"+sessionID.String()+"/events", nil)
	rec := httptest.NewRecorder()

	// ServeHTTP returns once the terminal event closes the stream.
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	streamBody := rec.Body.String()
	assert.Contains(t, streamBody, "event: extraction_started\n")
	assert.Contains(t, streamBody, "event: processing_complete\n")
	assert.Contains(t, streamBody, `"itemCount":1`)
}

func TestStreamEventsStopsOnClientDisconnect(t *testing.T) {
	f := newHandlerFixture(t, false, 1)
	sessionID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/menus/"+sessionID.String()+"/events", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		f.router.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client disconnect")
	}
}
